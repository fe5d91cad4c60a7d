package internal

import (
	"bytes"
	"path/filepath"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/report"
	"github.com/arthur-debert/skel/pkg/types"
)

// WriteReport renders the run as JUnit XML at path, creating parent
// directories as needed.
func WriteReport(filesystem types.FS, path string, run report.Run) error {
	var buf bytes.Buffer
	if err := report.Write(&buf, run); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := filesystem.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, errors.ErrReport,
				"failed to create report directory %s", dir)
		}
	}
	if err := filesystem.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrReport,
			"failed to write report to %s", path)
	}
	return nil
}
