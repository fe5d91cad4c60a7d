// Package selftest exercises the whole scaffolding pipeline against a
// disposable fixture, proving the installation works end to end.
package selftest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/matcher"
	"github.com/arthur-debert/skel/pkg/types"
	"github.com/arthur-debert/skel/pkg/validator"
)

// The fixture template: a small tree with content worth byte-comparing
// and a guide directory the default exclude list must drop.
var fixtureFiles = map[string]string{
	"README.md":           "# {{project_name}}\n\nPipeline self-test fixture.\n",
	"src/main.txt":        "application entry point\n",
	"docs/notes.md":       "notes\n",
	"setup_guide/skip.md": "must never arrive\n",
}

// SelfTestOptions holds options for the selftest command.
type SelfTestOptions struct {
	// Dir overrides the scratch root. Empty means the system temp
	// directory.
	Dir string
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS
}

// SelfTestResult carries the pipeline outcome plus the fixture probes.
type SelfTestResult struct {
	Pipeline *validator.SelfTestResult

	// ExclusionOK reports that the default-excluded guide directory did
	// not reach the target.
	ExclusionOK bool

	TemplateRoot string
	Target       string
}

// SelfTest builds a fixture template in a scratch directory and runs
// read, generate, populate, and validate against it. The scratch tree
// is removed afterwards.
func SelfTest(opts SelfTestOptions) (*SelfTestResult, error) {
	logger := logging.GetLogger("commands.selftest")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	root := opts.Dir
	if root == "" {
		root = filepath.Join(os.TempDir(),
			fmt.Sprintf("skel-selftest-%d", time.Now().UnixNano()))
	}
	templateRoot := filepath.Join(root, "template")
	target := filepath.Join(root, "target")

	defer func() {
		if err := fs.RemoveAll(root); err != nil {
			logger.Warn().Err(err).Str("path", root).Msg("Failed to remove scratch directory")
		}
	}()

	for rel, content := range fixtureFiles {
		path := filepath.Join(templateRoot, filepath.FromSlash(rel))
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite,
				"failed to build fixture directory %s", filepath.Dir(path))
		}
		if err := fs.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite,
				"failed to build fixture file %s", path)
		}
	}
	if err := fs.MkdirAll(target, 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to create target directory %s", target)
	}

	logger.Info().Str("scratch", root).Msg("Running pipeline self-test")

	// Empty variables keep the byte-for-byte content comparison armed.
	pipeline := validator.SelfTest(fs, templateRoot, target, matcher.Default(), nil)

	result := &SelfTestResult{
		Pipeline:     pipeline,
		TemplateRoot: templateRoot,
		Target:       target,
	}

	if _, err := fs.Stat(filepath.Join(target, "setup_guide")); err != nil {
		result.ExclusionOK = true
	} else {
		result.Pipeline.Overall = false
		result.Pipeline.Errors = append(result.Pipeline.Errors,
			"excluded path was created: setup_guide")
	}

	logger.Info().Bool("overall", pipeline.Overall).Msg("Self-test completed")
	return result, nil
}
