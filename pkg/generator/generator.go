// Package generator creates the directory skeleton of a new project
// from a template structure. Directory creation is best-effort: a
// failed directory is counted and logged, the batch continues.
package generator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
)

// Options controls a generation run.
type Options struct {
	DryRun bool
	Force  bool
}

// Stats reports the outcome of a generation run.
type Stats struct {
	DirsCreated int
	DirsSkipped int
	DirsFailed  int

	// Failed holds the relative paths that could not be created.
	Failed []string
}

// ValidateTarget checks the target against the precondition rules and
// returns every violated condition. It never mutates the filesystem.
// Writability is judged from permission bits.
func ValidateTarget(filesystem types.FS, target string, force bool) []string {
	var errs []string

	info, err := filesystem.Stat(target)
	if err == nil {
		if !info.IsDir() {
			errs = append(errs, fmt.Sprintf("target path %s exists but is not a directory", target))
			return errs
		}
		if info.Mode().Perm()&0o200 == 0 {
			errs = append(errs, fmt.Sprintf("target path %s is not writable", target))
		}
		if !force {
			if entries, rerr := filesystem.ReadDir(target); rerr == nil && len(entries) > 0 {
				errs = append(errs, fmt.Sprintf("target path %s is not empty (use force to override)", target))
			}
		}
		return errs
	}

	parent := filepath.Dir(target)
	pinfo, perr := filesystem.Stat(parent)
	if perr != nil || !pinfo.IsDir() {
		errs = append(errs, fmt.Sprintf("parent directory %s does not exist", parent))
	} else if pinfo.Mode().Perm()&0o200 == 0 {
		errs = append(errs, fmt.Sprintf("parent directory %s is not writable", parent))
	}

	return errs
}

// Generate creates the target root and every included directory of the
// structure beneath it. In dry-run mode nothing is written and every
// absent directory counts as created.
func Generate(filesystem types.FS, s *template.Structure, target string, opts Options) (*Stats, error) {
	logger := logging.GetLogger("generator")
	logger.Info().
		Str("target", target).
		Bool("dryRun", opts.DryRun).
		Bool("force", opts.Force).
		Msg("Generating directory structure")

	if errs := ValidateTarget(filesystem, target, opts.Force); len(errs) > 0 {
		return nil, errors.New(errors.ErrTargetInvalid,
			fmt.Sprintf("invalid target path: %s", strings.Join(errs, "; "))).
			WithDetail("errors", errs)
	}

	if !opts.DryRun {
		if _, err := filesystem.Stat(target); err != nil {
			if err := filesystem.MkdirAll(target, 0o755); err != nil {
				return nil, errors.Wrapf(err, errors.ErrDirCreate,
					"failed to create target directory %s", target)
			}
			logger.Debug().Str("path", target).Msg("Created target directory")
		}
	}

	stats := &Stats{}
	rels := s.RelDirectories()

	for _, rel := range rels {
		dir := filepath.Join(target, rel)

		exists := false
		if info, err := filesystem.Stat(dir); err == nil && info.IsDir() {
			exists = true
		}

		switch {
		case exists:
			stats.DirsSkipped++
			logger.Debug().Str("path", dir).Msg("Directory already exists")
		case opts.DryRun:
			stats.DirsCreated++
			logger.Info().Str("path", dir).Msg("Would create directory")
		default:
			if err := filesystem.MkdirAll(dir, 0o755); err != nil {
				stats.DirsFailed++
				stats.Failed = append(stats.Failed, rel)
				logger.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
			} else {
				stats.DirsCreated++
				logger.Debug().Str("path", dir).Msg("Created directory")
			}
		}
	}

	if len(rels) > 0 && stats.DirsFailed == len(rels) {
		return stats, errors.New(errors.ErrGenerate,
			fmt.Sprintf("failed to create directories: %s", strings.Join(stats.Failed, "; ")))
	}

	logger.Info().
		Int("created", stats.DirsCreated).
		Int("skipped", stats.DirsSkipped).
		Int("failed", stats.DirsFailed).
		Msg("Directory structure generation completed")

	return stats, nil
}

// Cleanup removes structure directories under target that contain no
// files anywhere beneath them, deepest-first. It is used after an
// aborted run and returns the number of directories removed.
func Cleanup(filesystem types.FS, s *template.Structure, target string) int {
	logger := logging.GetLogger("generator")

	rels := s.RelDirectories()
	sort.Sort(sort.Reverse(sort.StringSlice(rels)))

	removed := 0
	for _, rel := range rels {
		dir := filepath.Join(target, rel)

		if _, err := filesystem.Stat(dir); err != nil {
			continue
		}
		if hasFiles(filesystem, dir) {
			logger.Debug().Str("path", dir).Msg("Directory contains files, keeping")
			continue
		}
		if err := filesystem.RemoveAll(dir); err != nil {
			logger.Warn().Err(err).Str("path", dir).Msg("Failed to remove directory")
			continue
		}
		removed++
		logger.Debug().Str("path", dir).Msg("Removed directory")
	}

	if removed > 0 {
		logger.Info().Int("removed", removed).Str("target", target).
			Msg("Cleaned up after aborted generation")
	}
	return removed
}

// hasFiles reports whether any regular file lives in the subtree. An
// unreadable directory is treated as containing files so it is never
// removed.
func hasFiles(filesystem types.FS, dir string) bool {
	entries, err := filesystem.ReadDir(dir)
	if err != nil {
		return true
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			return true
		}
		if hasFiles(filesystem, filepath.Join(dir, entry.Name())) {
			return true
		}
	}
	return false
}
