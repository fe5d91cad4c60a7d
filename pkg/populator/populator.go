// Package populator copies template files into the generated
// structure, applying variable substitution and resolving conflicts
// with existing files. Files are independent of one another, so the
// work can spread across a bounded worker pool; per-file outcomes fold
// into shared counters under a mutex.
package populator

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
	"github.com/arthur-debert/skel/pkg/variables"
)

// Per-file outcomes reported through the Progress sink.
const (
	OutcomeCopied  = "copied"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// ConflictResolver merges a template file with an existing target
// file. Implementations may be slow (network-bound); a failure falls
// back to keeping the existing file.
type ConflictResolver interface {
	ResolveConflict(source, target, path string) (merged string, explanation string, err error)
}

// Progress receives one Advance call per processed file. Calls arrive
// serialized even when workers run in parallel.
type Progress interface {
	Begin(total int, label string)
	Advance(path string, outcome string)
	End()
}

// Options controls a population run.
type Options struct {
	DryRun    bool
	Force     bool
	Variables variables.Set
	Resolver  ConflictResolver
	Workers   int
	Progress  Progress
}

// Stats reports the outcome of a population run.
type Stats struct {
	FilesCopied  int
	FilesSkipped int
	FilesFailed  int

	// Failed holds the relative paths that could not be written.
	Failed []string
}

type run struct {
	fs     types.FS
	s      *template.Structure
	target string
	opts   Options
	logger zerolog.Logger
}

// Populate copies every included file of the structure into target.
// Individual failures are counted and logged; the batch continues. An
// error is returned only when every file failed.
func Populate(filesystem types.FS, s *template.Structure, target string, opts Options) (*Stats, error) {
	logger := logging.GetLogger("populator")
	logger.Info().
		Str("target", target).
		Bool("dryRun", opts.DryRun).
		Bool("force", opts.Force).
		Int("workers", opts.Workers).
		Msg("Populating documents")

	r := &run{fs: filesystem, s: s, target: target, opts: opts, logger: logger}

	rels := s.RelFiles()
	stats := &Stats{}
	if len(rels) == 0 {
		return stats, nil
	}

	progress := opts.Progress
	if progress == nil {
		progress = noProgress{}
	}
	progress.Begin(len(rels), "Populating files")
	defer progress.End()

	var mu sync.Mutex
	record := func(rel, outcome string) {
		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case OutcomeCopied:
			stats.FilesCopied++
		case OutcomeSkipped:
			stats.FilesSkipped++
		case OutcomeFailed:
			stats.FilesFailed++
			stats.Failed = append(stats.Failed, rel)
		}
		progress.Advance(rel, outcome)
	}

	if opts.Workers <= 1 {
		for _, rel := range rels {
			record(rel, r.processOne(rel))
		}
	} else {
		jobs := make(chan string)
		var wg sync.WaitGroup
		for i := 0; i < opts.Workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for rel := range jobs {
					record(rel, r.processOne(rel))
				}
			}()
		}
		for _, rel := range rels {
			jobs <- rel
		}
		close(jobs)
		wg.Wait()
	}

	logger.Info().
		Int("copied", stats.FilesCopied).
		Int("skipped", stats.FilesSkipped).
		Int("failed", stats.FilesFailed).
		Msg("Document population completed")

	if stats.FilesFailed == len(rels) {
		return stats, errors.New(errors.ErrPopulate,
			fmt.Sprintf("failed to copy files: %s", strings.Join(stats.Failed, "; ")))
	}
	return stats, nil
}

// processOne runs the copy decision ladder for a single relative file
// and returns its outcome.
func (r *run) processOne(rel string) string {
	source := filepath.Join(r.s.Root(), rel)
	dest := filepath.Join(r.target, rel)
	logger := r.logger.With().Str("source", source).Str("target", dest).Logger()

	info, err := r.fs.Stat(source)
	if err != nil || info.IsDir() {
		logger.Warn().Msg("Source file does not exist or is not a file")
		return OutcomeSkipped
	}

	if r.opts.DryRun {
		logger.Info().Msg("Would copy file")
		return OutcomeCopied
	}

	if err := r.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		logger.Warn().Err(err).Msg("Failed to create parent directory")
		return OutcomeFailed
	}

	_, destErr := r.fs.Stat(dest)
	destExists := destErr == nil

	switch {
	case !destExists || r.opts.Force:
		if err := r.copyFile(source, dest, info); err != nil {
			logger.Warn().Err(err).Msg("Failed to copy file")
			return OutcomeFailed
		}
		logger.Debug().Msg("Copied file")
	case r.opts.Resolver != nil:
		merged, ok := r.resolveConflict(source, dest, info, logger)
		if !ok {
			logger.Debug().Msg("Skipping existing file")
			return OutcomeSkipped
		}
		if err := r.fs.WriteFile(dest, merged, info.Mode().Perm()); err != nil {
			logger.Warn().Err(err).Msg("Failed to write merged file")
			return OutcomeFailed
		}
		logger.Debug().Msg("Merged file with existing content")
	default:
		logger.Debug().Msg("Skipping existing file")
		return OutcomeSkipped
	}

	if len(r.opts.Variables) > 0 {
		if err := r.substitute(dest, logger); err != nil {
			logger.Warn().Err(err).Msg("Failed to process file content")
			return OutcomeFailed
		}
	}

	return OutcomeCopied
}

// copyFile writes the source bytes to dest and carries over the mode
// and modification time.
func (r *run) copyFile(source, dest string, info fs.FileInfo) error {
	data, err := r.fs.ReadFile(source)
	if err != nil {
		return err
	}
	if err := r.fs.WriteFile(dest, data, info.Mode().Perm()); err != nil {
		return err
	}
	if err := r.fs.Chmod(dest, info.Mode().Perm()); err != nil {
		return err
	}
	return r.fs.Chtimes(dest, time.Now(), info.ModTime())
}

// resolveConflict asks the resolver to merge source into the existing
// target. A binary target or any resolver error keeps the existing
// file untouched.
func (r *run) resolveConflict(source, dest string, info fs.FileInfo, logger zerolog.Logger) ([]byte, bool) {
	targetData, err := r.fs.ReadFile(dest)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read existing file for merge")
		return nil, false
	}
	if !variables.IsText(targetData) {
		logger.Debug().Msg("Existing file is binary, keeping it")
		return nil, false
	}
	sourceData, err := r.fs.ReadFile(source)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read source file for merge")
		return nil, false
	}

	merged, explanation, err := r.opts.Resolver.ResolveConflict(
		string(sourceData), string(targetData), dest)
	if err != nil {
		logger.Warn().Err(err).Msg("Conflict resolution failed, keeping existing file")
		return nil, false
	}

	logger.Debug().Str("explanation", explanation).Msg("Conflict resolved")
	return []byte(merged), true
}

// substitute re-reads the freshly written file and applies the
// variable map. Binary content passes through untouched.
func (r *run) substitute(dest string, logger zerolog.Logger) error {
	data, err := r.fs.ReadFile(dest)
	if err != nil {
		return err
	}
	if !variables.IsText(data) {
		logger.Debug().Msg("Skipping content processing for binary file")
		return nil
	}

	replaced, n := r.opts.Variables.Substitute(data)
	if n == 0 {
		return nil
	}
	if err := r.fs.WriteFile(dest, replaced, 0o644); err != nil {
		return err
	}
	logger.Debug().Int("replacements", n).Msg("Processed file content")
	return nil
}

// ValidatePopulation checks that every included file arrived at the
// target. Purely a presence check.
func ValidatePopulation(filesystem types.FS, s *template.Structure, target string) (bool, []string) {
	var errs []string
	for _, rel := range s.RelFiles() {
		info, err := filesystem.Stat(filepath.Join(target, rel))
		if err != nil || info.IsDir() {
			errs = append(errs, fmt.Sprintf("file was not copied: %s", rel))
		}
	}
	return len(errs) == 0, errs
}

type noProgress struct{}

func (noProgress) Begin(int, string)      {}
func (noProgress) Advance(string, string) {}
func (noProgress) End()                   {}
