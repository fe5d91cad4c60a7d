package template

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/matcher"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/types"
)

// FileMeta carries the metadata captured for a template file at read
// time. The zero value marks a file whose stat failed; the file is
// still copied.
type FileMeta struct {
	Size    int64
	ModTime time.Time
}

// Structure is the classified view of a template tree. It is read-only
// after Read returns, so stages and parallel workers share it without
// synchronization.
type Structure struct {
	root          string
	directories   map[string]struct{}
	files         map[string]FileMeta
	excludedDirs  map[string]struct{}
	excludedFiles map[string]struct{}
}

// Root returns the template root the structure was read from.
func (s *Structure) Root() string { return s.root }

// DirCount returns the number of included directories.
func (s *Structure) DirCount() int { return len(s.directories) }

// FileCount returns the number of included files.
func (s *Structure) FileCount() int { return len(s.files) }

// ExcludedDirCount returns the number of directories dropped by the
// pattern filter.
func (s *Structure) ExcludedDirCount() int { return len(s.excludedDirs) }

// ExcludedFileCount returns the number of files dropped by the pattern
// filter.
func (s *Structure) ExcludedFileCount() int { return len(s.excludedFiles) }

// ContainsDir reports whether the relative directory is included.
func (s *Structure) ContainsDir(rel string) bool {
	_, ok := s.directories[filepath.Join(s.root, rel)]
	return ok
}

// ContainsFile reports whether the relative file is included.
func (s *Structure) ContainsFile(rel string) bool {
	_, ok := s.files[filepath.Join(s.root, rel)]
	return ok
}

// Meta returns the captured metadata for a relative file.
func (s *Structure) Meta(rel string) (FileMeta, bool) {
	meta, ok := s.files[filepath.Join(s.root, rel)]
	return meta, ok
}

// Rel converts an absolute path inside the template to its relative
// form. Paths outside the root are returned unchanged.
func (s *Structure) Rel(abs string) string {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return abs
	}
	return rel
}

// RelDirectories returns the included directories relative to the
// root, sorted.
func (s *Structure) RelDirectories() []string {
	return s.relSorted(s.directories)
}

// RelFiles returns the included files relative to the root, sorted.
func (s *Structure) RelFiles() []string {
	rels := make([]string, 0, len(s.files))
	for abs := range s.files {
		rels = append(rels, s.Rel(abs))
	}
	sort.Strings(rels)
	return rels
}

// ExcludedRelDirectories returns the excluded directories relative to
// the root, sorted.
func (s *Structure) ExcludedRelDirectories() []string {
	return s.relSorted(s.excludedDirs)
}

// ExcludedRelFiles returns the excluded files relative to the root,
// sorted.
func (s *Structure) ExcludedRelFiles() []string {
	return s.relSorted(s.excludedFiles)
}

func (s *Structure) relSorted(set map[string]struct{}) []string {
	rels := make([]string, 0, len(set))
	for abs := range set {
		rels = append(rels, s.Rel(abs))
	}
	sort.Strings(rels)
	return rels
}

// Read walks the template tree and classifies every entry against the
// matcher. Excluded directories are still descended so their files are
// classified on their own merits. The .skel.toml manifest at the root
// never enters the structure.
func Read(filesystem types.FS, root string, m *matcher.Matcher) (*Structure, error) {
	logger := logging.GetLogger("template")

	info, err := filesystem.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrTemplateNotFound,
				"template path %s does not exist", root)
		}
		return nil, errors.Wrapf(err, errors.ErrTemplateInvalid,
			"template path %s is not readable", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrTemplateInvalid,
			"template path %s is not a directory", root)
	}

	logger.Info().Str("templateRoot", root).Msg("Reading template structure")

	s := &Structure{
		root:          root,
		directories:   make(map[string]struct{}),
		files:         make(map[string]FileMeta),
		excludedDirs:  make(map[string]struct{}),
		excludedFiles: make(map[string]struct{}),
	}

	if err := s.readLevel(filesystem, m, root, logger); err != nil {
		return nil, err
	}

	logger.Info().
		Int("directories", s.DirCount()).
		Int("files", s.FileCount()).
		Int("excludedDirectories", s.ExcludedDirCount()).
		Int("excludedFiles", s.ExcludedFileCount()).
		Msg("Template structure read")

	return s, nil
}

// readLevel classifies one directory level, directories before files,
// then descends into every subdirectory including excluded ones.
func (s *Structure) readLevel(filesystem types.FS, m *matcher.Matcher, dir string, logger zerolog.Logger) error {
	entries, err := filesystem.ReadDir(dir)
	if err != nil {
		if dir == s.root {
			return errors.Wrapf(err, errors.ErrTemplateInvalid,
				"template path %s is not readable", dir)
		}
		logger.Warn().Err(err).Str("path", dir).Msg("Failed to read template directory")
		return nil
	}

	var subdirs []string

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		abs := filepath.Join(dir, entry.Name())
		rel := s.Rel(abs)
		subdirs = append(subdirs, abs)

		if m.Excluded(rel) {
			s.excludedDirs[abs] = struct{}{}
			logger.Debug().Str("path", rel).Msg("Excluding directory")
		} else {
			s.directories[abs] = struct{}{}
			logger.Debug().Str("path", rel).Msg("Including directory")
		}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if dir == s.root && entry.Name() == paths.ManifestFileName {
			continue
		}
		abs := filepath.Join(dir, entry.Name())
		rel := s.Rel(abs)

		if m.Excluded(rel) {
			s.excludedFiles[abs] = struct{}{}
			logger.Debug().Str("path", rel).Msg("Excluding file")
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn().Err(err).Str("path", rel).Msg("Failed to stat template file")
			s.files[abs] = FileMeta{}
		} else {
			s.files[abs] = FileMeta{Size: info.Size(), ModTime: info.ModTime()}
		}
		logger.Debug().Str("path", rel).Msg("Including file")
	}

	for _, sub := range subdirs {
		if err := s.readLevel(filesystem, m, sub, logger); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks that a structure is usable for generation. Both
// conditions can fail at once, yielding two messages.
func Validate(s *Structure) (bool, []string) {
	var errs []string
	if s.FileCount() == 0 {
		errs = append(errs, "template contains no files to copy")
	}
	if s.DirCount() == 0 {
		errs = append(errs, "template contains no directories to create")
	}
	return len(errs) == 0, errs
}
