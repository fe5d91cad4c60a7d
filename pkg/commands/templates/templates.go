// Package templates lists the templates available to skel: the
// builtins shipped in the binary plus the user templates directory.
package templates

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
)

// ListOptions holds options for the templates command.
type ListOptions struct {
	// TemplatesDir overrides the user templates directory. Empty means
	// the configured location.
	TemplatesDir string
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS
}

// Entry describes one user template.
type Entry struct {
	Name        string
	Description string
}

// ListResult carries the builtin and user template listings.
type ListResult struct {
	Builtin []template.BuiltinInfo
	User    []Entry

	// TemplatesDir is the directory the user listing came from.
	TemplatesDir string
}

// List enumerates builtin and user templates. A missing user templates
// directory is not an error, the user listing is just empty.
func List(opts ListOptions) (*ListResult, error) {
	logger := logging.GetLogger("commands.templates")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	dir := opts.TemplatesDir
	if dir == "" {
		if p, err := paths.New(); err == nil {
			dir = p.TemplatesDir()
		}
	}

	result := &ListResult{Builtin: template.Builtins(), TemplatesDir: dir}

	entries, err := fs.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", dir).Msg("Failed to read templates directory")
		}
		return result, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		user := Entry{Name: entry.Name()}
		manifest, merr := template.LoadManifest(fs, filepath.Join(dir, entry.Name()))
		if merr != nil {
			logger.Warn().Err(merr).Str("template", entry.Name()).
				Msg("Failed to parse template manifest")
		} else if manifest != nil {
			user.Description = manifest.Template.Description
		}
		result.User = append(result.User, user)
	}
	sort.Slice(result.User, func(i, j int) bool {
		return result.User[i].Name < result.User[j].Name
	})

	logger.Debug().
		Int("builtin", len(result.Builtin)).
		Int("user", len(result.User)).
		Msg("Templates listed")

	return result, nil
}
