// Package inspect shows what a template resolves to without touching
// any target: the classified tree, the filter effects, and the
// manifest.
package inspect

import (
	"github.com/arthur-debert/skel/pkg/commands/internal"
	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	// Template names a builtin, a user template, or a directory path.
	// Empty means the builtin default.
	Template string
	// Config carries the resolved app configuration (optional, defaults
	// to the baked-in defaults).
	Config *config.Config
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS
}

// InspectResult carries the classified template view.
type InspectResult struct {
	// Name is the resolved template argument.
	Name   string
	Source template.Source

	Structure *template.Structure
	Manifest  *config.TemplateManifest

	// Valid mirrors the generation pre-flight check on this structure.
	Valid  bool
	Issues []string
}

// Inspect resolves and reads a template, returning its structure. The
// target side of the pipeline never runs.
func Inspect(opts InspectOptions) (*InspectResult, error) {
	logger := logging.GetLogger("commands.inspect")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	resolved, err := internal.ResolveTemplate(fs, opts.Template, internal.TemplatesDir(cfg))
	if err != nil {
		return nil, err
	}
	defer resolved.Cleanup()

	m, err := internal.BuildMatcher(cfg, resolved.Manifest)
	if err != nil {
		return nil, err
	}

	s, err := template.Read(fs, resolved.Root, m)
	if err != nil {
		return nil, err
	}

	valid, issues := template.Validate(s)

	logger.Debug().
		Str("template", resolved.Name).
		Str("source", resolved.Source.String()).
		Int("directories", s.DirCount()).
		Int("files", s.FileCount()).
		Msg("Template inspected")

	return &InspectResult{
		Name:      resolved.Name,
		Source:    resolved.Source,
		Structure: s,
		Manifest:  resolved.Manifest,
		Valid:     valid,
		Issues:    issues,
	}, nil
}
