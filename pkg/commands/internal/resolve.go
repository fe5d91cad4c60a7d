// Package internal holds the plumbing shared by the skel command
// verbs: template argument resolution, pattern and variable layering,
// and report emission.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/matcher"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
	"github.com/arthur-debert/skel/pkg/variables"
)

// ResolvedTemplate is a template argument turned into a readable tree:
// its root on the filesystem, how the argument resolved, and the
// optional manifest. Builtin templates are materialized into a scratch
// directory that Cleanup removes.
type ResolvedTemplate struct {
	// Name is the template argument, or the builtin default when the
	// argument was empty.
	Name     string
	Root     string
	Source   template.Source
	Manifest *config.TemplateManifest

	scratch string
	fs      types.FS
}

// ResolveTemplate resolves a template argument to a tree the pipeline
// can read. The caller must Cleanup the result when done with the
// template, including its files.
func ResolveTemplate(filesystem types.FS, arg, templatesDir string) (*ResolvedTemplate, error) {
	logger := logging.GetLogger("commands")

	location, source, err := template.Resolve(filesystem, arg, templatesDir)
	if err != nil {
		return nil, err
	}

	name := arg
	if name == "" {
		name = template.DefaultName
	}
	resolved := &ResolvedTemplate{
		Name:   name,
		Root:   location,
		Source: source,
		fs:     filesystem,
	}

	if source == template.SourceBuiltin {
		scratch := filepath.Join(os.TempDir(),
			fmt.Sprintf("skel-template-%s-%d", location, time.Now().UnixNano()))
		if err := template.MaterializeBuiltin(filesystem, location, scratch); err != nil {
			return nil, err
		}
		resolved.Root = scratch
		resolved.scratch = scratch
		logger.Debug().
			Str("template", location).
			Str("scratch", scratch).
			Msg("Builtin template materialized")
	}

	manifest, err := template.LoadManifest(filesystem, resolved.Root)
	if err != nil {
		resolved.Cleanup()
		return nil, err
	}
	resolved.Manifest = manifest

	return resolved, nil
}

// Cleanup removes the scratch tree of a materialized builtin. It is a
// no-op for path and user templates and safe to call twice.
func (r *ResolvedTemplate) Cleanup() {
	if r.scratch == "" {
		return
	}
	if err := r.fs.RemoveAll(r.scratch); err != nil {
		logger := logging.GetLogger("commands")
		logger.Warn().Err(err).
			Str("path", r.scratch).
			Msg("Failed to remove materialized template")
	}
	r.scratch = ""
}

// BuildMatcher combines the run's patterns with the template
// manifest's. Manifest patterns append, they never replace.
func BuildMatcher(cfg *config.Config, manifest *config.TemplateManifest) (*matcher.Matcher, error) {
	exclude := append([]string{}, cfg.Exclude...)
	include := append([]string{}, cfg.Include...)
	if manifest != nil {
		exclude = append(exclude, manifest.Template.Filter.Exclude...)
		include = append(include, manifest.Template.Filter.Include...)
	}
	return matcher.New(exclude, include)
}

// MergeVariables layers the variable sources: manifest defaults below
// config variables below flag variables.
func MergeVariables(cfg *config.Config, manifest *config.TemplateManifest, flags variables.Set) variables.Set {
	merged := variables.Set{}
	if manifest != nil && len(manifest.Template.Variables) > 0 {
		merged = merged.Merge(variables.Set(manifest.Template.Variables))
	}
	merged = merged.Merge(variables.Set(cfg.Variables))
	return merged.Merge(flags)
}

// TemplatesDir returns the user templates directory: the configured
// value when set, otherwise the XDG-derived default.
func TemplatesDir(cfg *config.Config) string {
	if cfg != nil && cfg.TemplatesDir != "" {
		return cfg.TemplatesDir
	}
	if p, err := paths.New(); err == nil {
		return p.TemplatesDir()
	}
	return ""
}
