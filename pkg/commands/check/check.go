// Package check validates an existing project directory against the
// template it was scaffolded from.
package check

import (
	"time"

	"github.com/arthur-debert/skel/pkg/commands/internal"
	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/report"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
	"github.com/arthur-debert/skel/pkg/validator"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	// Template names a builtin, a user template, or a directory path.
	Template string
	// Target is the existing project directory to validate.
	Target string
	// Config carries the resolved app configuration (optional, defaults
	// to the baked-in defaults).
	Config *config.Config
	// ReportPath writes a JUnit XML report when non-empty.
	ReportPath string
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS
}

// CheckResult carries the validation outcome.
type CheckResult struct {
	Template string
	Source   template.Source
	Target   string

	Validation *validator.Result
	Duration   time.Duration

	// ReportPath is the report file written, empty when none was asked.
	ReportPath string
}

// Check reads the template and runs the result validator against the
// target. Content is byte-compared unless the configuration or the
// template manifest define substitution variables.
func Check(opts CheckOptions) (*CheckResult, error) {
	logger := logging.GetLogger("commands.check")
	start := time.Now()

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	info, err := fs.Stat(opts.Target)
	if err != nil {
		return nil, errors.Newf(errors.ErrTargetInvalid,
			"target path %s does not exist", opts.Target)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrTargetInvalid,
			"target path %s exists but is not a directory", opts.Target)
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

	// No defaulting ladder here: with no configured variables the
	// content comparison stays enabled.
	vars := internal.MergeVariables(cfg, resolved.Manifest, nil)

	validation := validator.Validate(fs, s, opts.Target, vars)

	result := &CheckResult{
		Template:   resolved.Name,
		Source:     resolved.Source,
		Target:     opts.Target,
		Validation: validation,
		Duration:   time.Since(start),
	}

	if opts.ReportPath != "" {
		run := report.Run{
			Template:   resolved.Name,
			Target:     opts.Target,
			Duration:   result.Duration,
			Validation: validation,
		}
		if err := internal.WriteReport(fs, opts.ReportPath, run); err != nil {
			return result, err
		}
		result.ReportPath = opts.ReportPath
	}

	logger.Info().
		Str("template", resolved.Name).
		Str("target", opts.Target).
		Bool("valid", validation.Valid).
		Int("errors", len(validation.Errors)).
		Msg("Check completed")

	return result, nil
}
