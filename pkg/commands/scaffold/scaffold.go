// Package scaffold runs the full template-to-project pipeline: read
// and filter the template, generate the directory structure, populate
// the documents, and validate the result.
package scaffold

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/assistant"
	"github.com/arthur-debert/skel/pkg/commands/internal"
	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/generator"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/populator"
	"github.com/arthur-debert/skel/pkg/report"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
	"github.com/arthur-debert/skel/pkg/validator"
	"github.com/arthur-debert/skel/pkg/variables"
)

const totalSteps = 4

// Advisor provides the optional AI flows around the pipeline.
type Advisor interface {
	AnalyzeTemplate(s *template.Structure) (string, error)
	GenerateReadme(info assistant.ProjectInfo) (string, error)
}

var _ Advisor = (*assistant.Client)(nil)

// ScaffoldOptions holds options for the new command.
type ScaffoldOptions struct {
	// Template names a builtin, a user template, or a directory path.
	// Empty means the builtin default.
	Template string
	// Target is where the project is created. Targets outside the
	// configured projects directory are re-rooted under it when one is
	// set.
	Target string

	// Config carries the resolved app configuration (optional, defaults
	// to the baked-in defaults).
	Config *config.Config

	// Variables from flags, the highest-precedence source. The standard
	// defaulting ladder fills whatever stays empty.
	Variables variables.Set

	DryRun bool
	Force  bool

	// Confirm is consulted before scaffolding into an existing
	// non-empty target. Nil means there is no way to ask and the run is
	// refused.
	Confirm func(target string) (bool, error)

	// Resolver merges conflicting files instead of skipping them.
	// Optional.
	Resolver populator.ConflictResolver
	// Advisor powers the analyze and readme flows. Optional.
	Advisor Advisor
	// Analyze critiques the template before generation.
	Analyze bool
	// Readme rewrites the populated README through the advisor.
	Readme bool

	// ReportPath writes a JUnit XML report when non-empty.
	ReportPath string

	// Progress receives per-file population updates. Optional.
	Progress populator.Progress
	// Step reports stage transitions for console rendering. Optional.
	Step func(n, total int, label string)

	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS
}

// ScaffoldResult carries the outcome of a scaffolding run.
type ScaffoldResult struct {
	// Template is the resolved template argument, Target the final
	// project location after projects-dir re-rooting.
	Template string
	Source   template.Source
	Target   string

	// Cancelled is set when the user declined the exists-confirmation.
	// No stage ran.
	Cancelled bool

	Generated  *generator.Stats
	Populated  *populator.Stats
	Validation *validator.Result

	// Variables is the fully layered substitution set the run used.
	Variables variables.Set

	// Analysis holds the advisor's template critique, markdown.
	Analysis string
	// ReadmeEnhanced is set when the advisor rewrote the README.
	ReadmeEnhanced bool

	Duration time.Duration
	// ReportPath is the report file written, empty when none was asked.
	ReportPath string

	Message string
}

// Failures counts the soft failures across both write stages.
func (r *ScaffoldResult) Failures() int {
	n := 0
	if r.Generated != nil {
		n += r.Generated.DirsFailed
	}
	if r.Populated != nil {
		n += r.Populated.FilesFailed
	}
	return n
}

// Scaffold creates a project at the target from the template. Stage
// failures on individual items are counted, not fatal; pre-flight
// problems (bad template, invalid target) abort before anything is
// written.
func Scaffold(opts ScaffoldOptions) (*ScaffoldResult, error) {
	logger := logging.GetLogger("commands.scaffold")
	start := time.Now()

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput, "target path is required")
	}

	target, err := resolveTarget(fs, opts.Target, cfg.ProjectsDir, opts.DryRun)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("template", opts.Template).
		Str("target", target).
		Bool("dryRun", opts.DryRun).
		Bool("force", opts.Force).
		Msg("Scaffolding project")

	result := &ScaffoldResult{Target: target}

	// An existing non-empty target needs the user's go-ahead. Saying
	// yes relaxes the emptiness precondition, not file overwriting.
	allowExisting := false
	if !opts.Force && isNonEmptyDir(fs, target) {
		if opts.Confirm == nil {
			return nil, errors.Newf(errors.ErrTargetInvalid,
				"target path %s already exists (use --force or --yes)", target)
		}
		ok, cerr := opts.Confirm(target)
		if cerr != nil {
			return nil, errors.Wrap(cerr, errors.ErrInvalidInput, "confirmation failed")
		}
		if !ok {
			logger.Info().Str("target", target).Msg("Operation cancelled by user")
			result.Cancelled = true
			result.Message = "Operation cancelled."
			return result, nil
		}
		allowExisting = true
	}

	resolved, err := internal.ResolveTemplate(fs, opts.Template, internal.TemplatesDir(cfg))
	if err != nil {
		return nil, err
	}
	defer resolved.Cleanup()
	result.Template = resolved.Name
	result.Source = resolved.Source

	m, err := internal.BuildMatcher(cfg, resolved.Manifest)
	if err != nil {
		return nil, err
	}

	vars := internal.MergeVariables(cfg, resolved.Manifest, opts.Variables).
		ApplyDefaults(target)
	result.Variables = vars

	step(opts, logger, 1, "Reading template structure")
	s, err := template.Read(fs, resolved.Root, m)
	if err != nil {
		return nil, err
	}
	if ok, issues := template.Validate(s); !ok {
		return nil, errors.New(errors.ErrTemplateInvalid,
			"invalid template structure: "+strings.Join(issues, "; ")).
			WithDetail("errors", issues)
	}

	if opts.Analyze && opts.Advisor != nil {
		analysis, aerr := opts.Advisor.AnalyzeTemplate(s)
		if aerr != nil {
			logger.Warn().Err(aerr).Msg("Template analysis failed")
		} else {
			result.Analysis = analysis
		}
	}

	step(opts, logger, 2, "Generating directory structure")
	genStats, err := generator.Generate(fs, s, target, generator.Options{
		DryRun: opts.DryRun,
		Force:  opts.Force || allowExisting,
	})
	if err != nil {
		return nil, err
	}
	result.Generated = genStats

	step(opts, logger, 3, "Populating documents")
	popStats, err := populator.Populate(fs, s, target, populator.Options{
		DryRun:    opts.DryRun,
		Force:     opts.Force,
		Variables: vars,
		Resolver:  opts.Resolver,
		Workers:   cfg.Jobs,
		Progress:  opts.Progress,
	})
	if err != nil {
		if !opts.DryRun {
			generator.Cleanup(fs, s, target)
		}
		return nil, err
	}
	result.Populated = popStats

	if opts.Readme && opts.Advisor != nil && !opts.DryRun {
		result.ReadmeEnhanced = enhanceReadme(fs, s, target, vars, opts.Advisor, logger)
	}

	step(opts, logger, 4, "Validating result")
	if opts.DryRun {
		logger.Debug().Msg("Dry run, skipping validation")
	} else {
		result.Validation = validator.Validate(fs, s, target, vars)
	}

	result.Duration = time.Since(start)

	if opts.ReportPath != "" {
		run := report.Run{
			Template:   resolved.Name,
			Target:     target,
			Duration:   result.Duration,
			Generated:  result.Generated,
			Populated:  result.Populated,
			Validation: result.Validation,
		}
		if rerr := internal.WriteReport(fs, opts.ReportPath, run); rerr != nil {
			return result, rerr
		}
		result.ReportPath = opts.ReportPath
	}

	if opts.DryRun {
		result.Message = "Dry run completed successfully"
	} else {
		result.Message = fmt.Sprintf("Project structure created at %s", target)
	}

	logger.Info().
		Int("dirsCreated", genStats.DirsCreated).
		Int("filesCopied", popStats.FilesCopied).
		Int("failures", result.Failures()).
		Dur("duration", result.Duration).
		Msg("Scaffolding completed")

	return result, nil
}

func step(opts ScaffoldOptions, logger zerolog.Logger, n int, label string) {
	logger.Info().Int("step", n).Int("of", totalSteps).Msg(label)
	if opts.Step != nil {
		opts.Step(n, totalSteps, label)
	}
}

// resolveTarget re-roots the target under projectsDir unless it is
// already inside it. An absolute target outside the projects directory
// keeps only its base name.
func resolveTarget(fs types.FS, target, projectsDir string, dryRun bool) (string, error) {
	if projectsDir == "" {
		return target, nil
	}

	clean := filepath.Clean(target)
	root := filepath.Clean(projectsDir)
	if clean == root || strings.HasPrefix(clean, root+string(filepath.Separator)) {
		return clean, nil
	}

	if filepath.IsAbs(clean) {
		clean = filepath.Base(clean)
	}
	resolved := filepath.Join(root, clean)

	if !dryRun {
		if err := fs.MkdirAll(root, 0o755); err != nil {
			return "", errors.Wrapf(err, errors.ErrTargetInvalid,
				"failed to create projects directory %s", root)
		}
	}
	return resolved, nil
}

func isNonEmptyDir(fs types.FS, path string) bool {
	info, err := fs.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	entries, err := fs.ReadDir(path)
	return err == nil && len(entries) > 0
}

// enhanceReadme rewrites the populated README through the advisor.
// Failures are soft, the scaffolded project is already complete.
func enhanceReadme(fs types.FS, s *template.Structure, target string, vars variables.Set, advisor Advisor, logger zerolog.Logger) bool {
	readme := filepath.Join(target, "README.md")
	if info, err := fs.Stat(readme); err != nil || info.IsDir() {
		logger.Debug().Msg("No README.md to enhance")
		return false
	}

	content, err := advisor.GenerateReadme(assistant.ProjectInfo{
		Name:        vars["project_name"],
		Description: vars["project_description"],
		Author:      vars["author"],
		Directories: s.RelDirectories(),
		Files:       s.RelFiles(),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("README enhancement failed")
		return false
	}
	if err := fs.WriteFile(readme, []byte(content), 0o644); err != nil {
		logger.Warn().Err(err).Msg("Failed to write enhanced README")
		return false
	}

	logger.Info().Msg("README.md enhanced")
	return true
}
