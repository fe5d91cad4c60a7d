package skel

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Project scaffolding from directory templates"
	MsgNewShort        = "Create a project from a template"
	MsgCheckShort      = "Verify a project against its template"
	MsgInspectShort    = "Show what a template will generate"
	MsgTemplatesShort  = "List available templates"
	MsgTemplatesLong   = "List the builtin templates and every template found in the user templates directory."
	MsgGenConfigShort  = "Generate a default configuration file"
	MsgSelfTestShort   = "Run the built-in pipeline self-test"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice    = "\nDRY RUN MODE - No changes were made"
	MsgAnalysisHeading = "Template analysis"
	MsgDirStats        = "  Directories: %d created, %d skipped"
	MsgFileStats       = "  Files: %d copied, %d skipped"
	MsgCheckedStats    = "  Checked: %d directories, %d files, %d contents compared"
	MsgReadmeEnhanced  = "README.md rewritten by the assistant"
	MsgReportWritten   = "Report written to %s"
	MsgConfigWritten   = "Wrote %s"
	MsgConfigExists    = "Config already exists at %s, not overwriting"
	MsgNoUserTemplates = "  (none)"
	MsgSelfTestPassed  = "Self-test passed"
	MsgStageItem       = "  %-12s %s"
	MsgConfirmExists   = "Target %s already exists. Continue?"

	// Error messages
	MsgErrLoadConfig    = "failed to load configuration: %w"
	MsgErrScaffold      = "failed to create project: %w"
	MsgErrCheck         = "failed to check project: %w"
	MsgErrInspect       = "failed to inspect template: %w"
	MsgErrListTemplates = "failed to list templates: %w"
	MsgErrGenConfig     = "failed to generate config: %w"
	MsgErrSelfTest      = "failed to run self-test: %w"
	MsgErrPartial       = "%d files could not be written"
	MsgErrValidation    = "generated project failed validation"
	MsgErrCheckFailed   = "project does not match template (%d problems)"
	MsgErrSelfTestRed   = "self-test failed"
	MsgErrBadVariable   = "invalid --set value %q, expected key=value"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun       = "Preview changes without touching the filesystem"
	MsgFlagForce        = "Overwrite existing files at the target"
	MsgFlagConfig       = "Config file to use instead of the default location"
	MsgFlagName         = "Project name (defaults to the target directory name)"
	MsgFlagPackage      = "Package name (defaults to a lowercased project name)"
	MsgFlagDescription  = "Project description"
	MsgFlagAuthor       = "Author name"
	MsgFlagEmail        = "Author email"
	MsgFlagSet          = "Set an extra template variable as key=value (repeatable)"
	MsgFlagExclude      = "Glob pattern for paths to skip (repeatable)"
	MsgFlagInclude      = "Glob pattern that overrides excludes (repeatable)"
	MsgFlagJobs         = "Number of parallel file copy workers"
	MsgFlagProjectsDir  = "Directory bare target names are created under"
	MsgFlagTemplatesDir = "Directory to look up user templates in"
	MsgFlagReport       = "Write a JUnit XML report to this file"
	MsgFlagResolve      = "Let the AI assistant merge conflicting files"
	MsgFlagAnalyze      = "Ask the AI assistant to critique the template"
	MsgFlagReadme       = "Ask the AI assistant to rewrite the generated README"
	MsgFlagYes          = "Assume yes for the existing-target confirmation"
	MsgFlagWrite        = "Write the config to its default location instead of stdout"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/new-long.txt
	msgNewLongRaw string
	MsgNewLong    = strings.TrimSpace(msgNewLongRaw)

	//go:embed msgs/new-example.txt
	msgNewExampleRaw string
	MsgNewExample    = strings.TrimSpace(msgNewExampleRaw)

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/check-example.txt
	msgCheckExampleRaw string
	MsgCheckExample    = strings.TrimSpace(msgCheckExampleRaw)

	//go:embed msgs/inspect-long.txt
	msgInspectLongRaw string
	MsgInspectLong    = strings.TrimSpace(msgInspectLongRaw)

	//go:embed msgs/inspect-example.txt
	msgInspectExampleRaw string
	MsgInspectExample    = strings.TrimSpace(msgInspectExampleRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/selftest-long.txt
	msgSelfTestLongRaw string
	MsgSelfTestLong    = strings.TrimSpace(msgSelfTestLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
