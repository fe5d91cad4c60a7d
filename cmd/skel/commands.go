package skel

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/davecgh/go-spew/spew"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/skel/internal/version"
	"github.com/arthur-debert/skel/pkg/assistant"
	"github.com/arthur-debert/skel/pkg/commands/check"
	"github.com/arthur-debert/skel/pkg/commands/genconfig"
	"github.com/arthur-debert/skel/pkg/commands/inspect"
	"github.com/arthur-debert/skel/pkg/commands/scaffold"
	"github.com/arthur-debert/skel/pkg/commands/selftest"
	"github.com/arthur-debert/skel/pkg/commands/templates"
	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/ui"
	"github.com/arthur-debert/skel/pkg/variables"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity  int
		dryRun     bool
		force      bool
		configFile string
	)

	rootCmd := &cobra.Command{
		Use:     "skel",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, MsgFlagForce)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", MsgFlagConfig)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newSelfTestCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig resolves the configuration with the invoked command's
// changed flags layered on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(configFile, configOverrides(cmd.Flags()))
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

// configOverrides maps changed command flags onto config keys. Only
// explicitly set flags override the file and environment layers.
func configOverrides(flags *pflag.FlagSet) map[string]interface{} {
	overrides := map[string]interface{}{}
	if flags.Changed("exclude") {
		v, _ := flags.GetStringArray("exclude")
		overrides["exclude"] = v
	}
	if flags.Changed("include") {
		v, _ := flags.GetStringArray("include")
		overrides["include"] = v
	}
	if flags.Changed("jobs") {
		v, _ := flags.GetInt("jobs")
		overrides["jobs"] = v
	}
	if flags.Changed("projects-dir") {
		v, _ := flags.GetString("projects-dir")
		overrides["projects_dir"] = v
	}
	if flags.Changed("templates-dir") {
		v, _ := flags.GetString("templates-dir")
		overrides["templates_dir"] = v
	}
	return overrides
}

// collectVariables builds the flag variable set, the topmost layer of
// the variable precedence ladder.
func collectVariables(flags *pflag.FlagSet) (variables.Set, error) {
	vars := variables.Set{}

	pairs, _ := flags.GetStringArray("set")
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf(MsgErrBadVariable, pair)
		}
		vars[key] = value
	}

	for flag, name := range map[string]string{
		"name":        "project_name",
		"package":     "package_name",
		"description": "project_description",
		"author":      "author",
		"email":       "author_email",
	} {
		if v, _ := flags.GetString(flag); v != "" {
			vars[name] = v
		}
	}

	return vars, nil
}

// confirmPrompt asks on the terminal whether to continue into an
// existing non-empty target.
func confirmPrompt(path string) (bool, error) {
	confirmed := false
	err := survey.AskOne(&survey.Confirm{
		Message: fmt.Sprintf(MsgConfirmExists, path),
	}, &confirmed)
	return confirmed, err
}

// templateNamesCompletion provides shell completion for template names
func templateNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}

	result, err := templates.List(templates.ListOptions{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, builtin := range result.Builtin {
		names = append(names, builtin.Name)
	}
	for _, entry := range result.User {
		names = append(names, entry.Name)
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "new [template] <target>",
		Short:             MsgNewShort,
		Long:              MsgNewLong,
		Example:           MsgNewExample,
		Args:              cobra.RangeArgs(1, 2),
		GroupID:           "core",
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			templateArg := ""
			target := args[0]
			if len(args) == 2 {
				templateArg, target = args[0], args[1]
			}

			flags := cmd.Flags()
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			force, _ := cmd.Root().PersistentFlags().GetBool("force")
			yes, _ := flags.GetBool("yes")
			analyze, _ := flags.GetBool("analyze")
			readme, _ := flags.GetBool("readme")
			resolve, _ := flags.GetBool("resolve")
			reportPath, _ := flags.GetString("report")

			vars, err := collectVariables(flags)
			if err != nil {
				return err
			}

			printer := ui.NewPrinter(os.Stdout, ui.FormatAuto)

			opts := scaffold.ScaffoldOptions{
				Template:   templateArg,
				Target:     target,
				Config:     cfg,
				Variables:  vars,
				DryRun:     dryRun,
				Force:      force,
				Analyze:    analyze,
				Readme:     readme,
				ReportPath: reportPath,
				Step:       printer.Step,
			}

			// Without a terminal the confirmation cannot be asked;
			// scaffold then refuses existing targets unless --yes.
			if yes {
				opts.Confirm = func(string) (bool, error) { return true, nil }
			} else if isatty.IsTerminal(os.Stdin.Fd()) {
				opts.Confirm = confirmPrompt
			}

			if printer.Format() == ui.FormatTerminal {
				opts.Progress = ui.NewBar()
			} else {
				opts.Progress = ui.Silent{}
			}

			if analyze || readme || resolve {
				client, aerr := assistant.New(cfg.AI)
				if aerr != nil {
					printer.Warning("Assistant unavailable: %v", aerr)
				} else {
					opts.Advisor = client
					if resolve {
						opts.Resolver = client
					}
				}
			}

			log.Info().
				Str("template", templateArg).
				Str("target", target).
				Bool("dry_run", dryRun).
				Msg("Creating project")

			result, err := scaffold.Scaffold(opts)
			if err != nil {
				return fmt.Errorf(MsgErrScaffold, err)
			}

			if result.Cancelled {
				printer.Plain("%s", result.Message)
				return nil
			}

			if result.Analysis != "" {
				printer.Title(MsgAnalysisHeading)
				printer.Plain("%s", printer.Markdown(result.Analysis))
			}

			printer.Success("%s", result.Message)
			printer.Plain(MsgDirStats, result.Generated.DirsCreated, result.Generated.DirsSkipped)
			printer.Plain(MsgFileStats, result.Populated.FilesCopied, result.Populated.FilesSkipped)
			if result.ReadmeEnhanced {
				printer.Info(MsgReadmeEnhanced)
			}
			if result.ReportPath != "" {
				printer.Info(MsgReportWritten, result.ReportPath)
			}
			if dryRun {
				printer.Plain(MsgDryRunNotice)
			}

			if result.Failures() > 0 {
				return fmt.Errorf(MsgErrPartial, result.Failures())
			}
			if result.Validation != nil && !result.Validation.Valid {
				for _, msg := range result.Validation.Errors {
					printer.Error("%s", msg)
				}
				return fmt.Errorf(MsgErrValidation)
			}

			return nil
		},
	}

	cmd.Flags().String("name", "", MsgFlagName)
	cmd.Flags().String("package", "", MsgFlagPackage)
	cmd.Flags().String("description", "", MsgFlagDescription)
	cmd.Flags().String("author", "", MsgFlagAuthor)
	cmd.Flags().String("email", "", MsgFlagEmail)
	cmd.Flags().StringArray("set", nil, MsgFlagSet)
	cmd.Flags().StringArrayP("exclude", "e", nil, MsgFlagExclude)
	cmd.Flags().StringArrayP("include", "i", nil, MsgFlagInclude)
	cmd.Flags().Int("jobs", 0, MsgFlagJobs)
	cmd.Flags().String("projects-dir", "", MsgFlagProjectsDir)
	cmd.Flags().String("templates-dir", "", MsgFlagTemplatesDir)
	cmd.Flags().String("report", "", MsgFlagReport)
	cmd.Flags().Bool("resolve", false, MsgFlagResolve)
	cmd.Flags().Bool("analyze", false, MsgFlagAnalyze)
	cmd.Flags().Bool("readme", false, MsgFlagReadme)
	cmd.Flags().BoolP("yes", "y", false, MsgFlagYes)

	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "check <template> <target>",
		Short:             MsgCheckShort,
		Long:              MsgCheckLong,
		Example:           MsgCheckExample,
		Args:              cobra.ExactArgs(2),
		GroupID:           "core",
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reportPath, _ := cmd.Flags().GetString("report")

			printer := ui.NewPrinter(os.Stdout, ui.FormatAuto)

			result, err := check.Check(check.CheckOptions{
				Template:   args[0],
				Target:     args[1],
				Config:     cfg,
				ReportPath: reportPath,
			})
			if err != nil {
				return fmt.Errorf(MsgErrCheck, err)
			}

			v := result.Validation
			printer.Plain(MsgCheckedStats, v.DirsChecked, v.FilesChecked, v.ContentCompared)
			if result.ReportPath != "" {
				printer.Info(MsgReportWritten, result.ReportPath)
			}

			if !v.Valid {
				for _, msg := range v.Errors {
					printer.Error("%s", msg)
				}
				return fmt.Errorf(MsgErrCheckFailed, len(v.Errors))
			}

			printer.Success("%s matches template %s", args[1], result.Template)
			return nil
		},
	}

	cmd.Flags().String("report", "", MsgFlagReport)
	cmd.Flags().String("templates-dir", "", MsgFlagTemplatesDir)
	cmd.Flags().StringArrayP("exclude", "e", nil, MsgFlagExclude)
	cmd.Flags().StringArrayP("include", "i", nil, MsgFlagInclude)

	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "inspect [template]",
		Short:             MsgInspectShort,
		Long:              MsgInspectLong,
		Example:           MsgInspectExample,
		Args:              cobra.MaximumNArgs(1),
		GroupID:           "core",
		ValidArgsFunction: templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			templateArg := ""
			if len(args) == 1 {
				templateArg = args[0]
			}

			printer := ui.NewPrinter(os.Stdout, ui.FormatAuto)

			result, err := inspect.Inspect(inspect.InspectOptions{
				Template: templateArg,
				Config:   cfg,
			})
			if err != nil {
				return fmt.Errorf(MsgErrInspect, err)
			}

			printer.Title("%s (%s)", result.Name, result.Source)
			if result.Manifest != nil && result.Manifest.Template.Description != "" {
				printer.Plain("%s", result.Manifest.Template.Description)
			}
			printer.Plain("")
			for _, dir := range result.Structure.RelDirectories() {
				printer.Plain("  %s/", dir)
			}
			for _, file := range result.Structure.RelFiles() {
				printer.Plain("  %s", file)
			}
			printer.Plain("")
			printer.Plain("  %s directories, %s files (%d directories, %d files excluded)",
				printer.Count(result.Structure.DirCount()),
				printer.Count(result.Structure.FileCount()),
				result.Structure.ExcludedDirCount(),
				result.Structure.ExcludedFileCount())

			for _, issue := range result.Issues {
				printer.Warning("%s", issue)
			}

			verbosity, _ := cmd.Root().PersistentFlags().GetCount("verbose")
			if verbosity >= 2 {
				printer.Plain("%s", spew.Sdump(result.Structure))
			}

			return nil
		},
	}

	cmd.Flags().String("templates-dir", "", MsgFlagTemplatesDir)
	cmd.Flags().StringArrayP("exclude", "e", nil, MsgFlagExclude)
	cmd.Flags().StringArrayP("include", "i", nil, MsgFlagInclude)

	return cmd
}

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Short:   MsgTemplatesShort,
		Long:    MsgTemplatesLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			printer := ui.NewPrinter(os.Stdout, ui.FormatAuto)

			result, err := templates.List(templates.ListOptions{
				TemplatesDir: cfg.TemplatesDir,
			})
			if err != nil {
				return fmt.Errorf(MsgErrListTemplates, err)
			}

			printer.Title("Builtin templates")
			for _, builtin := range result.Builtin {
				printer.Plain("  %-12s %s", builtin.Name, builtin.Description)
			}
			printer.Plain("")
			printer.Title("User templates in %s", printer.Path(result.TemplatesDir))
			if len(result.User) == 0 {
				printer.Plain(MsgNoUserTemplates)
			}
			for _, entry := range result.User {
				printer.Plain("  %-12s %s", entry.Name, entry.Description)
			}

			return nil
		},
	}

	cmd.Flags().String("templates-dir", "", MsgFlagTemplatesDir)

	return cmd
}

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetBool("write")

			result, err := genconfig.GenConfig(genconfig.GenConfigOptions{Write: write})
			if err != nil {
				return fmt.Errorf(MsgErrGenConfig, err)
			}

			printer := ui.NewPrinter(os.Stdout, ui.FormatAuto)
			switch {
			case result.Written != "":
				printer.Success(MsgConfigWritten, printer.Path(result.Written))
			case result.Skipped != "":
				printer.Warning(MsgConfigExists, printer.Path(result.Skipped))
			default:
				// Raw TOML, suitable for redirecting to a file.
				fmt.Print(result.ConfigContent)
			}

			return nil
		},
	}

	cmd.Flags().BoolP("write", "w", false, MsgFlagWrite)

	return cmd
}

func newSelfTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "selftest",
		Short:   MsgSelfTestShort,
		Long:    MsgSelfTestLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := ui.NewPrinter(os.Stdout, ui.FormatAuto)

			result, err := selftest.SelfTest(selftest.SelfTestOptions{})
			if err != nil {
				return fmt.Errorf(MsgErrSelfTest, err)
			}

			pipeline := result.Pipeline
			printer.Plain(MsgStageItem, "read", stageLabel(pipeline.ReadOK))
			printer.Plain(MsgStageItem, "generate", stageLabel(pipeline.GenerateOK))
			printer.Plain(MsgStageItem, "populate", stageLabel(pipeline.PopulateOK))
			printer.Plain(MsgStageItem, "validate", stageLabel(pipeline.ValidateOK))
			printer.Plain(MsgStageItem, "exclusion", stageLabel(result.ExclusionOK))

			if !pipeline.Overall || !result.ExclusionOK {
				for _, msg := range pipeline.Errors {
					printer.Error("%s", msg)
				}
				return fmt.Errorf(MsgErrSelfTestRed)
			}

			printer.Success(MsgSelfTestPassed)
			return nil
		},
	}
}

func stageLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAILED"
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
