package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/parkerhale/stagehand/internal/config"
	"github.com/parkerhale/stagehand/internal/logging"
)

// Flag values for the init subcommand.
var (
	initFlagName  string
	initFlagForce bool
	initFlagYes   bool
)

// initCmd implements "stagehand init [template]".
// It scaffolds a new Stagehand project from an embedded template without
// requiring an existing stagehand.toml -- making it safe to run in a fresh
// directory.
var initCmd = &cobra.Command{
	Use:   "init [template]",
	Short: "Initialize a new Stagehand project from a template",
	Long: `Initialize a new Stagehand project directory by rendering an embedded
project template: a stagehand.toml, a starter workflow definition, and a
skills directory. Existing files are preserved unless --force is supplied.

Without --yes, an interactive form collects the project name.

Examples:
  stagehand init                     # interactive setup in current directory
  stagehand init --name my-pipeline  # scaffold with explicit project name
  stagehand init --yes --force       # non-interactive, overwrite existing files`,
	Args: cobra.MaximumNArgs(1),

	// Override PersistentPreRunE so the init command never attempts to load a
	// stagehand.toml. We still replicate the env-var checks, logging setup,
	// color disable, and --dir handling from the root PersistentPreRunE.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Root().PersistentFlags().Changed("verbose") && os.Getenv("STAGEHAND_VERBOSE") != "" {
			flagVerbose = true
		}
		if !cmd.Root().PersistentFlags().Changed("quiet") && os.Getenv("STAGEHAND_QUIET") != "" {
			flagQuiet = true
		}
		if !cmd.Root().PersistentFlags().Changed("no-color") &&
			(os.Getenv("NO_COLOR") != "" || os.Getenv("STAGEHAND_NO_COLOR") != "") {
			flagNoColor = true
		}

		jsonFormat := os.Getenv("STAGEHAND_LOG_FORMAT") == "json"
		logging.Setup("", flagVerbose, flagQuiet, jsonFormat)

		if flagNoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		if flagDir != "" {
			if err := os.Chdir(flagDir); err != nil {
				return fmt.Errorf("changing directory to %s: %w", flagDir, err)
			}
		}

		return nil
	},

	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initFlagName, "name", "n", "", "Project name (defaults to current directory name)")
	initCmd.Flags().BoolVar(&initFlagForce, "force", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&initFlagYes, "yes", false, "Skip the interactive form and accept defaults")
	rootCmd.AddCommand(initCmd)
}

// runInit is the RunE handler for the init command.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve the template name (default: default).
	templateName := "default"
	if len(args) > 0 {
		templateName = args[0]
	}

	// Validate that the requested template exists.
	if !config.TemplateExists(templateName) {
		available, listErr := config.ListTemplates()
		if listErr != nil {
			return fmt.Errorf("listing available templates: %w", listErr)
		}
		return fmt.Errorf("template %q not found; available templates: %s",
			templateName, strings.Join(available, ", "))
	}

	// Resolve the destination directory (current working directory after any
	// --dir change applied in PersistentPreRunE).
	destDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	// Resolve the project name: flag, then interactive form, then dir name.
	projectName := initFlagName
	if projectName == "" {
		projectName = filepath.Base(destDir)
		if !initFlagYes {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Project name").
					Description("Used in stagehand.toml and status output.").
					Value(&projectName),
			))
			if err := form.Run(); err != nil {
				return fmt.Errorf("reading project name: %w", err)
			}
		}
	}

	// Reject path traversal in project name.
	if strings.Contains(projectName, "../") || strings.Contains(projectName, "..\\") {
		return fmt.Errorf("invalid project name %q: must not contain path traversal sequences", projectName)
	}

	// Guard against overwriting an existing stagehand.toml unless --force is set.
	cfgFile := filepath.Join(destDir, config.ConfigFileName)
	if _, statErr := os.Stat(cfgFile); statErr == nil && !initFlagForce {
		return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.ConfigFileName, destDir)
	}

	vars := config.TemplateVars{
		ProjectName: projectName,
		WorkflowID:  "content-pipeline",
	}

	// Render the template.
	created, err := config.RenderTemplate(templateName, destDir, vars, initFlagForce)
	if err != nil {
		return fmt.Errorf("rendering template %q: %w", templateName, err)
	}

	// --- Success output (all to stderr) ---
	stderr := cmd.ErrOrStderr()

	fmt.Fprintf(stderr, "Initialized project %q from template %q\n\n", projectName, templateName)

	if len(created) > 0 {
		fmt.Fprintln(stderr, "Created files:")
		for _, f := range created {
			// Print relative paths when possible for readability.
			rel, relErr := filepath.Rel(destDir, f)
			if relErr != nil {
				rel = f
			}
			fmt.Fprintf(stderr, "  %s\n", rel)
		}
		fmt.Fprintln(stderr)
	}

	fmt.Fprintln(stderr, "Next steps:")
	fmt.Fprintf(stderr, "  1. Edit %s to configure your project\n", cfgFile)
	fmt.Fprintln(stderr, "  2. Adjust the starter workflow in workflows/")
	fmt.Fprintln(stderr, "  3. Run: stagehand start content-pipeline")

	return nil
}
