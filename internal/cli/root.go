package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/parkerhale/stagehand/internal/logging"
)

// Global flag values accessible to all subcommands.
var (
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
	flagDir     string
	flagSlot    string
	flagNoColor bool
)

// rootCmd is the base command for Stagehand.
var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "Workflow phase engine for content production pipelines",
	Long: `Stagehand tracks a content production run through the phases of a
declared workflow. It owns the bookkeeping only: an external caller does the
actual phase work, writes its outputs, and asks Stagehand to advance exactly
one phase at a time. Conditional branches route each run on file contents,
file presence, or run metadata.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// When invoked with no subcommand, launch the live watch dashboard.
	// Help is still available via `stagehand --help` / `stagehand -h`.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check env vars for flags not explicitly set on command line.
		if !cmd.Flags().Changed("verbose") && os.Getenv("STAGEHAND_VERBOSE") != "" {
			flagVerbose = true
		}
		if !cmd.Flags().Changed("quiet") && os.Getenv("STAGEHAND_QUIET") != "" {
			flagQuiet = true
		}
		if !cmd.Flags().Changed("no-color") && (os.Getenv("NO_COLOR") != "" || os.Getenv("STAGEHAND_NO_COLOR") != "") {
			flagNoColor = true
		}

		// Initialize logging. The configured level is picked up later by
		// commands that load config; flags take priority either way.
		jsonFormat := os.Getenv("STAGEHAND_LOG_FORMAT") == "json"
		logging.Setup("", flagVerbose, flagQuiet, jsonFormat)

		// Handle --no-color: disable colored output.
		if flagNoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		// Handle --dir (change working directory).
		if flagDir != "" {
			if err := os.Chdir(flagDir); err != nil {
				return fmt.Errorf("changing directory to %s: %w", flagDir, err)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (debug) output (env: STAGEHAND_VERBOSE)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress all output except errors (env: STAGEHAND_QUIET)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to stagehand.toml config file")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Override working directory")
	rootCmd.PersistentFlags().StringVar(&flagSlot, "slot", "", "Workflow identity slot to operate on (env: STAGEHAND_SLOT)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output (env: STAGEHAND_NO_COLOR, NO_COLOR)")
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// NewRootCmd returns a new instance of the root command for use in external
// tools such as the shell completion generator and man page generator. It
// initialises a fresh cobra command tree with the same persistent flags and
// PersistentPreRunE as the global rootCmd so that generated docs and
// completions include all flags.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               rootCmd.Use,
		Short:             rootCmd.Short,
		Long:              rootCmd.Long,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: rootCmd.PersistentPreRunE,
	}

	// Register the same persistent flags that the global rootCmd carries.
	// These use local variables (not the package-level flags) so the
	// exported command is safe for concurrent use by generators.
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose (debug) output (env: STAGEHAND_VERBOSE)")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors (env: STAGEHAND_QUIET)")
	cmd.PersistentFlags().String("config", "", "Path to stagehand.toml config file")
	cmd.PersistentFlags().String("dir", "", "Override working directory")
	cmd.PersistentFlags().String("slot", "", "Workflow identity slot to operate on (env: STAGEHAND_SLOT)")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output (env: STAGEHAND_NO_COLOR, NO_COLOR)")

	// Attach all registered subcommands from the global tree.
	for _, child := range rootCmd.Commands() {
		cmd.AddCommand(child)
	}
	return cmd
}
