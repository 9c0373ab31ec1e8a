package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/parkerhale/stagehand/internal/workflow"
)

// workflowsCmd is the parent "workflows" namespace command. Invoked bare it
// lists the discovered definitions.
var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List and validate workflow definitions",
	Long:  "Discover workflow definition files, inspect them, and validate them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflowsList(cmd)
	},
}

// workflowsShowCmd implements "stagehand workflows show <id>".
var workflowsShowCmd = &cobra.Command{
	Use:   "show <workflow-id>",
	Short: "Show the phases and transitions of one definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflowsShow(cmd, args[0])
	},
}

// workflowsValidateCmd implements "stagehand workflows validate".
// It loads and validates every discovered definition concurrently and
// reports every structural problem, not just the first.
var workflowsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every discovered workflow definition",
	Long: `Load every definition file under the definitions directory and check its
structure: duplicate or empty phase ids, transitions to unknown phases,
malformed conditions, and non-compiling branch patterns. All problems are
reported, not just the first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorkflowsValidate(cmd)
	},
}

var workflowsJSON bool

func init() {
	workflowsCmd.PersistentFlags().BoolVar(&workflowsJSON, "json", false, "Output structured JSON to stdout")
	workflowsCmd.AddCommand(workflowsShowCmd)
	workflowsCmd.AddCommand(workflowsValidateCmd)
	rootCmd.AddCommand(workflowsCmd)
}

// workflowListEntry is the JSON output type for one listed definition.
type workflowListEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Phases      int    `json:"phases"`
	Fingerprint string `json:"fingerprint"`
}

// runWorkflowsList discovers definitions and prints a one-line summary each.
func runWorkflowsList(cmd *cobra.Command) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	ids, err := app.Registry.List()
	if err != nil {
		return fmt.Errorf("discovering definitions: %w", err)
	}

	entries := make([]workflowListEntry, 0, len(ids))
	for _, id := range ids {
		def, err := app.Registry.Load(id)
		if err != nil {
			// Invalid definitions still get a row so they are visible.
			entries = append(entries, workflowListEntry{ID: id, Name: "(invalid)"})
			continue
		}
		entries = append(entries, workflowListEntry{
			ID:          def.ID,
			Name:        def.Name,
			Version:     def.Version,
			Phases:      len(def.Phases),
			Fingerprint: fmt.Sprintf("%016x", def.Fingerprint),
		})
	}

	if workflowsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	out := cmd.ErrOrStderr()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No workflow definitions found in %s.\n", app.Config.Project.DefinitionsDir)
		return nil
	}

	idStyle := lipgloss.NewStyle().Bold(true)
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s (v%s, %d phases)\n",
			idStyle.Render(fmt.Sprintf("%-24s", e.ID)), e.Name, e.Version, e.Phases)
	}
	return nil
}

// runWorkflowsShow prints one definition's phase graph.
func runWorkflowsShow(cmd *cobra.Command, id string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	def, err := app.Registry.Load(id)
	if err != nil {
		return err
	}

	if workflowsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(def)
	}

	out := cmd.ErrOrStderr()
	headerStyle := lipgloss.NewStyle().Bold(true)
	condStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s (%s) v%s", def.Name, def.ID, def.Version)))
	if def.Description != "" {
		fmt.Fprintln(out, def.Description)
	}
	fmt.Fprintln(out)

	for _, phase := range def.Phases {
		fmt.Fprintf(out, "  %s", phase.ID)
		switch {
		case phase.ConditionalNext != nil:
			cn := phase.ConditionalNext
			fmt.Fprintf(out, "  %s\n", condStyle.Render(
				fmt.Sprintf("?(%s %s)", cn.Condition.Type, cn.Condition.Source)))
			keys := make([]string, 0, len(cn.Branches))
			for k := range cn.Branches {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "      %s -> %s\n", k, cn.Branches[k])
			}
			if cn.DefaultNext != "" {
				fmt.Fprintf(out, "      default -> %s\n", cn.DefaultNext)
			}
		case phase.NextPhase != nil:
			fmt.Fprintf(out, "  -> %s\n", *phase.NextPhase)
		default:
			fmt.Fprintln(out, "  (terminal)")
		}
	}
	return nil
}

// validationRow pairs a definition id with its validation outcome.
type validationRow struct {
	ID     string   `json:"id"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// runWorkflowsValidate validates all discovered definitions concurrently.
func runWorkflowsValidate(cmd *cobra.Command) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	ids, err := app.Registry.List()
	if err != nil {
		return fmt.Errorf("discovering definitions: %w", err)
	}

	var (
		mu   sync.Mutex
		rows = make([]validationRow, 0, len(ids))
	)

	var g errgroup.Group
	g.SetLimit(8)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			row := validationRow{ID: id, Valid: true}
			if _, loadErr := app.Registry.Load(id); loadErr != nil {
				row.Valid = false
				if errors.Is(loadErr, workflow.ErrDefinitionInvalid) {
					row.Errors = splitValidationErrors(loadErr)
				} else {
					row.Errors = []string{loadErr.Error()}
				}
			}
			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	if workflowsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return err
		}
	} else {
		printValidationRows(cmd, rows)
	}

	invalid := 0
	for _, row := range rows {
		if !row.Valid {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d definition(s) invalid", invalid, len(rows))
	}
	return nil
}

// printValidationRows renders the human-readable validation report.
func printValidationRows(cmd *cobra.Command, rows []validationRow) {
	out := cmd.ErrOrStderr()
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	if len(rows) == 0 {
		fmt.Fprintln(out, "No workflow definitions found.")
		return
	}

	for _, row := range rows {
		if row.Valid {
			fmt.Fprintf(out, "%s %s\n", okStyle.Render("ok  "), row.ID)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", badStyle.Render("FAIL"), row.ID)
		for _, msg := range row.Errors {
			fmt.Fprintf(out, "     %s\n", msg)
		}
	}
}

// splitValidationErrors breaks the joined message of an ErrDefinitionInvalid
// back into individual findings for display.
func splitValidationErrors(err error) []string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	return strings.Split(msg, "; ")
}
