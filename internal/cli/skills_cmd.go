package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// skillsFlags holds the flag values shared by the skills commands.
type skillsFlags struct {
	Phase string // --phase filters to skills that apply to a phase
	JSON  bool   // --json for structured output
}

// newSkillsCmd creates the "stagehand skills" command with its "show"
// subcommand.
func newSkillsCmd() *cobra.Command {
	var flags skillsFlags

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List instruction documents for phase workers",
		Long: `List the skill documents discovered under the skills directory. Skills
are markdown instructions the external caller can feed to whatever does the
actual phase work; the engine never interprets them.`,
		Example: `  # All skills
  stagehand skills

  # Skills that apply to the review phase
  stagehand skills --phase phase_2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSkillsList(cmd, flags)
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.JSON, "json", false, "Output structured JSON to stdout")
	cmd.Flags().StringVar(&flags.Phase, "phase", "", "Only show skills that apply to this phase id")

	show := &cobra.Command{
		Use:   "show <skill-id>",
		Short: "Print a skill document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSkillsShow(cmd, args[0], flags)
		},
	}
	cmd.AddCommand(show)

	return cmd
}

func init() {
	rootCmd.AddCommand(newSkillsCmd())
}

// runSkillsList lists discovered skills, optionally filtered by phase.
func runSkillsList(cmd *cobra.Command, flags skillsFlags) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	loader := newSkillLoader(app.Config)

	skills, err := loader.List()
	if err != nil {
		return fmt.Errorf("loading skills: %w", err)
	}
	if flags.Phase != "" {
		skills, err = loader.ForPhase(flags.Phase)
		if err != nil {
			return fmt.Errorf("loading skills: %w", err)
		}
	}

	if flags.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(skills)
	}

	out := cmd.ErrOrStderr()
	if len(skills) == 0 {
		fmt.Fprintf(out, "No skills found in %s.\n", app.Config.Project.SkillsDir)
		return nil
	}

	idStyle := lipgloss.NewStyle().Bold(true)
	for _, s := range skills {
		line := idStyle.Render(fmt.Sprintf("%-24s", s.ID))
		if s.Description != "" {
			line += "  " + s.Description
		}
		if len(s.Phases) > 0 {
			line += fmt.Sprintf("  [%s]", strings.Join(s.Phases, ", "))
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// runSkillsShow prints one skill's body to stdout so it is pipeable.
func runSkillsShow(cmd *cobra.Command, id string, flags skillsFlags) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}

	s, err := newSkillLoader(app.Config).Load(id)
	if err != nil {
		return err
	}

	if flags.JSON {
		out := struct {
			ID          string   `json:"id"`
			Description string   `json:"description,omitempty"`
			Phases      []string `json:"phases,omitempty"`
			Path        string   `json:"path"`
			Body        string   `json:"body"`
		}{s.ID, s.Description, s.Phases, s.Path, s.Body}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(cmd.OutOrStdout(), s.Body)
	return nil
}
