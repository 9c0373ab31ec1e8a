package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// memoryCmd is the parent "memory" namespace command. It groups the
// scratchpad operations.
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Shared key/value scratchpad for the project",
	Long: `Read and write the project scratchpad, a small key/value store persisted
next to the run-state. Phase workers and scripts use it to pass values
between invocations without inventing their own files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var memorySetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value under a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		store, err := openMemory(app.Config)
		if err != nil {
			return err
		}
		if err := store.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Set %q.\n", args[0])
		return nil
	},
}

var memoryGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value for a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		store, err := openMemory(app.Config)
		if err != nil {
			return err
		}
		v, ok, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("key %q not set", args[0])
		}
		// Value on stdout so it is pipeable.
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var memoryDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		store, err := openMemory(app.Config)
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %q.\n", args[0])
		return nil
	},
}

var memoryListJSON bool

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all keys and values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		store, err := openMemory(app.Config)
		if err != nil {
			return err
		}
		all, err := store.All()
		if err != nil {
			return err
		}

		if memoryListJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(all)
		}

		keys, err := store.Keys()
		if err != nil {
			return err
		}
		out := cmd.ErrOrStderr()
		if len(keys) == 0 {
			fmt.Fprintln(out, "Scratchpad is empty.")
			return nil
		}
		for _, k := range keys {
			fmt.Fprintf(out, "%s = %s\n", k, all[k])
		}
		return nil
	},
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		store, err := openMemory(app.Config)
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Scratchpad cleared.")
		return nil
	},
}

func init() {
	memoryListCmd.Flags().BoolVar(&memoryListJSON, "json", false, "Output the scratchpad as JSON to stdout")
	memoryCmd.AddCommand(memorySetCmd)
	memoryCmd.AddCommand(memoryGetCmd)
	memoryCmd.AddCommand(memoryDeleteCmd)
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryClearCmd)
	rootCmd.AddCommand(memoryCmd)
}
