package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List grammar topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		for _, t := range e.registry.Topics() {
			fmt.Fprintf(out, "%-16s %-16s %s\n", t.ID, t.Name, t.Description)
		}
		return nil
	},
}
