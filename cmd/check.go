package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/rng"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Generate many questions and validate every one",
	Long: `Load the rule tables (built-in plus rules_dir), generate questions for
every topic, style and tier, and run the question validators over them.
Exits non-zero when any question fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")

		e, err := newEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		return checkRegistry(cmd.OutOrStdout(), e.registry, n, e.source)
	},
}

func init() {
	checkCmd.Flags().Int("count", 50, "Questions per topic, style and tier")
}

// checkRegistry validates n questions per topic, archetype and tier.
func checkRegistry(out io.Writer, reg *problemgen.Registry, n int, src rng.Source) error {
	validators := problemgen.DefaultValidators()
	var total, failed int

	for _, t := range reg.Topics() {
		for _, a := range problemgen.AllArchetypes() {
			gen, err := reg.Generator(t.ID, a)
			if err != nil {
				return err
			}
			for _, tier := range grammar.AllTiers() {
				for range n {
					q := gen.Generate(tier, src)
					total++
					if verr := problemgen.Validate(q, validators); verr != nil {
						failed++
						fmt.Fprintf(out, "FAIL %s/%s/%s: %v\n  %s %v\n", t.ID, a, tier, verr, q.Prompt, q.Options)
					}
				}
			}
		}
	}

	fmt.Fprintf(out, "%d questions checked, %d failed\n", total, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d questions failed validation", failed, total)
	}
	return nil
}
