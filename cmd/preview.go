package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/rng"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print generated questions with their answers (no database)",
	Long: `Generate questions for a topic and print them with the correct option
marked. This is a stateless authoring tool for checking new rule tables.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("topic", "", "Topic ID (required)")
	previewCmd.Flags().String("archetype", "", "Question style; empty means every style")
	previewCmd.Flags().Int("count", 3, "Questions per style")
	_ = previewCmd.MarkFlagRequired("topic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	topicVal, _ := cmd.Flags().GetString("topic")
	archVal, _ := cmd.Flags().GetString("archetype")
	count, _ := cmd.Flags().GetInt("count")

	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	archetypes := problemgen.AllArchetypes()
	if archVal != "" {
		a, err := problemgen.ParseArchetype(archVal)
		if err != nil {
			return err
		}
		archetypes = []problemgen.Archetype{a}
	}

	tier := grammar.TierEasy
	if t, pinned := e.cfg.PinnedTier(); pinned {
		tier = t
	}
	return writePreview(cmd.OutOrStdout(), e.registry, grammar.TopicID(topicVal), archetypes, tier, count, e.source)
}

// writePreview renders count questions per archetype.
func writePreview(out io.Writer, reg *problemgen.Registry, id grammar.TopicID, archetypes []problemgen.Archetype, tier grammar.Tier, count int, src rng.Source) error {
	topic, err := reg.Topic(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Topic: %s (%s), tier %s\n\n", topic.Name, topic.ID, tier.Label())

	for _, a := range archetypes {
		gen, err := reg.Generator(id, a)
		if err != nil {
			return err
		}
		for i := 1; i <= count; i++ {
			q := gen.Generate(tier, src)
			fmt.Fprintf(out, "── %s %d/%d ──\n", a.Label(), i, count)
			printQuestion(out, q, q.CorrectIndex)
			if q.Meta.Explanation != "" {
				fmt.Fprintf(out, "  Explanation: %s\n", q.Meta.Explanation)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}
