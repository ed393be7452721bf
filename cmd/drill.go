package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/grammiz/internal/difficulty"
	"github.com/abhisek/grammiz/internal/grammar"
	"github.com/abhisek/grammiz/internal/problemgen"
	"github.com/abhisek/grammiz/internal/recorder"
	"github.com/abhisek/grammiz/internal/screens/trainer"
	"github.com/abhisek/grammiz/internal/session"
	"github.com/abhisek/grammiz/internal/tutor"
)

var drillCmd = &cobra.Command{
	Use:   "drill [topic]",
	Short: "Practice in plain line mode (no full-screen UI)",
	Long: `Play a session on standard input and output.

Answer with 1-4 or a-d and press Enter. Type q to stop. The session ends
when you run out of lives. Useful over SSH, in scripts and for screen
readers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, envOptions{Store: true, Tutor: true})
		if err != nil {
			return err
		}
		defer e.Close()

		topic := grammar.TopicID(e.cfg.Topic)
		if len(args) == 1 {
			topic = grammar.TopicID(args[0])
		}
		if topic == "" {
			topic = e.registry.Topics()[0].ID
		}

		d := e.trainerDeps()
		return runDrill(cmdContext(cmd), drillOptions{
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
			Deps:     d,
			Topic:    topic,
			Recorder: recorder.New(d.EventRepo, e.logger),
		})
	},
}

// drillOptions configures a line-mode session.
type drillOptions struct {
	In  io.Reader
	Out io.Writer

	Deps     trainer.Deps
	Topic    grammar.TopicID
	Recorder *recorder.Recorder

	// TutorWait bounds how long a wrong answer waits for an explanation.
	TutorWait time.Duration
}

var errQuit = errors.New("quit")

// runDrill plays one session over a reader and writer.
func runDrill(ctx context.Context, opts drillOptions) error {
	d := opts.Deps
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.New(nil, d.Logger)
	}
	if opts.TutorWait <= 0 {
		opts.TutorWait = 20 * time.Second
	}

	sessOpts := []session.Option{session.WithLogger(d.Logger)}
	if d.Source != nil {
		sessOpts = append(sessOpts, session.WithSource(d.Source))
	}
	if d.MaxLives > 0 {
		sessOpts = append(sessOpts, session.WithMaxLives(d.MaxLives))
	}
	if d.Pinned {
		sel, err := difficulty.NewSelector(difficulty.WithOverride(d.Tier))
		if err != nil {
			return err
		}
		sessOpts = append(sessOpts, session.WithSelector(sel))
	}
	reg := d.Registry
	if len(d.Subjects) > 0 {
		focused, err := reg.Focus(opts.Topic, d.Subjects...)
		if err != nil {
			return err
		}
		reg = focused
	}
	ctrl, err := session.New(reg, opts.Topic, sessOpts...)
	if err != nil {
		return err
	}

	out := opts.Out
	in := bufio.NewScanner(opts.In)
	topic := ctrl.Topic()

	q, err := ctrl.Start()
	if err != nil {
		return err
	}
	_ = opts.Recorder.SessionStarted(ctx, ctrl.State())
	fmt.Fprintf(out, "%s: %s\n\n", topic.Name, topic.Description)

	for {
		st := ctrl.State()
		fmt.Fprintf(out, "── Question %d · %s · %s · %s score %d ──\n",
			st.QuestionsAnswered+1, q.Meta.Archetype.Label(), q.Meta.Tier.Label(),
			strings.Repeat("♥", st.Lives), st.Score)
		printQuestion(out, q, -1)

		idx, err := readChoice(in, out, len(q.Options))
		if errors.Is(err, errQuit) {
			ctrl.Stop()
			break
		}
		if err != nil {
			return err
		}

		res, err := ctrl.Submit(idx)
		if err != nil {
			return err
		}
		_ = opts.Recorder.Answered(ctx, ctrl.State(), res)
		printResult(ctx, out, opts, topic, res)

		if res.Completed {
			break
		}
		if q, err = ctrl.Next(); err != nil {
			return err
		}
	}

	sum := ctrl.Summary()
	_ = opts.Recorder.SessionEnded(ctx, sum)
	printSummary(out, sum)
	return nil
}

// printQuestion writes the instruction, prompt and numbered options. When
// mark is a valid index that option is flagged as the answer.
func printQuestion(out io.Writer, q *problemgen.Question, mark int) {
	fmt.Fprintln(out, q.Instruction)
	fmt.Fprintf(out, "  %s\n", q.Prompt)
	for i, opt := range q.Options {
		flag := " "
		if i == mark {
			flag = "*"
		}
		fmt.Fprintf(out, " %s%d) %s\n", flag, i+1, opt)
	}
}

// readChoice reads lines until one names a valid option or quits.
func readChoice(in *bufio.Scanner, out io.Writer, n int) (int, error) {
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return 0, err
			}
			return 0, errQuit
		}
		line := strings.ToLower(strings.TrimSpace(in.Text()))
		if line == "q" || line == "quit" {
			return 0, errQuit
		}
		if idx, ok := parseChoice(line, n); ok {
			return idx, nil
		}
		fmt.Fprintf(out, "Type a number from 1 to %d, or q to stop.\n", n)
	}
}

// parseChoice accepts "1".."n" or "a".. letters.
func parseChoice(s string, n int) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	var idx int
	switch {
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	default:
		return 0, false
	}
	return idx, idx < n
}

func printResult(ctx context.Context, out io.Writer, opts drillOptions, topic *grammar.Topic, res *session.AnswerResult) {
	if res.Correct {
		fmt.Fprintf(out, "✓ %s\n\n", res.Feedback.Headline)
		return
	}
	fmt.Fprintf(out, "✗ %s\n", res.Feedback.Headline)
	if res.Feedback.Detail != "" {
		fmt.Fprintf(out, "  %s\n", res.Feedback.Detail)
	}

	if svc := opts.Deps.Tutor; svc != nil {
		if _, err := svc.Request(ctx, tutor.Input{TopicName: topic.Name, Question: res.Question, Chosen: res.Chosen}); err == nil {
			wctx, cancel := context.WithTimeout(ctx, opts.TutorWait)
			r, ok := svc.Wait(wctx)
			cancel()
			if ok && r.Err == nil && r.Explanation != nil {
				fmt.Fprintf(out, "  Tutor: %s\n", r.Explanation.Explanation)
				if r.Explanation.Tip != "" {
					fmt.Fprintf(out, "  Tip: %s\n", r.Explanation.Tip)
				}
				if r.Explanation.Example != "" {
					fmt.Fprintf(out, "  Example: %s\n", r.Explanation.Example)
				}
			}
		}
	}
	fmt.Fprintln(out)
}

func printSummary(out io.Writer, sum *session.SessionSummary) {
	fmt.Fprintln(out, "── Session over ──")
	fmt.Fprintf(out, "Score: %d   Best streak: %d   Accuracy: %d%% (%d/%d)\n",
		sum.Score, sum.MaxStreak, sum.Accuracy, sum.CorrectAnswers, sum.QuestionsAnswered)
	for _, r := range sum.Results {
		fmt.Fprintf(out, "  %-18s %d/%d\n", r.Archetype.Label(), r.Correct, r.Attempted)
	}
}
