package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammiz/internal/llm"
	"github.com/abhisek/grammiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect tutor LLM requests, responses and cost",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tutor requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmdContext(cmd), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		writeLLMEvents(cmd.OutOrStdout(), events, func(e store.LLMRequestEvent) bool {
			return (purpose == "" || e.Purpose == purpose) && (!failed || !e.Success)
		})
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmdContext(cmd), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no LLM request with ID %d", id)
		}
		writeLLMEvent(cmd.OutOrStdout(), *e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmdContext(cmd)
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		writeLLMUsage(cmd.OutOrStdout(), byPurpose, byModel)
		return nil
	},
}

// heading prints a title, a rule, the column header and another rule.
func heading(w io.Writer, width int, title, columns string) {
	rule := strings.Repeat("─", width)
	if title != "" {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintf(w, "%s\n%s\n%s\n", rule, columns, rule)
}

func writeLLMEvents(w io.Writer, events []store.LLMRequestEvent, keep func(store.LLMRequestEvent) bool) {
	shown := 0
	for _, e := range events {
		if !keep(e) {
			continue
		}
		if shown == 0 {
			heading(w, 96, "", fmt.Sprintf("%-5s  %-16s  %-12s  %-28s  %11s  %6s  %s",
				"ID", "Time", "Purpose", "Model", "Tokens", "Ms", "Cost"))
		}
		shown++
		fmt.Fprintf(w, "%-5d  %-16s  %-12s  %-28s  %5d/%-5d  %6d  %s\n",
			e.ID, e.Timestamp.Local().Format("Jan 02 15:04:05"), truncate(e.Purpose, 12), truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs, eventCost(e))
	}
	if shown == 0 {
		fmt.Fprintln(w, "No LLM requests recorded.")
	}
}

// eventCost is the estimated cost, "failed" for errors and "?" for
// models without a known price.
func eventCost(e store.LLMRequestEvent) string {
	if !e.Success {
		return "failed"
	}
	if usd, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
		return formatCost(usd)
	}
	return "?"
}

func writeLLMEvent(w io.Writer, e store.LLMRequestEvent) {
	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(time.DateTime)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Cost", eventCost(e)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-10s %s\n", f[0]+":", f[1])
	}

	for _, part := range [][2]string{{"PROMPT", e.RequestBody}, {"REPLY", e.ResponseBody}} {
		fmt.Fprintln(w)
		heading(w, 60, "", part[0])
		if body := strings.TrimRight(part[1], "\n"); body != "" {
			fmt.Fprintln(w, body)
		} else {
			fmt.Fprintln(w, "(not captured)")
		}
	}
}

func writeLLMUsage(w io.Writer, byPurpose []store.LLMUsageStat, byModel []store.LLMModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	heading(w, 72, "Usage by purpose", fmt.Sprintf("%-16s  %6s  %10s  %10s  %10s  %8s",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms"))
	var calls, in, out int
	for _, st := range byPurpose {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			truncate(st.Purpose, 16), st.Calls, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
		calls, in, out = calls+st.Calls, in+st.InputTokens, out+st.OutputTokens
	}
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

	if len(byModel) == 0 {
		return
	}
	fmt.Fprintln(w)
	heading(w, 72, "Estimated cost (USD)", fmt.Sprintf("%-32s  %6s  %10s  %10s  %8s",
		"Model", "Calls", "Input", "Output", "Cost"))
	var total float64
	var unpriced []string
	for _, mu := range byModel {
		cost := "?"
		if usd, ok := llm.EstimateCost(mu.Model, mu.InputTokens, mu.OutputTokens); ok {
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %8s\n", truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
	}
	fmt.Fprintln(w, strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %8s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nNo price known for: %s\n", strings.Join(unpriced, ", "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (e.g. explanation)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
