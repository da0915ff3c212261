package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/llm"
	"github.com/abhisek/studyaid/internal/store"
	"github.com/abhisek/studyaid/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect model requests and token usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		w := cmd.OutOrStdout()
		rows := 0
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			if rows == 0 {
				fmt.Fprintf(w, "%-5s  %-19s  %-12s  %-28s  %6s  %6s  %7s  %s\n",
					"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
				fmt.Fprintln(w, strings.Repeat("─", 96))
			}
			rows++

			ok := theme.Correct.Render("✓")
			if !e.Success {
				ok = theme.Incorrect.Render("✗")
			}
			fmt.Fprintf(w, "%-5d  %-19s  %-12s  %-28s  %6d  %6d  %7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 12),
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		if rows == 0 {
			fmt.Fprintln(w, "No model requests recorded.")
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		w := cmd.OutOrStdout()
		heading(w, fmt.Sprintf("Request %d", e.ID))
		fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(w, "Model:     %s\n", e.Model)
		fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
		if e.ErrorMessage != "" {
			styled(w, theme.Incorrect, "Error:     %s", e.ErrorMessage)
		}

		printBody(w, "Request", e.RequestBody)
		printBody(w, "Response", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose and estimated cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(w, "No model usage recorded yet.")
			return nil
		}
		printPurposeUsage(w, byPurpose)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) > 0 {
			fmt.Fprintln(w)
			printModelCost(w, byModel)
		}
		return nil
	},
}

func printBody(w io.Writer, title, body string) {
	fmt.Fprintln(w)
	heading(w, title)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(w, body)
}

func printPurposeUsage(w io.Writer, usage []store.PurposeUsage) {
	heading(w, "Usage by purpose")
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")

	var calls, in, out int
	for _, u := range usage {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)
}

func printModelCost(w io.Writer, usage []store.ModelUsage) {
	heading(w, "Estimated cost (USD)")
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")

	var total float64
	var unknown []string
	for _, u := range usage {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, u.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n", truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}

	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		styled(w, theme.Hint, "Pricing unavailable for: %s", strings.Join(unknown, ", "))
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
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose: quiz-gen, quiz-judge, notes, flashcards or essay-grade")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
