package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentrace/agentrace/internal/store"
	"github.com/agentrace/agentrace/internal/trace"
)

var listLimit int

// listCmd shows stored runs
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		runs, err := s.ListRuns(listLimit, 0)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs found. Import one with 'agentrace import <file.jsonl>'.")
			return nil
		}

		total, err := s.CountRuns()
		if err != nil {
			return err
		}

		printRunTable(runs)
		if total > len(runs) {
			fmt.Printf("\nShowing %d of %d runs (use --limit to see more)\n", len(runs), total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum number of runs to show")
}

func printRunTable(runs []store.Run) {
	header := color.New(color.Bold, color.FgCyan)
	header.Printf("%-30s %-20s %-10s %10s %7s %9s  %s\n",
		"RUN ID", "NAME", "STATUS", "DURATION", "STEPS", "TOKENS", "STARTED")

	for _, run := range runs {
		name := run.Name
		if name == "" {
			name = "-"
		}
		started := time.UnixMilli(run.StartTime).Format("2006-01-02 15:04:05")

		fmt.Printf("%-30s %-20s %-10s %10s %7d %9d  %s\n",
			run.ID,
			truncate(name, 20),
			colorStatus(run.Status),
			formatMs(run.DurationMs),
			run.StepCount,
			run.TotalTokens,
			started,
		)
	}
}

func colorStatus(status trace.Status) string {
	switch status {
	case trace.StatusCompleted:
		return color.GreenString("%-10s", status)
	case trace.StatusError:
		return color.RedString("%-10s", status)
	case trace.StatusRunning:
		return color.YellowString("%-10s", status)
	default:
		return fmt.Sprintf("%-10s", status)
	}
}

func formatMs(ms *int64) string {
	if ms == nil {
		return "-"
	}
	if *ms >= 1000 {
		return fmt.Sprintf("%.2fs", float64(*ms)/1000)
	}
	return fmt.Sprintf("%dms", *ms)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
