package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentrace/agentrace/internal/trace"
	"github.com/agentrace/agentrace/internal/utils"
)

// statsCmd prints summary metrics for a run
var statsCmd = &cobra.Command{
	Use:   "stats [run-id]",
	Short: "Show summary metrics for a run",
	Long: `Show summary metrics for a stored run.

Without a run id the most recent run is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := ""
		if len(args) > 0 {
			runID = args[0]
		}
		return showStats(runID)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func showStats(runID string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if runID == "" {
		runID, err = s.LatestRunID()
		if err != nil {
			return err
		}
		if runID == "" {
			return utils.NewUserError(
				"No runs found",
				"Import one with 'agentrace import <file.jsonl>'",
				nil)
		}
	}

	steps, err := s.LoadSteps(runID)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return utils.NewUserError(
			fmt.Sprintf("Run not found: %s", runID),
			"List stored runs with 'agentrace list'",
			nil)
	}

	tree := trace.Build(steps)
	summary := trace.Summarize(tree.Roots)
	duration := trace.TraceDuration(tree.Roots)

	title := color.New(color.Bold, color.FgCyan)
	key := color.New(color.FgCyan)

	title.Printf("Run %s\n\n", runID)
	key.Printf("%-16s", "Duration:")
	fmt.Printf("%s\n", formatMs(&duration))
	key.Printf("%-16s", "Steps:")
	fmt.Printf("%d\n", summary.TotalSteps)
	key.Printf("%-16s", "Max depth:")
	fmt.Printf("%d\n", summary.MaxDepth)

	fmt.Println()
	key.Printf("%-16s", "Containers:")
	fmt.Printf("%d\n", summary.Containers)
	key.Printf("%-16s", "Model calls:")
	fmt.Printf("%d\n", summary.ModelCalls)
	key.Printf("%-16s", "Tool calls:")
	fmt.Printf("%d\n", summary.ToolCalls)
	key.Printf("%-16s", "Thoughts:")
	fmt.Printf("%d\n", summary.Thoughts)
	key.Printf("%-16s", "CodeAct steps:")
	fmt.Printf("%d\n", summary.CodeActs)

	fmt.Println()
	key.Printf("%-16s", "Tokens:")
	fmt.Printf("%d\n", summary.TotalTokens)
	key.Printf("%-16s", "Cost:")
	fmt.Printf("$%.4f\n", summary.TotalCost)

	key.Printf("%-16s", "Errors:")
	if summary.Errors > 0 {
		color.Red("%d", summary.Errors)
	} else {
		fmt.Println("0")
	}
	return nil
}
