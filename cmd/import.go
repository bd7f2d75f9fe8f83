package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentrace/agentrace/internal/ingest"
	"github.com/agentrace/agentrace/internal/store"
	"github.com/agentrace/agentrace/internal/utils"
)

var (
	importRunID string
	importName  string
)

// importCmd stores a JSONL step log as a run
var importCmd = &cobra.Command{
	Use:   "import <file.jsonl>",
	Short: "Import a JSONL step log into the run database",
	Long: `Import a JSONL step log into the local run database.

Each line is one step record. Malformed lines are skipped. The run id
defaults to a timestamped id and the name to the file name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importRun(args[0], importRunID, importName)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importRunID, "run-id", "", "run id to store under (default run-<timestamp>)")
	importCmd.Flags().StringVar(&importName, "name", "", "display name for the run (default file name)")
}

func importRun(path, runID, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return utils.NewUserError(
			fmt.Sprintf("Cannot open trace file: %s", path),
			"Check the path and permissions",
			err)
	}
	defer func() { _ = f.Close() }()

	steps := ingest.ParseSteps(f)
	if len(steps) == 0 {
		return utils.NewUserError(
			fmt.Sprintf("No steps found in %s", path),
			"The file must contain one JSON step record per line",
			nil)
	}

	if runID == "" {
		runID = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	if name == "" {
		name = runName(path)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	run := store.RunFromSteps(runID, name, steps)
	if err := s.SaveRun(run, steps); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	GetLogger().Info().Str("run", runID).Int("steps", len(steps)).Msg("run imported")
	fmt.Printf("Imported %d steps as %s\n", len(steps), runID)
	fmt.Printf("View it with: agentrace view %s\n", runID)
	return nil
}
