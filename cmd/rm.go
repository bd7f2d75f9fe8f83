package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentrace/agentrace/internal/utils"
)

// rmCmd deletes stored runs
var rmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Delete stored runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		for _, runID := range args {
			if _, ok, err := s.GetRun(runID); err != nil {
				return err
			} else if !ok {
				return utils.NewUserError(
					fmt.Sprintf("Run not found: %s", runID),
					"List stored runs with 'agentrace list'",
					nil)
			}
			if err := s.DeleteRun(runID); err != nil {
				return fmt.Errorf("delete run %s: %w", runID, err)
			}
			fmt.Printf("Deleted %s\n", runID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
