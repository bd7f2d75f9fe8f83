package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agentrace/agentrace/internal/ingest"
	"github.com/agentrace/agentrace/internal/trace"
	"github.com/agentrace/agentrace/internal/tui"
	"github.com/agentrace/agentrace/internal/utils"
)

var (
	viewFile   string
	viewFollow bool
)

// viewCmd launches the interactive trace viewer
var viewCmd = &cobra.Command{
	Use:   "view [run-id]",
	Short: "View a trace in the interactive viewer",
	Long: `View an execution trace in the interactive terminal viewer.

Without arguments the viewer opens the run list from the local database.
With a run id it opens that run directly. With --file it reads a JSONL
step log instead of the database; add --follow to keep the tree growing
while the agent is still running.

Examples:
  agentrace view                         # Browse stored runs
  agentrace view run-1724…               # Open one stored run
  agentrace view --file trace.jsonl      # View a step log
  agentrace view --file trace.jsonl --follow`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if viewFile != "" {
			return viewFromFile(viewFile, viewFollow)
		}
		runID := ""
		if len(args) > 0 {
			runID = args[0]
		}
		return viewFromStore(runID)
	},
}

func viewFromFile(path string, follow bool) error {
	if !utils.FileExists(path) && !follow {
		return utils.NewUserError(
			fmt.Sprintf("Trace file not found: %s", path),
			"Check the path, or pass --follow to wait for it to appear",
			nil)
	}

	var steps []*trace.Step
	if f, err := os.Open(path); err == nil {
		steps = ingest.ParseSteps(f)
		_ = f.Close()
	}

	var follower *ingest.Follower
	if follow {
		// The initial read already consumed the file, so the follower
		// picks up from the current end.
		follower = ingest.NewFollower(path, false)
	}

	GetLogger().Debug().Str("file", path).Int("steps", len(steps)).Bool("follow", follow).
		Msg("opening trace file")

	return runViewer(tui.NewViewer(runName(path), steps, follower))
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVarP(&viewFile, "file", "f", "", "read steps from a JSONL file instead of the database")
	viewCmd.Flags().BoolVar(&viewFollow, "follow", false, "keep polling the file for appended steps")
}

func viewFromStore(runID string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if runID != "" {
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
		return runViewer(tui.NewViewer(runID, steps, nil))
	}

	runs, err := s.ListRuns(100, 0)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return utils.NewUserError(
			"No runs found",
			"Import one with 'agentrace import <file.jsonl>'",
			nil)
	}

	data := make([]tui.RunData, 0, len(runs))
	for _, run := range runs {
		steps, err := s.LoadSteps(run.ID)
		if err != nil {
			return err
		}
		data = append(data, tui.RunData{Run: run, Steps: steps})
	}
	return runViewer(tui.NewExplorer(data))
}

func runViewer(m tui.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}

// runName derives a display name from a trace file path
func runName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
