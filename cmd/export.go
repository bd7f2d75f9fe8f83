package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentrace/agentrace/internal/export"
	"github.com/agentrace/agentrace/internal/trace"
	"github.com/agentrace/agentrace/internal/utils"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd serializes a run for external tools
var exportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export a run for external tools",
	Long: `Export a stored run as JSON, YAML or a Mermaid flowchart.

Without a run id the most recent run is used. Output goes to stdout
unless --output is given.

Examples:
  agentrace export run-123 --format json
  agentrace export --format mermaid --output trace.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := ""
		if len(args) > 0 {
			runID = args[0]
		}
		return exportRun(runID, exportFormat, exportOutput)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json|yaml|mermaid")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}

func exportRun(runID, format, output string) error {
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

	var out []byte
	switch format {
	case "json":
		doc := export.NewDocument(runID, tree.Roots)
		out, err = doc.JSON()
	case "yaml":
		doc := export.NewDocument(runID, tree.Roots)
		out, err = doc.YAML()
	case "mermaid":
		out = []byte(export.Mermaid(tree.Roots))
	default:
		return utils.NewUserError(
			fmt.Sprintf("Unknown format: %s", format),
			"Supported formats are json, yaml and mermaid",
			nil)
	}
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := utils.WriteFile(output, out); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	GetLogger().Info().Str("run", runID).Str("format", format).Str("output", output).
		Msg("run exported")
	fmt.Printf("Exported %s to %s\n", runID, output)
	return nil
}
