package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole workspace to a JSON file",
	Long: `Write every task, the full activity trail, the assignee cache, and your
profile to a single JSON document that 'boardly import' can restore.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := Transfer.ExportJSON()
		if err != nil {
			return fmt.Errorf("exporting workspace: %w", err)
		}

		path := exportOutput
		if path == "" {
			path = fmt.Sprintf("boardly-export-%s.json", time.Now().UTC().Format("2006-01-02"))
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Exported workspace to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the workspace with a previously exported JSON file",
	Long: `Restore a workspace from an export file. This fully replaces the stored
tasks, activity trail, assignee cache, and profile; nothing is merged. An
invalid file leaves the workspace untouched, so retrying with a different
file is always safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		if err := Transfer.Import(data); err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		fmt.Printf("Imported workspace from %s\n", args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default boardly-export-<date>.json)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
