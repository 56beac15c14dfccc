package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/harness/ng-tooltip/internal/dictionary"
	"github.com/harness/ng-tooltip/internal/snapshot"
)

var (
	exportDataset   string
	exportOut       string
	exportClipboard bool
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the working dictionary as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		def, err := loadDefaultDataset(exportDataset)
		if err != nil {
			return err
		}
		dict, seedErr := snapshot.Seed(store, def)
		if seedErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: saved edits unreadable, using default dataset (%v)\n", seedErr)
		}

		out, err := dictionary.Marshal(dict)
		if err != nil {
			return fmt.Errorf("serializing dictionary: %w", err)
		}

		if exportOut != "" {
			if err := os.WriteFile(exportOut, out, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(dict), exportOut)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		}

		copyToClipboard := exportClipboard
		if !cmd.Flags().Changed("clipboard") && activeProfile != nil {
			copyToClipboard = activeProfile.CopyOnExport
		}
		if copyToClipboard {
			if err := clipboardWriteAll(string(out)); err != nil {
				return fmt.Errorf("clipboard: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDataset, "dataset", "", "YAML dataset file to seed from")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write the export to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "also copy the export to the clipboard")
	rootCmd.AddCommand(exportCmd)
}
