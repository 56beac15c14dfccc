package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harness/ng-tooltip/internal/snapshot"
)

var previewDataset string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Write the preview handoff snapshot for the hosting application",
	Long: `Writes the working dictionary under the preview key with a 2-hour
TTL. The hosting application reads that key to render in-progress
tooltip edits live. The printed timestamp is the handoff signal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		def, err := loadDefaultDataset(previewDataset)
		if err != nil {
			return err
		}
		dict, seedErr := snapshot.Seed(store, def)
		if seedErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: saved edits unreadable, using default dataset (%v)\n", seedErr)
		}

		snap, err := store.Save(snapshot.KeyPreview, dict, snapshot.PreviewTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Preview snapshot written: %d entries, timestamp %d, expires %s\n",
			len(dict), snap.SavedAt.UnixMilli(), snap.SavedAt.Add(snapshot.PreviewTTL).Format("15:04:05"))
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewDataset, "dataset", "", "YAML dataset file to seed from")
	rootCmd.AddCommand(previewCmd)
}
