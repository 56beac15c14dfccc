package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harness/ng-tooltip/internal/snapshot"
)

var (
	discardSaved   bool
	discardPreview bool
)

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Delete persisted snapshots (saved edits and/or preview)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		// With no flags, both snapshots are discarded.
		all := !discardSaved && !discardPreview

		if discardSaved || all {
			if err := store.Clear(snapshot.KeySaved); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved edits discarded.")
		}
		if discardPreview || all {
			if err := store.Clear(snapshot.KeyPreview); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Preview snapshot discarded.")
		}
		return nil
	},
}

func init() {
	discardCmd.Flags().BoolVar(&discardSaved, "saved", false, "discard only the saved edits")
	discardCmd.Flags().BoolVar(&discardPreview, "preview", false, "discard only the preview snapshot")
	rootCmd.AddCommand(discardCmd)
}
