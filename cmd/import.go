package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harness/ng-tooltip/internal/dictionary"
	"github.com/harness/ng-tooltip/internal/snapshot"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <dataset.yaml>",
	Short: "Replace the working dictionary with a YAML dataset",
	Long: `Parses a YAML dataset file, verifies it survives a re-serialization
round trip, and stores it as the working dictionary. This is a
destructive operation: any in-progress edits under the saved snapshot
are discarded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return err
		}

		dict, err := dictionary.ParseAndVerify(raw)
		if err != nil {
			// Parse and apply failures leave the stored state untouched.
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		// Refuse to silently overwrite in-progress edits.
		if !importForce {
			if _, err := store.Load(snapshot.KeySaved); err == nil {
				return errors.New("saved edits exist and would be discarded; re-run with --force to replace them")
			}
		}

		if _, err := store.Save(snapshot.KeySaved, dict, snapshot.SavedTTL); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries.\n", len(dict))
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "replace existing saved edits without asking")
	rootCmd.AddCommand(importCmd)
}
