package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harness/ng-tooltip/internal/dictionary"
	"github.com/harness/ng-tooltip/internal/editor"
	"github.com/harness/ng-tooltip/internal/page"
)

var editDataset string

var editCmd = &cobra.Command{
	Use:   "edit <page>",
	Short: "Open the interactive tooltip editor for an HTML page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		def, err := loadDefaultDataset(editDataset)
		if err != nil {
			return err
		}

		provider := &page.FileProvider{Path: args[0], Marker: cfg.MarkerAttr}
		// One eager scan so a missing or unreadable page fails here,
		// with a plain error, instead of inside the TUI.
		if _, err := provider.Anchors(); err != nil {
			return err
		}

		return editor.Run(editor.Options{
			Provider:  provider,
			Store:     store,
			Default:   def,
			WatchPath: args[0],
		})
	},
}

// loadDefaultDataset reads the default dictionary the store is seeded
// from: the given path, falling back to the configured dataset, then
// to an empty dictionary.
func loadDefaultDataset(path string) (dictionary.Dictionary, error) {
	if path == "" {
		path = cfg.DatasetPath
	}
	if path == "" {
		return dictionary.Dictionary{}, nil
	}
	d, err := dictionary.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("default dataset: %w", err)
	}
	return d, nil
}

func init() {
	editCmd.Flags().StringVar(&editDataset, "dataset", "", "YAML dataset file to seed from")
	rootCmd.AddCommand(editCmd)
}
