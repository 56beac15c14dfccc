package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harness/ng-tooltip/internal/page"
	"github.com/harness/ng-tooltip/internal/snapshot"
)

var scanDataset string

var scanCmd = &cobra.Command{
	Use:   "scan <page>",
	Short: "List the tooltip anchors found in an HTML page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return err
		}
		defer f.Close()

		doc, err := page.Parse(f, cfg.MarkerAttr)
		if err != nil {
			return err
		}
		anchors := doc.Scan()

		store, err := openStore()
		if err != nil {
			return err
		}
		def, err := loadDefaultDataset(scanDataset)
		if err != nil {
			return err
		}
		dict, seedErr := snapshot.Seed(store, def)
		if seedErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: saved edits unreadable, using default dataset (%v)\n", seedErr)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "## Tooltip anchors in %s\n", args[0])
		if len(anchors) == 0 {
			fmt.Fprintln(out, "  (none)")
			return nil
		}
		for _, a := range anchors {
			if a.ID == "" {
				fmt.Fprintf(out, "  - <%s> (marker present but empty, not editable)\n", a.Tag)
				continue
			}
			content := dict.Content(a.ID)
			mark := "✓"
			if content == "" {
				mark = "∅"
				content = "(no content)"
			}
			if r := []rune(content); len(r) > 70 {
				content = string(r[:67]) + "…"
			}
			fmt.Fprintf(out, "  %s %-30s <%s>  w=%-5s %s\n", mark, a.ID, a.Tag, dict.Width(a.ID), content)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanDataset, "dataset", "", "YAML dataset file to seed from")
	rootCmd.AddCommand(scanCmd)
}
