package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := queryService.Statistics(cmd.Context())
		if err != nil {
			return fmt.Errorf("statistics failed: %w", err)
		}

		cmd.Printf("Documents: %d\n", stats.TotalDocuments)
		cmd.Printf("Total size: %d bytes\n", stats.TotalSize)
		if len(stats.ByType) > 0 {
			cmd.Println("\nBy type:")
			for t, n := range stats.ByType {
				cmd.Printf("  %-24s %d\n", t, n)
			}
		}
		if len(stats.ByExtension) > 0 {
			cmd.Println("\nBy extension:")
			for e, n := range stats.ByExtension {
				cmd.Printf("  %-8s %d\n", e, n)
			}
		}
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags with document counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := queryService.Tags(cmd.Context())
		if err != nil {
			return fmt.Errorf("tags failed: %w", err)
		}

		if len(tags) == 0 {
			cmd.Println("No tags.")
			return nil
		}
		for _, t := range tags {
			cmd.Printf("%-24s %d\n", t.Tag, t.Count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd, tagsCmd)
}
