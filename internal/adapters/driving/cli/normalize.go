package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var normalizeShowContent bool

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Extract text, keywords and summary without indexing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := ingestService.Normalize(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("normalisation failed: %w", err)
		}

		cmd.Printf("File: %s (%s, %d bytes)\n", doc.Filename, doc.Type, doc.Size)
		cmd.Printf("Keywords: %v\n", doc.Keywords)
		cmd.Printf("Summary: %s\n", doc.Summary)
		if normalizeShowContent {
			cmd.Println("\n--- Content ---")
			cmd.Println(doc.Content)
		}
		return nil
	},
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeShowContent, "content", false, "print the full extracted text")
	rootCmd.AddCommand(normalizeCmd)
}
