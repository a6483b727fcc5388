package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dspeziale/docsearch/internal/core/ports/driving"
)

var (
	searchSize   int
	searchTag    string
	searchAnswer bool
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Searches the index with a boosted multi-field fuzzy query and
optionally synthesizes an answer from the top results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchSize, "size", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchTag, "tag", "t", "", "restrict results to a tag")
	searchCmd.Flags().BoolVarP(&searchAnswer, "answer", "a", false, "synthesize an answer from the results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	resp, err := queryService.Search(cmd.Context(), args[0], driving.QueryOptions{
		Size:       searchSize,
		TagFilter:  searchTag,
		WithAnswer: searchAnswer,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if resp.Total == 0 {
		cmd.Println("No results found.")
	} else {
		cmd.Printf("Found %d documents:\n\n", resp.Total)
		for i, r := range resp.Results {
			cmd.Printf("[%d] %s (%s, score %.2f)\n", i+1, r.Filename, r.Type, r.Score)
			if r.Highlight != "" {
				cmd.Printf("    %s\n", r.Highlight)
			}
			if len(r.Tags) > 0 {
				cmd.Printf("    tags: %v\n", r.Tags)
			}
			cmd.Println()
		}
	}

	if resp.Answer != nil {
		cmd.Println("--- Answer ---")
		cmd.Println(resp.Answer.Answer)
		cmd.Printf("\nConfidence: %.2f\n", resp.Answer.Confidence)
		if len(resp.Answer.Flow) > 0 {
			cmd.Println("\nExploration flow:")
			for _, step := range resp.Answer.Flow {
				cmd.Printf("  %s\n", step)
			}
		}
		if len(resp.Answer.Suggestions) > 0 {
			cmd.Println("\nSuggestions:")
			for _, s := range resp.Answer.Suggestions {
				cmd.Printf("  - %s\n", s)
			}
		}
	}
	return nil
}
