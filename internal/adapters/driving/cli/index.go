package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the search index",
}

var indexCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the index if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := searchIndex.EnsureIndex(cmd.Context(), false); err != nil {
			return fmt.Errorf("index create failed: %w", err)
		}
		cmd.Println("Index ready.")
		return nil
	},
}

var recreateYes bool

var indexRecreateCmd = &cobra.Command{
	Use:   "recreate",
	Short: "Destroy and rebuild the index, discarding all data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !recreateYes {
			return fmt.Errorf("recreate discards all indexed data; pass --yes to confirm")
		}
		if err := searchIndex.EnsureIndex(cmd.Context(), true); err != nil {
			return fmt.Errorf("index recreate failed: %w", err)
		}
		cmd.Println("Index recreated.")
		return nil
	},
}

var indexMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Rebuild the index mapping without losing documents",
	Long: `Copies every document to a temporary index, recreates the index
with the current mapping, and copies the documents back. Document
counts are verified at each step.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := searchIndex.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		cmd.Println("Migration complete.")
		return nil
	},
}

func init() {
	indexRecreateCmd.Flags().BoolVar(&recreateYes, "yes", false, "confirm destroying all indexed data")
	indexCmd.AddCommand(indexCreateCmd, indexRecreateCmd, indexMigrateCmd)
	rootCmd.AddCommand(indexCmd)
}
