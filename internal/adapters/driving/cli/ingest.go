package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dspeziale/docsearch/internal/core/ports/driving"
)

var (
	ingestTags      []string
	ingestSourceURL string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Normalise and index documents",
	Long: `Extracts text, keywords and a summary from each file and writes
it to the search index. Files are processed independently; a failure
on one file does not stop the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVarP(&ingestTags, "tag", "t", nil, "tag to attach (repeatable)")
	ingestCmd.Flags().StringVar(&ingestSourceURL, "source-url", "", "where the file was fetched from")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	opts := driving.IngestOptions{
		Tags:      ingestTags,
		SourceURL: ingestSourceURL,
	}

	if len(args) == 1 {
		result, err := ingestService.Ingest(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		cmd.Printf("Indexed %s as %s (%s, %d bytes)\n", result.Filename, result.ID, result.Type, result.Size)
		if len(result.Keywords) > 0 {
			cmd.Printf("Keywords: %v\n", result.Keywords)
		}
		return nil
	}

	batch := ingestService.IngestBatch(cmd.Context(), args, opts)
	for _, r := range batch.Results {
		cmd.Printf("ok    %s -> %s\n", r.Filename, r.ID)
	}
	for _, f := range batch.Failures {
		cmd.Printf("fail  %s: %s\n", f.Path, f.Reason)
	}
	cmd.Printf("\n%d uploaded, %d failed\n", batch.Uploaded, batch.Failed)
	return nil
}

var attachParent string

var extractAttachmentsCmd = &cobra.Command{
	Use:   "extract-attachments [file]",
	Short: "Index the attachments of an email message",
	Long: `Extracts the attachment payloads of an already indexed email
message and indexes each supported one as an independent document
linked to its parent.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtractAttachments,
}

func init() {
	extractAttachmentsCmd.Flags().StringVar(&attachParent, "parent", "", "document id of the indexed parent message (required)")
	extractAttachmentsCmd.MarkFlagRequired("parent")
	rootCmd.AddCommand(extractAttachmentsCmd)
}

func runExtractAttachments(cmd *cobra.Command, args []string) error {
	batch, err := ingestService.IngestAttachments(cmd.Context(), args[0], attachParent, driving.IngestOptions{Tags: ingestTags})
	if err != nil {
		return fmt.Errorf("attachment extraction failed: %w", err)
	}

	for _, r := range batch.Results {
		cmd.Printf("ok    %s -> %s\n", r.Filename, r.ID)
	}
	for _, f := range batch.Failures {
		cmd.Printf("fail  %s: %s\n", f.Path, f.Reason)
	}
	cmd.Printf("\n%d attachments indexed, %d failed\n", batch.Uploaded, batch.Failed)
	return nil
}
