// Package cli implements the docsearch command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dspeziale/docsearch/internal/adapters/driven/llm/openai"
	osindex "github.com/dspeziale/docsearch/internal/adapters/driven/opensearch"
	"github.com/dspeziale/docsearch/internal/config"
	"github.com/dspeziale/docsearch/internal/core/ports/driven"
	"github.com/dspeziale/docsearch/internal/core/ports/driving"
	"github.com/dspeziale/docsearch/internal/core/services"
	"github.com/dspeziale/docsearch/internal/logger"
	"github.com/dspeziale/docsearch/internal/normalisers"
)

var (
	cfgFile string
	verbose bool
)

// Wired by initServices; tests substitute fakes.
var (
	appConfig     *config.Config
	searchIndex   driven.DocumentIndex
	normaliser    *normalisers.Normaliser
	ingestService driving.IngestService
	queryService  driving.QueryService
)

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Document indexing and intelligent search",
	Long: `DocSearch indexes documents (PDF, Word, spreadsheets, HTML,
Markdown, plain text, email) into OpenSearch and answers questions
about them using retrieval-augmented synthesis.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "docsearch.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// initServices loads configuration and wires the adapters into the
// core services. Already-wired services (tests) are left alone.
func initServices() error {
	if ingestService != nil && queryService != nil {
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	appConfig = cfg

	index, err := osindex.New(osindex.Config{
		Host:               cfg.OpenSearch.Host,
		Port:               cfg.OpenSearch.Port,
		Username:           cfg.OpenSearch.Username,
		Password:           cfg.OpenSearch.Password,
		UseSSL:             cfg.OpenSearch.SSL,
		InsecureSkipVerify: cfg.OpenSearch.Insecure,
		IndexName:          cfg.OpenSearch.Index,
		Timeout:            cfg.BackendTimeout(),
	})
	if err != nil {
		return fmt.Errorf("opensearch: %w", err)
	}
	searchIndex = index

	normaliser = normalisers.New()

	var answerer driven.AnswerStrategy = services.NewRuleAnswerer()
	if cfg.OpenAI.Enabled {
		completion, err := openai.New(openai.Config{
			APIKey:  cfg.OpenAI.Key,
			BaseURL: cfg.OpenAI.Endpoint,
			Model:   cfg.OpenAI.Model,
		})
		if err != nil {
			return fmt.Errorf("openai: %w", err)
		}
		answerer = services.NewGenerativeAnswerer(completion)
		logger.Debug("Generative answers enabled (model %s)", completion.ModelName())
	}

	ingestService = services.NewIngestService(normaliser, searchIndex)
	queryService = services.NewQueryService(searchIndex, answerer)
	return nil
}
