// Package config loads the application configuration from a YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment overrides:
// DOCSEARCH_OPENSEARCH_HOST -> opensearch.host, and so on. Leaf keys
// are single words so the underscore-to-dot mapping stays unambiguous.
const envPrefix = "DOCSEARCH_"

// Config is the full application configuration.
type Config struct {
	OpenSearch OpenSearchConfig `koanf:"opensearch"`
	OpenAI     OpenAIConfig     `koanf:"openai"`
	Server     ServerConfig     `koanf:"server"`
}

// OpenSearchConfig locates the search backend.
type OpenSearchConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	SSL      bool   `koanf:"ssl"`
	Insecure bool   `koanf:"insecure"`
	Index    string `koanf:"index"`
	Timeout  int    `koanf:"timeout"` // seconds
}

// OpenAIConfig configures the optional generative answer backend.
type OpenAIConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Key      string `koanf:"key"`
	Model    string `koanf:"model"`
	Endpoint string `koanf:"endpoint"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
	Uploads string `koanf:"uploads"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OpenSearch: OpenSearchConfig{
			Host:    "localhost",
			Port:    9200,
			Index:   "documents",
			Timeout: 30,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-3.5-turbo",
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    5000,
			Uploads: "uploads",
		},
	}
}

// Load reads configuration from the given YAML file (missing file is
// fine; defaults apply), then overlays DOCSEARCH_* environment
// variables. The OPENAI_API_KEY convention is honoured when no
// explicit key is configured.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.OpenAI.Key == "" {
		cfg.OpenAI.Key = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.OpenSearch.Host == "" {
		return fmt.Errorf("opensearch.host is required")
	}
	if c.OpenSearch.Port <= 0 || c.OpenSearch.Port > 65535 {
		return fmt.Errorf("opensearch.port must be in 1-65535, got %d", c.OpenSearch.Port)
	}
	if c.OpenSearch.Index == "" {
		return fmt.Errorf("opensearch.index is required")
	}
	if c.OpenAI.Enabled && c.OpenAI.Key == "" {
		return fmt.Errorf("openai.key is required when openai.enabled is true")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	return nil
}

// BackendTimeout returns the search backend timeout as a duration.
func (c *Config) BackendTimeout() time.Duration {
	if c.OpenSearch.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.OpenSearch.Timeout) * time.Second
}
