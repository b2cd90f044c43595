// Package config provides configuration management for actioncoach.
// Settings are loaded from environment variables with the ACTIONCOACH_ prefix.
// An optional YAML file can seed the defaults; environment variables always
// take precedence over file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the actioncoach server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	LLM      LLMConfig      `yaml:"llm"`
	Search   SearchConfig   `yaml:"search"`
	Security SecurityConfig `yaml:"security"`
	Session  SessionConfig  `yaml:"session"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"` // default: 8787
	Host string `yaml:"host"` // default: 127.0.0.1
}

// StorageConfig contains datastore configuration.
type StorageConfig struct {
	// Engine selects the situation store implementation: sqlite or postgres.
	Engine string `yaml:"engine"`

	// DataPath is the data directory for the sqlite engine (default: ./data).
	DataPath string `yaml:"data_path"`

	// PostgresDSN is the connection string for the postgres engine.
	PostgresDSN string `yaml:"postgres_dsn"`

	// EmbeddingDim is the expected embedding dimensionality. It must match
	// the embedding model's output (default: 1536, text-embedding-3-small).
	EmbeddingDim int `yaml:"embedding_dim"`
}

// LLMConfig contains text-generation and embedding provider configuration.
type LLMConfig struct {
	// Provider selects the guidance generator: gemini, openai, ollama.
	Provider string `yaml:"provider"`

	// EmbeddingProvider selects the embedding generator: openai, ollama,
	// or none to disable similarity retrieval and persistence.
	EmbeddingProvider string `yaml:"embedding_provider"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"` // default: gemini-2.0-flash-exp

	OpenAIAPIKey         string `yaml:"openai_api_key"`
	OpenAIModel          string `yaml:"openai_model"`           // default: gpt-4o-mini
	OpenAIEmbeddingModel string `yaml:"openai_embedding_model"` // default: text-embedding-3-small

	OllamaURL            string `yaml:"ollama_url"`             // default: http://localhost:11434
	OllamaModel          string `yaml:"ollama_model"`           // default: qwen2.5:7b
	OllamaEmbeddingModel string `yaml:"ollama_embedding_model"` // default: nomic-embed-text
}

// SearchConfig contains similarity retrieval settings.
type SearchConfig struct {
	// Limit is the maximum number of similar situations retrieved (default: 3).
	Limit int `yaml:"limit"`

	// MinScore is the minimum similarity score for a match (default: 0.7).
	MinScore float64 `yaml:"min_score"`
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string `yaml:"security_mode"` // development or production
	APIToken     string `yaml:"api_token"`
}

// SessionConfig contains per-session usage settings.
type SessionConfig struct {
	// FreeAnalyses is the number of analyses allowed per session (default: 3).
	FreeAnalyses int `yaml:"free_analyses"`

	// TTL is how long an idle session is remembered (default: 24h).
	TTL time.Duration `yaml:"ttl"`
}

// LoadConfig loads configuration from environment variables with defaults.
func LoadConfig() (*Config, error) {
	return buildConfig(Config{}), nil
}

// LoadConfigFile loads configuration from a YAML file, then applies
// environment variables on top. Missing file values fall back to defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return buildConfig(fileCfg), nil
}

// Validate checks cross-field consistency and required credentials.
func (c *Config) Validate() error {
	switch c.Storage.Engine {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported storage engine %q", c.Storage.Engine)
	}
	if c.Storage.Engine == "postgres" && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("config: postgres engine requires ACTIONCOACH_POSTGRES_DSN")
	}
	if c.Storage.EmbeddingDim <= 0 {
		return fmt.Errorf("config: embedding dimension must be positive")
	}
	if c.Search.Limit < 1 {
		return fmt.Errorf("config: search limit must be at least 1")
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		return fmt.Errorf("config: search min score must be in [0,1]")
	}
	if c.Security.SecurityMode == "production" && c.Security.APIToken == "" {
		return fmt.Errorf("config: production mode requires ACTIONCOACH_API_TOKEN")
	}
	return nil
}

// GenerationKeyConfigured reports whether a credential is present for the
// selected generation provider. The boolean is safe to expose for
// diagnostics; the credential itself never is.
func (c *Config) GenerationKeyConfigured() bool {
	switch c.LLM.Provider {
	case "gemini":
		return c.LLM.GeminiAPIKey != ""
	case "openai":
		return c.LLM.OpenAIAPIKey != ""
	case "ollama":
		// Local provider, no credential needed.
		return true
	default:
		return false
	}
}

// buildConfig layers environment variables over file values over defaults.
func buildConfig(file Config) *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("ACTIONCOACH_PORT", defaultInt(file.Server.Port, 8787)),
			Host: getEnv("ACTIONCOACH_HOST", defaultStr(file.Server.Host, "127.0.0.1")),
		},
		Storage: StorageConfig{
			Engine:       getEnv("ACTIONCOACH_STORAGE_ENGINE", defaultStr(file.Storage.Engine, "sqlite")),
			DataPath:     getEnv("ACTIONCOACH_DATA_PATH", defaultStr(file.Storage.DataPath, "./data")),
			PostgresDSN:  getEnv("ACTIONCOACH_POSTGRES_DSN", file.Storage.PostgresDSN),
			EmbeddingDim: getEnvInt("ACTIONCOACH_EMBEDDING_DIM", defaultInt(file.Storage.EmbeddingDim, 1536)),
		},
		LLM: LLMConfig{
			Provider:             getEnv("ACTIONCOACH_LLM_PROVIDER", defaultStr(file.LLM.Provider, "gemini")),
			EmbeddingProvider:    getEnv("ACTIONCOACH_EMBEDDING_PROVIDER", defaultStr(file.LLM.EmbeddingProvider, "openai")),
			GeminiAPIKey:         getEnv("ACTIONCOACH_GEMINI_API_KEY", file.LLM.GeminiAPIKey),
			GeminiModel:          getEnv("ACTIONCOACH_GEMINI_MODEL", defaultStr(file.LLM.GeminiModel, "gemini-2.0-flash-exp")),
			OpenAIAPIKey:         getEnv("ACTIONCOACH_OPENAI_API_KEY", file.LLM.OpenAIAPIKey),
			OpenAIModel:          getEnv("ACTIONCOACH_OPENAI_MODEL", defaultStr(file.LLM.OpenAIModel, "gpt-4o-mini")),
			OpenAIEmbeddingModel: getEnv("ACTIONCOACH_OPENAI_EMBEDDING_MODEL", defaultStr(file.LLM.OpenAIEmbeddingModel, "text-embedding-3-small")),
			OllamaURL:            getEnv("ACTIONCOACH_OLLAMA_URL", defaultStr(file.LLM.OllamaURL, "http://localhost:11434")),
			OllamaModel:          getEnv("ACTIONCOACH_OLLAMA_MODEL", defaultStr(file.LLM.OllamaModel, "qwen2.5:7b")),
			OllamaEmbeddingModel: getEnv("ACTIONCOACH_OLLAMA_EMBEDDING_MODEL", defaultStr(file.LLM.OllamaEmbeddingModel, "nomic-embed-text")),
		},
		Search: SearchConfig{
			Limit:    getEnvInt("ACTIONCOACH_SEARCH_LIMIT", defaultInt(file.Search.Limit, 3)),
			MinScore: getEnvFloat("ACTIONCOACH_SEARCH_MIN_SCORE", defaultFloat(file.Search.MinScore, 0.7)),
		},
		Security: SecurityConfig{
			SecurityMode: getEnv("ACTIONCOACH_SECURITY_MODE", defaultStr(file.Security.SecurityMode, "development")),
			APIToken:     getEnv("ACTIONCOACH_API_TOKEN", file.Security.APIToken),
		},
		Session: SessionConfig{
			FreeAnalyses: getEnvInt("ACTIONCOACH_FREE_ANALYSES", defaultInt(file.Session.FreeAnalyses, 3)),
			TTL:          getEnvDuration("ACTIONCOACH_SESSION_TTL", defaultDuration(file.Session.TTL, 24*time.Hour)),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func defaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func defaultDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}
