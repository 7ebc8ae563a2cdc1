// Package config loads service configuration from an optional YAML file with
// environment variable overrides. Environment always wins so deployments can
// keep secrets out of the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable for the backend process.
type Config struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// CORSOrigin is the single allowed origin for the chat client.
	CORSOrigin string `yaml:"cors_origin"`

	// OpenAIAPIKey authenticates both embedding and chat calls.
	OpenAIAPIKey string `yaml:"openai_api_key"`

	// EmbeddingModel and EmbeddingDimension configure the embedding call.
	EmbeddingModel     string `yaml:"embedding_model"`
	EmbeddingDimension int    `yaml:"embedding_dimension"`

	// ChatModel is the completion model for every LLM stage.
	ChatModel string `yaml:"chat_model"`

	// MilvusAddress, Collection and Partition locate the vector index.
	MilvusAddress string `yaml:"milvus_address"`
	Collection    string `yaml:"collection"`
	Partition     string `yaml:"partition"`

	// PDFPath points at the source novel; ChunkSize is the rune width of
	// each indexed passage.
	PDFPath   string `yaml:"pdf_path"`
	ChunkSize int    `yaml:"chunk_size"`

	// RequestTimeout bounds one full pipeline request end to end.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns the configuration matching the original deployment.
func Default() Config {
	return Config{
		Port:               8080,
		CORSOrigin:         "http://localhost:3000",
		EmbeddingModel:     "text-embedding-ada-002",
		EmbeddingDimension: 1536,
		ChatModel:          "gpt-4o-mini",
		MilvusAddress:      "localhost:19530",
		Collection:         "little_prince",
		Partition:          "france",
		PDFPath:            "docs/st_exupery_le_petit_prince.pdf",
		ChunkSize:          350,
		RequestTimeout:     60 * time.Second,
	}
}

// Load builds a Config from defaults, an optional YAML file, and the
// environment, in that order of precedence (environment last and strongest).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		c.EmbeddingModel = v
	}
	if v := os.Getenv("CHAT_MODEL"); v != "" {
		c.ChatModel = v
	}
	if v := os.Getenv("MILVUS_ADDRESS"); v != "" {
		c.MilvusAddress = v
	}
	if v := os.Getenv("MILVUS_COLLECTION"); v != "" {
		c.Collection = v
	}
	if v := os.Getenv("MILVUS_PARTITION"); v != "" {
		c.Partition = v
	}
	if v := os.Getenv("PDF_PATH"); v != "" {
		c.PDFPath = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
}
