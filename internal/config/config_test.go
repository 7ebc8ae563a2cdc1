package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
	assert.Equal(t, "text-embedding-ada-002", cfg.EmbeddingModel)
	assert.Equal(t, 1536, cfg.EmbeddingDimension)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, "little_prince", cfg.Collection)
	assert.Equal(t, "france", cfg.Partition)
	assert.Equal(t, 350, cfg.ChunkSize)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestLoad_MissingAPIKeyFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8888\nchat_model: gpt-4o\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// The file overrides the default, the environment overrides the file.
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
