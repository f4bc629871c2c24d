package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"finrag/internal/config"
)

func TestNew_BuildsServicesFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"text":"A"},{"text":"B","page":2}]`), 0o600))

	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CORPUS_PATH", path)
	t.Setenv("SIMULATION_CONCURRENCY", "3")
	t.Setenv("LOG_LEVEL", "error")

	a, err := New("test")
	require.NoError(t, err)

	assert.Equal(t, path, a.Services.CorpusPath)
	assert.Equal(t, 2, a.Services.Corpus.Len())
	assert.Equal(t, "A\n\nB", a.Services.Corpus.CombinedContext())
	assert.Equal(t, 3, a.Services.Catalog.Len())
	assert.Equal(t, 3, a.Config.SimulationConcurrency)
}

func TestNew_ConfigError(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := New("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestBuild_MissingCorpusIsNotFatal(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := &config.Config{
		LLMProvider:           config.ProviderOpenAI,
		OpenAIAPIKey:          "sk-test",
		OpenAIModel:           "gpt-3.5-turbo",
		CorpusPath:            filepath.Join(t.TempDir(), "missing.json"),
		SimulationConcurrency: 1,
	}

	a, err := build(cfg, zap.New(core))
	require.NoError(t, err)
	assert.True(t, a.Services.Corpus.Empty())
	assert.Equal(t, 1, logs.FilterMessage("corpus file not found, continuing with empty corpus").Len())
}

func TestBuild_UnknownProvider(t *testing.T) {
	cfg := &config.Config{LLMProvider: "gigachat", CorpusPath: "x.json"}

	_, err := build(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}
