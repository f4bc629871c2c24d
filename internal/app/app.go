// Package app wires configuration, logging, the corpus and the completion
// client into the services every binary serves.
package app

import (
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"finrag/internal/assistant"
	"finrag/internal/config"
	"finrag/internal/corpus"
	"finrag/internal/llm"
)

type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Services *assistant.Services
}

// New loads .env (when present) and the environment, then builds the
// assistant. A missing or broken corpus file is not an error.
func New(name string) (*App, error) {
	envErr := godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	logger = logger.Named(name)
	if envErr != nil {
		logger.Debug(".env file not loaded", zap.Error(envErr))
	}

	return build(cfg, logger)
}

func build(cfg *config.Config, logger *zap.Logger) (*App, error) {
	c := corpus.Load(cfg.CorpusPath, logger.Named("corpus"))

	provider := string(cfg.LLMProvider)
	client, err := llm.NewFactory(cfg, logger.Named("llm")).CreateClient(provider, cfg.Model())
	if err != nil {
		return nil, eris.Wrap(err, "create llm client")
	}

	svc := assistant.NewServices(c, cfg.CorpusPath, client, cfg.SimulationConcurrency, logger)
	logger.Info("assistant ready",
		zap.String("provider", provider),
		zap.String("model", cfg.Model()),
		zap.String("corpus_path", cfg.CorpusPath),
		zap.Int("records", c.Len()),
		zap.Int("simulation_concurrency", cfg.SimulationConcurrency),
	)

	return &App{Config: cfg, Log: logger, Services: svc}, nil
}
