package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LLMProvider string

const (
	ProviderOpenAI    LLMProvider = "openai"
	ProviderYandex    LLMProvider = "yandex"
	ProviderAnthropic LLMProvider = "anthropic"
)

type Config struct {
	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`
	AnthropicAPIKey  string      `env:"ANTHROPIC_API_KEY"`
	AnthropicModel   string      `env:"ANTHROPIC_MODEL" envDefault:"claude-sonnet-4-5-20250929"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Corpus
	CorpusPath string `env:"CORPUS_PATH" envDefault:"preprocessed_data.json"`

	// Simulation answers run sequentially when <= 1.
	SimulationConcurrency int `env:"SIMULATION_CONCURRENCY" envDefault:"1"`

	// Telegram surface
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	MessageParseMode string `env:"MESSAGE_PARSE_MODE" envDefault:"HTML"`

	// Scheduled persona digest; disabled while DigestSchedule is empty.
	DigestSchedule string `env:"DIGEST_SCHEDULE"`
	DigestChatID   int64  `env:"DIGEST_CHAT_ID"`

	// Web surface
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	Log LogConfig
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, eris.Wrap(err, "config: parse env")
	}
	cfg.LLMProvider = LLMProvider(strings.ToLower(strings.TrimSpace(string(cfg.LLMProvider))))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return eris.New("config: OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return eris.New("config: YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for the yandex provider")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return eris.New("config: ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	default:
		return eris.Errorf("config: unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.DigestSchedule != "" && c.DigestChatID == 0 {
		return eris.New("config: DIGEST_CHAT_ID is required when DIGEST_SCHEDULE is set")
	}
	if c.SimulationConcurrency < 1 {
		c.SimulationConcurrency = 1
	}
	return nil
}

// Model is the model name for the selected provider. Yandex picks its model
// from the folder, so it has none.
func (c *Config) Model() string {
	switch c.LLMProvider {
	case ProviderAnthropic:
		return c.AnthropicModel
	case ProviderYandex:
		return ""
	default:
		return c.OpenAIModel
	}
}

// NewLogger builds a zap logger: JSON production output unless Format is "console".
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}
