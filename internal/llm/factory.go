package llm

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"finrag/internal/config"
)

const (
	ProviderOpenAI    = "openai"
	ProviderYandex    = "yandex"
	ProviderAnthropic = "anthropic"
)

// Factory creates guarded LLM clients with consistent logic
type Factory struct {
	OpenaiAPIKey       string
	OpenaiBaseURL      string
	OpenRouterReferrer string
	OpenRouterTitle    string
	YandexOAuthToken   string
	YandexFolderID     string
	AnthropicAPIKey    string

	log *zap.Logger
}

func NewFactory(cfg *config.Config, log *zap.Logger) *Factory {
	return &Factory{
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
		AnthropicAPIKey:    cfg.AnthropicAPIKey,
		log:                log,
	}
}

func (f *Factory) CreateClient(provider, model string) (Client, error) {
	provider = strings.ToLower(provider)
	switch provider {
	case ProviderOpenAI:
		c := NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, model, f.OpenRouterReferrer, f.OpenRouterTitle)
		return Guard(provider, c, f.log), nil
	case ProviderYandex:
		c, err := NewYandex(f.YandexOAuthToken, f.YandexFolderID)
		if err != nil {
			return nil, err
		}
		return Guard(provider, c, f.log), nil
	case ProviderAnthropic:
		return Guard(provider, NewAnthropic(f.AnthropicAPIKey, model), f.log), nil
	default:
		return nil, eris.Errorf("unknown llm provider: %s", provider)
	}
}
