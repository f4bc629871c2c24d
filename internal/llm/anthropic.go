package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

type AnthropicClient struct {
	client sdk.Client
	model  string
}

// NewAnthropic builds a Messages API client that makes one attempt per call.
// opts are applied after the defaults, so callers can point it at another
// base URL.
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *AnthropicClient {
	base := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	return &AnthropicClient{
		client: sdk.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (Response, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   int64(req.MaxOutputTokens),
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.UserMessage))},
		Temperature: sdk.Float(req.Temperature),
	}
	if req.SystemInstruction != "" {
		params.System = []sdk.TextBlockParam{{Text: req.SystemInstruction}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, eris.Wrap(err, "create message")
	}

	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return Response{}, eris.New("message returned no text content")
	}

	model := string(msg.Model)
	if model == "" {
		model = c.model
	}
	return Response{
		Content:          sb.String(),
		Model:            model,
		PromptTokens:     int(msg.Usage.InputTokens),
		CompletionTokens: int(msg.Usage.OutputTokens),
		TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}, nil
}
