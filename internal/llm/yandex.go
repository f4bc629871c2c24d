package llm

import (
	"context"

	"github.com/Morwran/yagpt"
	"github.com/rotisserie/eris"
)

// YandexClient serves completions from YandexGPT. The yagpt completion call
// takes no sampling options, so Temperature and MaxOutputTokens are not sent.
type YandexClient struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	// Create IAM token from OAuth token
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, eris.Wrap(err, "init yandex iam")
	}
	resp, err := iam.Create()
	if err != nil {
		return nil, eris.Wrap(err, "create iam token")
	}

	// Create YaGPT client for a folder
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, eris.Wrap(err, "init yagpt")
	}

	return &YandexClient{
		ya:       ya,
		iamToken: resp.IamToken,
	}, nil
}

func (c *YandexClient) Complete(ctx context.Context, req Request) (Response, error) {
	var messages []yagpt.Message
	for _, m := range req.Messages() {
		messages = append(messages, yagpt.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := c.ya.CompletionWithCtx(ctx, c.iamToken, messages)
	if err != nil {
		return Response{}, eris.Wrap(err, "yagpt completion failed")
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, eris.New("yagpt returned empty response")
	}
	out := Response{Content: resp.Alternatives[0].Message.Content, Model: yagpt.YaModelLite}
	out.PromptTokens = int(resp.Usage.InputTextTokens)
	out.CompletionTokens = int(resp.Usage.CompletionTokens)
	out.TotalTokens = int(resp.Usage.TotalTokens)
	return out, nil
}
