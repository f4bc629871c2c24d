package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ProviderError is any failure of a completion call: transport, auth,
// rate limit, malformed response or a panic inside the provider SDK.
type ProviderError struct {
	Provider string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause == nil {
		return e.Provider + ": unknown provider error"
	}
	return e.Cause.Error()
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// AsProviderError returns err as a *ProviderError, wrapping it if needed.
func AsProviderError(provider string, err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Provider: provider, Cause: err}
}

type guardedClient struct {
	provider string
	next     Client
	log      *zap.Logger
}

// Guard wraps c so that every failure it reports is a *ProviderError and a
// panic in c is recovered into one. It performs exactly one call per request.
func Guard(provider string, c Client, log *zap.Logger) Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &guardedClient{provider: provider, next: c, log: log}
}

func (g *guardedClient) Complete(ctx context.Context, req Request) (resp Response, err error) {
	if verr := req.Validate(); verr != nil {
		return Response{}, &ProviderError{Provider: g.provider, Cause: verr}
	}

	defer func() {
		if r := recover(); r != nil {
			g.log.Error("completion panicked", zap.String("provider", g.provider), zap.Any("panic", r))
			resp, err = Response{}, &ProviderError{Provider: g.provider, Cause: fmt.Errorf("provider panic: %v", r)}
		}
	}()

	resp, err = g.next.Complete(ctx, req)
	if err != nil {
		g.log.Warn("completion failed", zap.String("provider", g.provider), zap.Error(err))
		return Response{}, AsProviderError(g.provider, err)
	}

	g.log.Debug("completion done",
		zap.String("provider", g.provider),
		zap.String("model", resp.Model),
		zap.Float64("temperature", req.Temperature),
		zap.Int("max_output_tokens", req.MaxOutputTokens),
		zap.Int("prompt_tokens", resp.PromptTokens),
		zap.Int("completion_tokens", resp.CompletionTokens),
		zap.Int("total_tokens", resp.TotalTokens),
	)
	return resp, nil
}
