package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// Request is a single completion: one system instruction, one user message.
type Request struct {
	SystemInstruction string
	UserMessage       string
	Temperature       float64
	MaxOutputTokens   int
}

// Messages renders the request as a chat message list.
func (r Request) Messages() []Message {
	var out []Message
	if r.SystemInstruction != "" {
		out = append(out, Message{Role: RoleSystem, Content: r.SystemInstruction})
	}
	return append(out, Message{Role: RoleUser, Content: r.UserMessage})
}

var ErrInvalidRequest = errors.New("invalid completion request")

func (r Request) Validate() error {
	if r.Temperature < 0 || r.Temperature > 1 {
		return fmt.Errorf("%w: temperature %v outside [0,1]", ErrInvalidRequest, r.Temperature)
	}
	if r.MaxOutputTokens <= 0 {
		return fmt.Errorf("%w: max output tokens must be positive, got %d", ErrInvalidRequest, r.MaxOutputTokens)
	}
	return nil
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
