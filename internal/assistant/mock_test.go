package assistant

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"finrag/internal/llm"
)

// MockClient implements llm.Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(llm.Response), args.Error(1)
}

// funcClient answers through fn and records every request it sees.
type funcClient struct {
	mu   sync.Mutex
	reqs []llm.Request
	fn   func(req llm.Request) (llm.Response, error)
}

func (f *funcClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.fn(req)
}

func (f *funcClient) requests() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.reqs...)
}
