package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finrag/internal/corpus"
	"finrag/internal/llm"
)

func newTestEngine(c *corpus.Corpus, client llm.Client) *Engine {
	return NewEngine(c, client, zap.NewNop())
}

func TestEngine_UsesCombinedCorpusContext(t *testing.T) {
	m := &MockClient{}
	want := llm.Request{
		SystemInstruction: GroundingInstruction,
		UserMessage:       "Context:\nA\n\nB\n\nQuestion: What was Q3 revenue?",
		Temperature:       0,
		MaxOutputTokens:   1000,
	}
	m.On("Complete", mock.Anything, want).Return(llm.Response{Content: "EUR 2.4bn"}, nil).Once()

	e := newTestEngine(corpus.New(corpus.Record{Text: "A"}, corpus.Record{Text: "B"}), m)
	res := e.Ask(context.Background(), "What was Q3 revenue?", "")

	require.True(t, res.OK())
	assert.Equal(t, "EUR 2.4bn", res.Text)
	assert.Equal(t, "EUR 2.4bn", res.String())
	m.AssertExpectations(t)
}

func TestEngine_OverrideContextIsUsedVerbatim(t *testing.T) {
	m := &MockClient{}
	m.On("Complete", mock.Anything, mock.MatchedBy(func(r llm.Request) bool {
		return r.UserMessage == "Context:\nonly this\n\nQuestion: q"
	})).Return(llm.Response{Content: "answer"}, nil).Once()

	e := newTestEngine(corpus.New(corpus.Record{Text: "stored corpus"}), m)
	assert.Equal(t, "answer", e.Answer(context.Background(), "q", "only this"))
	m.AssertExpectations(t)
}

func TestEngine_OverrideWorksWithEmptyCorpus(t *testing.T) {
	m := &MockClient{}
	m.On("Complete", mock.Anything, mock.Anything).Return(llm.Response{Content: "answer"}, nil).Once()

	e := newTestEngine(corpus.New(), m)
	assert.Equal(t, "answer", e.Answer(context.Background(), "q", "supplied"))
	m.AssertExpectations(t)
}

func TestEngine_EmptyCorpusReportsNoData(t *testing.T) {
	m := &MockClient{}

	e := newTestEngine(corpus.New(), m)
	res := e.Ask(context.Background(), "q", "")

	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, ErrNoData)
	assert.Equal(t, "No data found.", res.String())
	m.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestEngine_BlankQueryIsForwarded(t *testing.T) {
	m := &MockClient{}
	m.On("Complete", mock.Anything, mock.MatchedBy(func(r llm.Request) bool {
		return r.UserMessage == "Context:\nA\n\nQuestion:    "
	})).Return(llm.Response{Content: "?"}, nil).Once()

	e := newTestEngine(corpus.New(corpus.Record{Text: "A"}), m)
	assert.Equal(t, "?", e.Answer(context.Background(), "   ", ""))
	m.AssertExpectations(t)
}

func TestEngine_ProviderFailureBecomesDisplayString(t *testing.T) {
	cause := errors.New("error, status code: 401, message: Incorrect API key provided")
	m := &MockClient{}
	m.On("Complete", mock.Anything, mock.Anything).
		Return(llm.Response{}, &llm.ProviderError{Provider: llm.ProviderOpenAI, Cause: cause}).Twice()

	e := newTestEngine(corpus.New(corpus.Record{Text: "A"}), m)
	res := e.Ask(context.Background(), "q", "")

	require.False(t, res.OK())
	var pe *llm.ProviderError
	assert.ErrorAs(t, res.Err, &pe)

	out := res.String()
	assert.True(t, strings.HasPrefix(out, "Error calling OpenAI API:"), out)
	assert.Contains(t, out, "Incorrect API key provided")
	assert.Equal(t, out, e.Answer(context.Background(), "q", ""))
	m.AssertExpectations(t)
}

func TestEngine_ReturnsCompletionVerbatim(t *testing.T) {
	raw := "  **Revenue** rose 3.5% [p. 4]\n\n"
	m := &MockClient{}
	m.On("Complete", mock.Anything, mock.Anything).Return(llm.Response{Content: raw}, nil)

	e := newTestEngine(corpus.New(corpus.Record{Text: "A"}), m)
	assert.Equal(t, raw, e.Answer(context.Background(), "q", ""))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Context:\nctx\n\nQuestion: q", UserMessage("ctx", "q"))
}
