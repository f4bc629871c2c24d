package assistant

import (
	"context"

	"go.uber.org/zap"

	"finrag/internal/corpus"
	"finrag/internal/llm"
)

// GroundingInstruction confines the model to the supplied context.
const GroundingInstruction = "You are a knowledgeable financial analyst with deep expertise in interpreting corporate financial reports, particularly Zalando’s. " +
	"You must rely ONLY on the provided context for your answers and avoid including any information not explicitly found in that context."

const (
	answerTemperature = 0.0
	answerMaxTokens   = 1000
)

// Engine answers free-form questions against the full corpus.
type Engine struct {
	corpus *corpus.Corpus
	client llm.Client
	log    *zap.Logger
}

func NewEngine(c *corpus.Corpus, client llm.Client, log *zap.Logger) *Engine {
	return &Engine{corpus: c, client: client, log: log}
}

// UserMessage builds the user turn sent with every question.
func UserMessage(contextText, query string) string {
	return "Context:\n" + contextText + "\n\nQuestion: " + query
}

// Ask answers query using contextOverride when it is non-empty and the whole
// corpus otherwise. The query is forwarded as is, blank or not.
func (e *Engine) Ask(ctx context.Context, query, contextOverride string) Result {
	contextText := contextOverride
	if contextText == "" {
		if e.corpus.Empty() {
			e.log.Warn("answer requested with empty corpus")
			return Result{Err: ErrNoData}
		}
		contextText = e.corpus.CombinedContext()
	}

	resp, err := e.client.Complete(ctx, llm.Request{
		SystemInstruction: GroundingInstruction,
		UserMessage:       UserMessage(contextText, query),
		Temperature:       answerTemperature,
		MaxOutputTokens:   answerMaxTokens,
	})
	if err != nil {
		e.log.Error("answer failed", zap.String("query", query), zap.Error(err))
		return Result{Err: err}
	}

	e.log.Info("answer generated",
		zap.String("query", query),
		zap.Bool("context_override", contextOverride != ""),
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.TotalTokens),
	)
	return Result{Text: resp.Content}
}

// Answer is Ask rendered for display.
func (e *Engine) Answer(ctx context.Context, query, contextOverride string) string {
	return e.Ask(ctx, query, contextOverride).String()
}
