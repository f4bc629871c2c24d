package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"finrag/internal/llm"
)

const (
	questionInstruction = "You are an assistant that helps generate questions."
	questionSuffix      = " Generate four questions dynamically in a conversational manner."

	questionTemperature = 0.7
	questionMaxTokens   = 200
)

// Generator asks the model for questions a persona would put to the reports.
type Generator struct {
	catalog *Catalog
	client  llm.Client
	log     *zap.Logger
}

func NewGenerator(catalog *Catalog, client llm.Client, log *zap.Logger) *Generator {
	return &Generator{catalog: catalog, client: client, log: log}
}

// Generate fails only for an unknown persona. Provider failures are carried in
// the result.
func (g *Generator) Generate(ctx context.Context, personaID string) (QuestionsResult, error) {
	p, err := g.catalog.Lookup(personaID)
	if err != nil {
		return QuestionsResult{}, err
	}

	resp, err := g.client.Complete(ctx, llm.Request{
		SystemInstruction: questionInstruction,
		UserMessage:       p.RoleDescription + questionSuffix,
		Temperature:       questionTemperature,
		MaxOutputTokens:   questionMaxTokens,
	})
	if err != nil {
		g.log.Error("question generation failed", zap.String("persona", p.ID), zap.Error(err))
		return QuestionsResult{Err: err}, nil
	}

	questions := ParseQuestions(resp.Content)
	g.log.Info("questions generated", zap.String("persona", p.ID), zap.Int("count", len(questions)))
	return QuestionsResult{Questions: questions}, nil
}

// GenerateQuestions is Generate rendered for display: on provider failure the
// slice holds a single error line.
func (g *Generator) GenerateQuestions(ctx context.Context, personaID string) ([]string, error) {
	res, err := g.Generate(ctx, personaID)
	if err != nil {
		return nil, err
	}
	return res.Lines(), nil
}

// ParseQuestions splits free-form model output into one question per
// non-blank line. It does not enforce a question count.
func ParseQuestions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if q := strings.TrimSpace(line); q != "" {
			out = append(out, q)
		}
	}
	return out
}
