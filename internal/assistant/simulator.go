package assistant

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Turn is one generated question and the answer it received.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Transcript []Turn

// Simulator plays a persona's generated questions against the Engine.
type Simulator struct {
	generator   *Generator
	engine      *Engine
	concurrency int
	log         *zap.Logger
}

// NewSimulator answers questions one at a time when concurrency <= 1 and with
// at most concurrency answers in flight otherwise.
func NewSimulator(generator *Generator, engine *Engine, concurrency int, log *zap.Logger) *Simulator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Simulator{generator: generator, engine: engine, concurrency: concurrency, log: log}
}

// Simulate returns one turn per generated question, in question order. It
// fails for an unknown persona or when ctx ends before all answers are in.
func (s *Simulator) Simulate(ctx context.Context, personaID string) (Transcript, error) {
	log := s.log.With(zap.String("run_id", uuid.NewString()), zap.String("persona", personaID))

	questions, err := s.generator.GenerateQuestions(ctx, personaID)
	if err != nil {
		return nil, err
	}
	log.Info("simulation started", zap.Int("questions", len(questions)), zap.Int("concurrency", s.concurrency))

	transcript := make(Transcript, len(questions))
	if s.concurrency == 1 {
		for i, q := range questions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			transcript[i] = Turn{Question: q, Answer: s.engine.Answer(ctx, q, "")}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)
		for i, q := range questions {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				transcript[i] = Turn{Question: q, Answer: s.engine.Answer(gctx, q, "")}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	log.Info("simulation complete", zap.Int("turns", len(transcript)))
	return transcript, nil
}
