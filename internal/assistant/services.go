package assistant

import (
	"go.uber.org/zap"

	"finrag/internal/corpus"
	"finrag/internal/llm"
)

// Services bundles what the user-facing surfaces share. Everything in it is
// read-only after construction.
type Services struct {
	Corpus     *corpus.Corpus
	CorpusPath string
	Catalog    *Catalog
	Engine     *Engine
	Generator  *Generator
	Simulator  *Simulator
}

func NewServices(c *corpus.Corpus, corpusPath string, client llm.Client, concurrency int, log *zap.Logger) *Services {
	catalog := DefaultCatalog()
	engine := NewEngine(c, client, log.Named("engine"))
	generator := NewGenerator(catalog, client, log.Named("questions"))
	return &Services{
		Corpus:     c,
		CorpusPath: corpusPath,
		Catalog:    catalog,
		Engine:     engine,
		Generator:  generator,
		Simulator:  NewSimulator(generator, engine, concurrency, log.Named("simulator")),
	}
}

// NoCorpusText is the package-level NoCorpusText for this corpus path.
func (s *Services) NoCorpusText() string {
	return NoCorpusText(s.CorpusPath)
}
