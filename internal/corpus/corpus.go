// Package corpus holds the preprocessed report chunks every answer is grounded on.
//
// A Corpus is built once at process start and never mutated afterwards, so it
// is safe to share between concurrent requests without locking.
package corpus

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// NoData is the combined context of an empty corpus.
const NoData = "No data found."

const separator = "\n\n"

// Record is one preprocessed chunk of report text.
type Record struct {
	Text string `json:"text"`
}

// UnmarshalJSON requires a string "text" field; other fields are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Text == nil {
		return eris.New("record has no text field")
	}
	r.Text = *raw.Text
	return nil
}

// Corpus is an ordered, read-only set of records with their joined context.
type Corpus struct {
	records []Record
	joined  string
}

// New builds a corpus over records in the given order.
func New(records ...Record) *Corpus {
	c := &Corpus{records: append([]Record(nil), records...)}
	if len(c.records) == 0 {
		c.joined = NoData
		return c
	}
	texts := make([]string, len(c.records))
	for i, r := range c.records {
		texts[i] = r.Text
	}
	c.joined = strings.Join(texts, separator)
	return c
}

// Read decodes a JSON array of records.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, eris.Wrap(err, "corpus: decode records")
	}
	return records, nil
}

// Open reads the corpus file at path.
func Open(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "corpus: open %s", path)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, eris.Wrapf(err, "corpus: read %s", path)
	}
	return New(records...), nil
}

// Load is Open that never fails: a missing or unparseable file yields an
// empty corpus and a log entry. Callers report "no data" via Empty.
func Load(path string, log *zap.Logger) *Corpus {
	c, err := Open(path)
	switch {
	case err == nil:
		log.Info("corpus loaded", zap.String("path", path), zap.Int("records", c.Len()))
		return c
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("corpus file not found, continuing with empty corpus", zap.String("path", path))
	default:
		log.Error("corpus file unreadable, continuing with empty corpus", zap.String("path", path), zap.Error(err))
	}
	return New()
}

// CombinedContext joins every chunk in store order with a blank line between
// chunks, or returns NoData for an empty corpus.
func (c *Corpus) CombinedContext() string { return c.joined }

func (c *Corpus) Empty() bool { return len(c.records) == 0 }

func (c *Corpus) Len() int { return len(c.records) }

// Records returns a copy of the stored records.
func (c *Corpus) Records() []Record {
	return append([]Record(nil), c.records...)
}
