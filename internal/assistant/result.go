// Package assistant answers questions against the whole report corpus and
// simulates persona-driven conversations on top of that.
package assistant

import (
	"errors"
)

// ErrNoData is reported instead of calling the model when the corpus is empty
// and no explicit context was supplied.
var ErrNoData = errors.New("no corpus data")

const (
	answerErrorPrefix    = "Error calling OpenAI API: "
	questionsErrorPrefix = "Error generating questions: "
	noDataText           = "No data found."
)

// Result is the outcome of one answer call: either Text or Err is meaningful.
type Result struct {
	Text string
	Err  error
}

func (r Result) OK() bool { return r.Err == nil }

// String renders the result for display. Failures become a readable message so
// surfaces can show successes and failures the same way.
func (r Result) String() string {
	switch {
	case r.Err == nil:
		return r.Text
	case errors.Is(r.Err, ErrNoData):
		return noDataText
	default:
		return answerErrorPrefix + r.Err.Error()
	}
}

// QuestionsResult is the outcome of one question-generation call.
type QuestionsResult struct {
	Questions []string
	Err       error
}

func (r QuestionsResult) OK() bool { return r.Err == nil }

// Lines renders the result for display: the questions, or a single error line.
func (r QuestionsResult) Lines() []string {
	if r.Err != nil {
		return []string{questionsErrorPrefix + r.Err.Error()}
	}
	return r.Questions
}
