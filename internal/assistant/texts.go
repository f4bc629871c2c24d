package assistant

import "fmt"

// Texts shared by the user-facing surfaces.
const (
	Title = "Zalando Financial RAG Assistant"

	Intro = "Ask questions about Zalando’s financial data. The system will consider all chunks of text before answering."

	Disclaimer = "All data is drawn from internal or publicly available Zalando reports. " +
		"For official decisions, always consult the original statements. " +
		"This tool provides AI-generated information for reference purposes only."

	EmptyQuestionText = "Please enter a question."
)

// NoCorpusText is shown instead of the question forms when no records loaded.
func NoCorpusText(path string) string {
	return fmt.Sprintf("No preprocessed data found. Please ensure '%s' is present.", path)
}
