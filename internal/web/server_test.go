package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finrag/internal/assistant"
	"finrag/internal/corpus"
	"finrag/internal/llm"
)

type fakeLLM struct {
	mu        sync.Mutex
	questions string
	answer    string
	err       error
	reqs      []llm.Request
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return llm.Response{}, f.err
	}
	if req.SystemInstruction != assistant.GroundingInstruction {
		return llm.Response{Content: f.questions}, nil
	}
	return llm.Response{Content: f.answer}, nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func newTestServer(c *corpus.Corpus, client llm.Client, opts Options) http.Handler {
	svc := assistant.NewServices(c, "preprocessed_data.json", client, 1, zap.NewNop())
	return NewServer(svc, opts, zap.NewNop()).Handler()
}

func loaded() *corpus.Corpus {
	return corpus.New(corpus.Record{Text: "Revenue grew 3.5%."}, corpus.Record{Text: "Adjusted EBIT EUR 76m."})
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(h http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	return do(h, http.MethodPost, target, "application/x-www-form-urlencoded", values.Encode())
}

func postJSON(h http.Handler, target, body string) *httptest.ResponseRecorder {
	return do(h, http.MethodPost, target, "application/json", body)
}

func TestIndex(t *testing.T) {
	h := newTestServer(loaded(), &fakeLLM{}, Options{})

	rec := do(h, http.MethodGet, "/", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Zalando Financial RAG Assistant")
	assert.Contains(t, body, `action="/ask"`)
	assert.Contains(t, body, `<option value="Strategy Manager"`)
	assert.Contains(t, body, "reference purposes only")
	assert.NotContains(t, body, "No preprocessed data found")
}

func TestIndex_EmptyCorpus(t *testing.T) {
	h := newTestServer(corpus.New(), &fakeLLM{}, Options{})

	rec := do(h, http.MethodGet, "/", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No preprocessed data found. Please ensure &#39;preprocessed_data.json&#39; is present.")
	assert.NotContains(t, body, `action="/ask"`)
}

func TestAskForm(t *testing.T) {
	client := &fakeLLM{answer: "Revenue <b>grew</b>"}
	h := newTestServer(loaded(), client, Options{})

	rec := postForm(h, "/ask", url.Values{"question": {"How did revenue develop?"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Answer:</strong><br>Revenue &lt;b&gt;grew&lt;/b&gt;")
	assert.Contains(t, body, `value="How did revenue develop?"`)
	require.Equal(t, 1, client.calls())
	assert.Equal(t, "Context:\nRevenue grew 3.5%.\n\nAdjusted EBIT EUR 76m.\n\nQuestion: How did revenue develop?", client.reqs[0].UserMessage)
}

func TestAskForm_BlankQuestion(t *testing.T) {
	client := &fakeLLM{answer: "x"}
	h := newTestServer(loaded(), client, Options{})

	rec := postForm(h, "/ask", url.Values{"question": {"   "}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a question.")
	assert.Zero(t, client.calls())
}

func TestSimulateForm(t *testing.T) {
	client := &fakeLLM{questions: "Q1?\nQ2?", answer: "A"}
	h := newTestServer(loaded(), client, Options{})

	rec := postForm(h, "/simulate", url.Values{"persona": {"Marketing Specialist"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, `<div class="turn">`))
	assert.Less(t, strings.Index(body, "Q1?"), strings.Index(body, "Q2?"))
	assert.Contains(t, body, `<option value="Marketing Specialist" selected>`)
}

func TestSimulateForm_UnknownPersona(t *testing.T) {
	client := &fakeLLM{}
	h := newTestServer(loaded(), client, Options{})

	rec := postForm(h, "/simulate", url.Values{"persona": {"CFO"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown persona")
	assert.Zero(t, client.calls())
}

func TestAPIAsk(t *testing.T) {
	h := newTestServer(loaded(), &fakeLLM{answer: "EUR 2.4bn"}, Options{})

	rec := postJSON(h, "/api/ask", `{"question":"What was GMV?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp askResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, askResponse{Answer: "EUR 2.4bn", OK: true}, resp)
}

func TestAPIAsk_ContextOverride(t *testing.T) {
	client := &fakeLLM{answer: "ok"}
	h := newTestServer(corpus.New(), client, Options{})

	rec := postJSON(h, "/api/ask", `{"question":"q","context":"supplied"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, client.calls())
	assert.Equal(t, "Context:\nsupplied\n\nQuestion: q", client.reqs[0].UserMessage)
}

func TestAPIAsk_Errors(t *testing.T) {
	cases := []struct {
		name   string
		corpus *corpus.Corpus
		client *fakeLLM
		body   string
		status int
		substr string
	}{
		{"bad json", loaded(), &fakeLLM{}, `{"question":`, http.StatusBadRequest, "Invalid JSON format"},
		{"blank question", loaded(), &fakeLLM{}, `{"question":"  "}`, http.StatusBadRequest, "Please enter a question."},
		{"empty corpus", corpus.New(), &fakeLLM{}, `{"question":"q"}`, http.StatusServiceUnavailable, "No preprocessed data found."},
		{
			"provider failure", loaded(),
			&fakeLLM{err: &llm.ProviderError{Provider: llm.ProviderOpenAI, Cause: errors.New("invalid api key")}},
			`{"question":"q"}`, http.StatusBadGateway, "Error calling OpenAI API: invalid api key",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestServer(tc.corpus, tc.client, Options{})
			rec := postJSON(h, "/api/ask", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.substr)
		})
	}
}

func TestAPISimulate(t *testing.T) {
	client := &fakeLLM{questions: "Q1?\n\nQ2?\nQ3?", answer: "A"}
	h := newTestServer(loaded(), client, Options{})

	rec := postJSON(h, "/api/simulate", `{"persona":"Financial Analyst"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp simulateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Financial Analyst", resp.Persona)
	assert.Equal(t, assistant.Transcript{
		{Question: "Q1?", Answer: "A"},
		{Question: "Q2?", Answer: "A"},
		{Question: "Q3?", Answer: "A"},
	}, resp.Transcript)
}

func TestAPISimulate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		corpus *corpus.Corpus
		body   string
		status int
	}{
		{"bad json", loaded(), `nope`, http.StatusBadRequest},
		{"missing persona", loaded(), `{}`, http.StatusBadRequest},
		{"unknown persona", loaded(), `{"persona":"CFO"}`, http.StatusNotFound},
		{"empty corpus", corpus.New(), `{"persona":"Financial Analyst"}`, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeLLM{}
			h := newTestServer(tc.corpus, client, Options{})
			rec := postJSON(h, "/api/simulate", tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Zero(t, client.calls())
		})
	}
}

func TestAPIPersonas(t *testing.T) {
	h := newTestServer(loaded(), &fakeLLM{}, Options{})

	rec := do(h, http.MethodGet, "/api/personas", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []personaResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 3)
	assert.Equal(t, "Financial Analyst", resp[0].ID)
	assert.Contains(t, resp[0].RoleDescription, "financial analyst at Zalando")
}

func TestHealth(t *testing.T) {
	h := newTestServer(loaded(), &fakeLLM{}, Options{})

	rec := do(h, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","records":2}`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(loaded(), &fakeLLM{}, Options{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/ask"},
		{http.MethodGet, "/api/simulate"},
		{http.MethodPost, "/api/personas"},
		{http.MethodGet, "/ask"},
	} {
		rec := do(h, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := do(h, http.MethodGet, "/api/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	h := newTestServer(loaded(), &fakeLLM{}, Options{CORSOrigins: []string{"https://reports.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://reports.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://reports.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMCPMount(t *testing.T) {
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := newTestServer(loaded(), &fakeLLM{}, Options{MCP: mcp})

	rec := do(h, http.MethodGet, "/mcp", "", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
