package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"finrag/internal/assistant"
)

type pageData struct {
	Title      string
	Intro      string
	Disclaimer string
	NoData     string
	Personas   []string

	Question string
	Warning  string
	Answer   string

	Persona    string
	Error      string
	Transcript assistant.Transcript
}

type askRequest struct {
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
}

type askResponse struct {
	Answer string `json:"answer"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

type simulateRequest struct {
	Persona string `json:"persona"`
}

type simulateResponse struct {
	Persona    string               `json:"persona"`
	Transcript assistant.Transcript `json:"transcript"`
}

type personaResponse struct {
	ID              string `json:"id"`
	RoleDescription string `json:"role_description"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) newPage() pageData {
	p := pageData{
		Title:      assistant.Title,
		Intro:      assistant.Intro,
		Disclaimer: assistant.Disclaimer,
		Personas:   s.svc.Catalog.IDs(),
	}
	if s.svc.Corpus.Empty() {
		p.NoData = s.svc.NoCorpusText()
	}
	return p
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.newPage())
}

func (s *Server) askFormHandler(w http.ResponseWriter, r *http.Request) {
	page := s.newPage()
	page.Question = r.FormValue("question")

	switch {
	case page.NoData != "":
	case strings.TrimSpace(page.Question) == "":
		page.Warning = assistant.EmptyQuestionText
	default:
		page.Answer = s.svc.Engine.Answer(r.Context(), page.Question, "")
	}
	s.renderPage(w, http.StatusOK, page)
}

func (s *Server) simulateFormHandler(w http.ResponseWriter, r *http.Request) {
	page := s.newPage()
	page.Persona = r.FormValue("persona")
	if page.NoData != "" {
		s.renderPage(w, http.StatusOK, page)
		return
	}

	transcript, err := s.svc.Simulator.Simulate(r.Context(), page.Persona)
	if err != nil {
		page.Error = err.Error()
		s.renderPage(w, simulateStatus(err), page)
		return
	}
	page.Transcript = transcript
	s.renderPage(w, http.StatusOK, page)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"records": s.svc.Corpus.Len(),
	})
}

func (s *Server) personasHandler(w http.ResponseWriter, r *http.Request) {
	out := make([]personaResponse, 0, s.svc.Catalog.Len())
	for i := 0; i < s.svc.Catalog.Len(); i++ {
		p, _ := s.svc.Catalog.At(i)
		out = append(out, personaResponse{ID: p.ID, RoleDescription: p.RoleDescription})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) askHandler(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON format"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: assistant.EmptyQuestionText})
		return
	}

	res := s.svc.Engine.Ask(r.Context(), req.Question, req.Context)
	resp := askResponse{Answer: res.String(), OK: res.OK()}
	switch {
	case res.OK():
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(res.Err, assistant.ErrNoData):
		resp.Answer = ""
		resp.Error = s.svc.NoCorpusText()
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		resp.Error = res.Err.Error()
		writeJSON(w, http.StatusBadGateway, resp)
	}
}

func (s *Server) simulateHandler(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON format"})
		return
	}
	if strings.TrimSpace(req.Persona) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "persona is required"})
		return
	}
	if _, err := s.svc.Catalog.Lookup(req.Persona); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if s.svc.Corpus.Empty() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: s.svc.NoCorpusText()})
		return
	}

	transcript, err := s.svc.Simulator.Simulate(r.Context(), req.Persona)
	if err != nil {
		writeJSON(w, simulateStatus(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, simulateResponse{Persona: req.Persona, Transcript: transcript})
}

func simulateStatus(err error) int {
	if errors.Is(err, assistant.ErrUnknownPersona) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.log.Error("render page", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
