// Package mcpserver exposes the assistant as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"finrag/internal/assistant"
)

const (
	serverName    = "finrag-mcp"
	serverVersion = "1.0.0"
)

type AskParams struct {
	Question string `json:"question" mcp:"the question to answer from the financial reports"`
	Context  string `json:"context,omitempty" mcp:"optional context to use instead of the loaded reports"`
}

type SimulateParams struct {
	Persona string `json:"persona" mcp:"persona ID, see list_personas"`
}

type ListPersonasParams struct{}

type Tools struct {
	svc *assistant.Services
	log *zap.Logger
}

func NewTools(svc *assistant.Services, log *zap.Logger) *Tools {
	return &Tools{svc: svc, log: log}
}

// NewServer builds an MCP server with every assistant tool registered.
func NewServer(svc *assistant.Services, log *zap.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	tools := NewTools(svc, log)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_financial_question",
		Description: "Answers a question using only the loaded financial report text (or the supplied context)",
	}, tools.AskFinancialQuestion)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "simulate_persona_conversation",
		Description: "Generates questions a stakeholder persona would ask and answers each from the reports",
	}, tools.SimulatePersonaConversation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_personas",
		Description: "Lists the personas available for simulated conversations",
	}, tools.ListPersonas)

	log.Info("mcp tools registered", zap.Int("count", 3))
	return server
}

// NewSSEHandler serves server over HTTP server-sent events.
func NewSSEHandler(server *mcp.Server) http.Handler {
	return mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return server })
}

// RunStdio serves on stdin/stdout until ctx is done or the client disconnects.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, mcp.NewStdioTransport())
}

func (t *Tools) AskFinancialQuestion(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AskParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if strings.TrimSpace(args.Question) == "" {
		return errorResult(assistant.EmptyQuestionText), nil
	}

	t.log.Info("mcp ask", zap.String("question", args.Question), zap.Bool("context_override", args.Context != ""))

	res := t.svc.Engine.Ask(ctx, args.Question, args.Context)
	if errors.Is(res.Err, assistant.ErrNoData) {
		return errorResult(t.svc.NoCorpusText()), nil
	}

	return &mcp.CallToolResultFor[any]{
		IsError: !res.OK(),
		Content: []mcp.Content{
			&mcp.TextContent{Text: res.String()},
		},
		Meta: map[string]interface{}{
			"ok": res.OK(),
		},
	}, nil
}

func (t *Tools) SimulatePersonaConversation(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SimulateParams]) (*mcp.CallToolResultFor[any], error) {
	id := params.Arguments.Persona
	if _, err := t.svc.Catalog.Lookup(id); err != nil {
		return errorResult(fmt.Sprintf("%v. Available personas: %s", err, strings.Join(t.svc.Catalog.IDs(), ", "))), nil
	}
	if t.svc.Corpus.Empty() {
		return errorResult(t.svc.NoCorpusText()), nil
	}

	transcript, err := t.svc.Simulator.Simulate(ctx, id)
	if err != nil {
		return errorResult(fmt.Sprintf("Simulation failed: %v", err)), nil
	}

	var sb strings.Builder
	for i, turn := range transcript {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString("Question: ")
		sb.WriteString(turn.Question)
		sb.WriteString("\nResponse: ")
		sb.WriteString(turn.Answer)
		sb.WriteString("\n")
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
		Meta: map[string]interface{}{
			"persona": id,
			"turns":   len(transcript),
		},
	}, nil
}

func (t *Tools) ListPersonas(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListPersonasParams]) (*mcp.CallToolResultFor[any], error) {
	var sb strings.Builder
	for i := 0; i < t.svc.Catalog.Len(); i++ {
		p, _ := t.svc.Catalog.At(i)
		fmt.Fprintf(&sb, "%s: %s\n", p.ID, p.RoleDescription)
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
		Meta: map[string]interface{}{
			"personas": t.svc.Catalog.IDs(),
		},
	}, nil
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
