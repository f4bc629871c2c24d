package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"finrag/internal/app"
	"finrag/internal/mcpserver"
)

// Logs go to stderr; stdout carries the MCP protocol.
func main() {
	a, err := app.New("mcp")
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer func() { _ = a.Log.Sync() }()

	server := mcpserver.NewServer(a.Services, a.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Log.Info("serving on stdin/stdout")
	if err := mcpserver.RunStdio(ctx, server); err != nil && ctx.Err() == nil {
		a.Log.Fatal("mcp server failed", zap.Error(err))
	}
}
