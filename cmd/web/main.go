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
	"finrag/internal/web"
)

func main() {
	a, err := app.New("web")
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer func() { _ = a.Log.Sync() }()

	mcp := mcpserver.NewServer(a.Services, a.Log.Named("mcp"))
	server := web.NewServer(a.Services, web.Options{
		CORSOrigins: a.Config.CORSOrigins,
		MCP:         mcpserver.NewSSEHandler(mcp),
	}, a.Log.Named("http"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, a.Config.HTTPAddr); err != nil {
		a.Log.Fatal("http server failed", zap.Error(err))
	}
}
