package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"finrag/internal/app"
	"finrag/internal/scheduler"
	"finrag/internal/telegram"
)

func main() {
	a, err := app.New("bot")
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer func() { _ = a.Log.Sync() }()

	if a.Config.TelegramBotToken == "" {
		a.Log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	bot, err := telegram.New(a.Config.TelegramBotToken, a.Config.MessageParseMode, a.Services, a.Log.Named("telegram"))
	if err != nil {
		a.Log.Fatal("failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if spec := a.Config.DigestSchedule; spec != "" {
		chatID := a.Config.DigestChatID
		sched := scheduler.New(a.Log.Named("scheduler"))
		if err := sched.Add("persona-digest", spec, func(ctx context.Context) error {
			return bot.SendDigest(ctx, chatID)
		}); err != nil {
			a.Log.Fatal("failed to schedule digest", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
	}

	bot.Start(ctx)
}
