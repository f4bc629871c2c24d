package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"finrag/internal/assistant"
	"finrag/internal/corpus"
)

type Bot struct {
	api        *tgbotapi.BotAPI
	s          sender
	corpus     *corpus.Corpus
	corpusPath string
	engine     *assistant.Engine
	simulator  *assistant.Simulator
	catalog    *assistant.Catalog
	parseMode  string
	log        *zap.Logger
}

func New(botToken, parseMode string, svc *assistant.Services, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, eris.Wrap(err, "create telegram bot api")
	}
	return &Bot{
		api:        api,
		s:          botAPISender{api: api},
		corpus:     svc.Corpus,
		corpusPath: svc.CorpusPath,
		engine:     svc.Engine,
		simulator:  svc.Simulator,
		catalog:    svc.Catalog,
		parseMode:  parseMode,
		log:        log,
	}, nil
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("telegram bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleIncomingMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}
