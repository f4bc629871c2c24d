package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"finrag/internal/assistant"
)

const simulatePrefix = "sim:"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		b.sendMessage(chatID, b.helpText())
	case "personas":
		b.sendMessage(chatID, b.personasText())
	case "simulate":
		id := strings.TrimSpace(msg.CommandArguments())
		if id == "" {
			b.sendPersonaKeyboard(chatID, "Choose a persona for the simulation:")
			return
		}
		if _, err := b.catalog.Lookup(id); err != nil {
			b.sendPersonaKeyboard(chatID, "Unknown persona "+strconv.Quote(id)+". Choose one of:")
			return
		}
		b.runSimulation(ctx, chatID, id)
	default:
		b.sendMessage(chatID, b.escapeIfNeeded("Unknown command. Use /help to see what I can do."))
	}
}

// handleIncomingMessage answers free text against the whole corpus.
func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if strings.TrimSpace(msg.Text) == "" {
		b.sendMessage(chatID, b.escapeIfNeeded(assistant.EmptyQuestionText))
		return
	}
	if b.corpus.Empty() {
		b.sendMessage(chatID, b.escapeIfNeeded(assistant.NoCorpusText(b.corpusPath)))
		return
	}

	b.log.Info("question received", zap.Int64("chat_id", chatID), zap.String("from", userName(msg.From)))
	b.sendTyping(chatID)

	answer := b.engine.Answer(ctx, msg.Text, "")
	b.sendMessage(chatID, b.bold("Answer:")+"\n"+b.escapeIfNeeded(answer))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("failed to answer callback", zap.Error(err))
	}
	if cb.Message == nil || !strings.HasPrefix(cb.Data, simulatePrefix) {
		return
	}
	chatID := cb.Message.Chat.ID

	idx, err := strconv.Atoi(strings.TrimPrefix(cb.Data, simulatePrefix))
	if err != nil {
		b.log.Warn("malformed callback data", zap.String("data", cb.Data))
		return
	}
	p, ok := b.catalog.At(idx)
	if !ok {
		b.sendPersonaKeyboard(chatID, "That persona is no longer available. Choose one of:")
		return
	}
	b.runSimulation(ctx, chatID, p.ID)
}

// runSimulation sends a header followed by one message per turn.
func (b *Bot) runSimulation(ctx context.Context, chatID int64, personaID string) {
	if b.corpus.Empty() {
		b.sendMessage(chatID, b.escapeIfNeeded(assistant.NoCorpusText(b.corpusPath)))
		return
	}

	b.sendMessage(chatID, b.escapeIfNeeded("Simulating conversation as ")+b.bold(b.escapeIfNeeded(personaID)))
	b.sendTyping(chatID)

	transcript, err := b.simulator.Simulate(ctx, personaID)
	if err != nil {
		b.log.Error("simulation failed", zap.Int64("chat_id", chatID), zap.String("persona", personaID), zap.Error(err))
		b.sendMessage(chatID, b.escapeIfNeeded("Simulation failed: "+err.Error()))
		return
	}
	for _, turn := range transcript {
		b.sendMessage(chatID, b.formatTurn(turn))
	}
}

func (b *Bot) formatTurn(turn assistant.Turn) string {
	return b.bold("Question:") + " " + b.escapeIfNeeded(turn.Question) + "\n\n" +
		b.bold("Response:") + " " + b.escapeIfNeeded(turn.Answer)
}

func (b *Bot) helpText() string {
	var sb strings.Builder
	sb.WriteString(b.bold(b.escapeIfNeeded(assistant.Title)))
	sb.WriteString("\n\n")
	sb.WriteString(b.escapeIfNeeded(assistant.Intro))
	sb.WriteString("\n\n")
	sb.WriteString(b.escapeIfNeeded("Send a question as a plain message. /simulate lets a persona interview the reports, /personas lists them."))
	if b.corpus.Empty() {
		sb.WriteString("\n\n")
		sb.WriteString(b.escapeIfNeeded(assistant.NoCorpusText(b.corpusPath)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(b.bold("Disclaimer"))
	sb.WriteString("\n")
	sb.WriteString(b.escapeIfNeeded(assistant.Disclaimer))
	return sb.String()
}

func (b *Bot) personasText() string {
	var sb strings.Builder
	sb.WriteString(b.bold("Personas"))
	for i := 0; i < b.catalog.Len(); i++ {
		p, _ := b.catalog.At(i)
		sb.WriteString("\n\n")
		sb.WriteString(b.bold(b.escapeIfNeeded(p.ID)))
		sb.WriteString("\n")
		sb.WriteString(b.escapeIfNeeded(p.RoleDescription))
	}
	return sb.String()
}

func (b *Bot) personaKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, b.catalog.Len())
	for i := 0; i < b.catalog.Len(); i++ {
		p, _ := b.catalog.At(i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.ID, simulatePrefix+strconv.Itoa(i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendPersonaKeyboard(chatID int64, prompt string) {
	msg := tgbotapi.NewMessage(chatID, b.escapeIfNeeded(prompt))
	msg.ParseMode = b.parseModeValue()
	msg.ReplyMarkup = b.personaKeyboard()
	if _, err := b.s.Send(msg); err != nil {
		b.log.Warn("failed to send persona keyboard", zap.Error(err))
	}
}

func (b *Bot) sendTyping(chatID int64) {
	if _, err := b.s.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug("failed to send chat action", zap.Error(err))
	}
}

// sendMessage sends text in as many messages as Telegram's length limit needs.
func (b *Bot) sendMessage(chatID int64, text string) {
	for _, part := range splitMessage(text, maxMessageLen) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = b.parseModeValue()
		msg.DisableWebPagePreview = true
		if _, err := b.s.Send(msg); err != nil {
			b.log.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}

func userName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return strconv.FormatInt(u.ID, 10)
}
