package telegram

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SendDigest simulates every persona in catalog order and posts the
// transcripts to chatID. It is the job behind DIGEST_SCHEDULE.
func (b *Bot) SendDigest(ctx context.Context, chatID int64) error {
	if b.corpus.Empty() {
		return eris.New("digest skipped: corpus is empty")
	}

	b.sendMessage(chatID, b.bold("Persona digest")+" "+b.escapeIfNeeded(time.Now().UTC().Format("2006-01-02")))
	for i := 0; i < b.catalog.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "digest interrupted")
		}
		p, _ := b.catalog.At(i)
		b.runSimulation(ctx, chatID, p.ID)
	}
	b.log.Info("digest sent", zap.Int64("chat_id", chatID), zap.Int("personas", b.catalog.Len()))
	return nil
}
