package telegram

import (
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxMessageLen = 4096

func (b *Bot) parseModeValue() string {
	switch strings.ToLower(b.parseMode) {
	case "html":
		return tgbotapi.ModeHTML
	case "markdown":
		return tgbotapi.ModeMarkdown
	case "markdownv2":
		return tgbotapi.ModeMarkdownV2
	default:
		return ""
	}
}

// escapeIfNeeded makes s safe to embed in a message with the bot's parse mode.
func (b *Bot) escapeIfNeeded(s string) string {
	switch mode := b.parseModeValue(); mode {
	case tgbotapi.ModeHTML:
		return html.EscapeString(s)
	case tgbotapi.ModeMarkdown, tgbotapi.ModeMarkdownV2:
		return tgbotapi.EscapeText(mode, s)
	default:
		return s
	}
}

// bold expects s to be escaped already.
func (b *Bot) bold(s string) string {
	switch b.parseModeValue() {
	case tgbotapi.ModeHTML:
		return "<b>" + s + "</b>"
	case tgbotapi.ModeMarkdown, tgbotapi.ModeMarkdownV2:
		return "*" + s + "*"
	default:
		return s
	}
}

// splitMessage cuts text into chunks of at most limit runes, preferring line
// and word boundaries. A cut never lands inside an HTML entity or tag, nor
// right after a Markdown escape.
func splitMessage(text string, limit int) []string {
	r := []rune(text)
	if len(r) <= limit {
		return []string{text}
	}

	var parts []string
	for len(r) > limit {
		cut := limit
		if i := lastIndex(r[:limit], '\n'); i >= limit/2 {
			cut = i + 1
		} else if i := lastIndex(r[:limit], ' '); i >= limit/2 {
			cut = i + 1
		}
		cut = safeCut(r, cut)

		if chunk := string(r[:cut]); strings.TrimSpace(chunk) != "" {
			parts = append(parts, chunk)
		}
		r = r[cut:]
	}
	if rest := string(r); strings.TrimSpace(rest) != "" {
		parts = append(parts, rest)
	}
	return parts
}

// safeCut moves cut back to the start of an unterminated entity or tag, or
// before a dangling escape character.
func safeCut(r []rune, cut int) int {
	const lookback = 12
scan:
	for i := cut - 1; i >= 0 && i >= cut-lookback; i-- {
		switch r[i] {
		case ';', '>':
			break scan
		case '&', '<':
			if i > 0 {
				return i
			}
			break scan
		}
	}
	if cut > 1 && r[cut-1] == '\\' {
		return cut - 1
	}
	return cut
}

func lastIndex(r []rune, target rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == target {
			return i
		}
	}
	return -1
}
