package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is Telegram's limit for a single text message.
const maxMessageLen = 4096

// Notifier posts HTML messages to a single Telegram chat.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	return NewWithEndpoint(token, chatID, tgbotapi.APIEndpoint, http.DefaultClient)
}

// NewWithEndpoint lets callers point the bot at a different Bot API server.
func NewWithEndpoint(token string, chatID int64, endpoint string, client tgbotapi.HTTPClient) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	slog.Info("Telegram notifier authorized", "account", api.Self.UserName, "chat_id", chatID)

	return &Notifier{api: api, chatID: chatID}, nil
}

// Send delivers text to the configured chat, splitting it when it is too long.
func (n *Notifier) Send(ctx context.Context, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(n.chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if _, err := n.api.Send(msg); err != nil {
			return fmt.Errorf("send to chat %d: %w", n.chatID, err)
		}
	}
	return nil
}

// splitMessage cuts text on line boundaries into chunks of at most limit bytes.
// A single line longer than limit is cut at a rune boundary.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if chunk := strings.TrimRight(current.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			cut := safeCut(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return chunks
}

// safeCut returns where to cut line so the first part fits in limit bytes and
// ends neither inside a rune nor inside an HTML tag or entity.
func safeCut(line string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	head := line[:cut]
	markup := cut
	if open := strings.LastIndexByte(head, '<'); open > strings.LastIndexByte(head, '>') {
		markup = open
	}
	if amp := strings.LastIndexByte(head[:markup], '&'); amp > strings.LastIndexByte(head[:markup], ';') {
		markup = amp
	}
	if markup == 0 {
		// A single tag or entity longer than limit; a rune cut is all we can do.
		return cut
	}
	return markup
}
