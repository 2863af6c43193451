package notifier

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"RiskSentinel/internal/platform/httpclient"
)

// maxMessageLen stays under Telegram's 4096 character limit per message.
const maxMessageLen = 4000

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BaseURL  string
	BotToken string
	ChatID   string
	Client   *httpclient.Client
}

// NewTelegramNotifier creates a notifier sending through client.
func NewTelegramNotifier(botToken, chatID string, client *httpclient.Client) *TelegramNotifier {
	return &TelegramNotifier{
		BaseURL:  "https://api.telegram.org",
		BotToken: botToken,
		ChatID:   chatID,
		Client:   client,
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

// Notify sends text to the configured chat, split into several messages when
// it is too long for one. Retries are handled by the HTTP client.
func (t *TelegramNotifier) Notify(ctx context.Context, text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	for _, part := range split(text, maxMessageLen) {
		payload := map[string]string{
			"chat_id": t.ChatID,
			"text":    part,
		}
		if _, err := t.Client.PostJSON(ctx, apiURL, nil, payload); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

// split cuts text at line boundaries into chunks of at most n bytes. A single
// longer line is cut hard, on a rune boundary.
func split(text string, n int) []string {
	if len(text) <= n {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > n {
			flush()
			cut := n
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = n
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > n {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return parts
}
