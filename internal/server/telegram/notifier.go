// Package telegram pushes best-effort notifications to a Telegram chat via
// the Bot API. Delivery is fire-and-forget: failures are logged and dropped,
// never retried, and never surfaced to the request that triggered them.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ruangpuisi/api/internal/logging"
	"github.com/ruangpuisi/api/internal/server/config"
)

const sendTimeout = 10 * time.Second

type Notifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   logging.Logger
}

func NewNotifier(cfg *config.Config, logger logging.Logger) *Notifier {
	return &Notifier{
		botToken: cfg.TelegramBotToken,
		chatID:   cfg.TelegramChatID,
		baseURL:  strings.TrimRight(cfg.TelegramAPIBaseURL, "/"),
		client:   &http.Client{Timeout: sendTimeout},
		logger:   logger,
	}
}

// Enabled reports whether notification credentials are configured.
func (n *Notifier) Enabled() bool {
	return n.botToken != "" && n.chatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send posts a sendMessage call to the Bot API. Unset credentials make it a
// no-op. The returned error exists for tests; production callers go through
// SendAsync and only ever see a log line.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: n.chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// SendAsync delivers the message on its own goroutine, detached from the
// caller's request context so a slow Bot API never blocks a response.
func (n *Notifier) SendAsync(text string) {
	if !n.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := n.Send(ctx, text); err != nil {
			n.logger.Warn(ctx, "telegram notification failed", "error", err.Error())
		}
	}()
}
