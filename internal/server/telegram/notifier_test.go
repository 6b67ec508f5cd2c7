package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ruangpuisi/api/internal/server/config"
)

func newTestNotifier(t *testing.T, baseURL string) *Notifier {
	t.Helper()
	cfg := &config.Config{
		TelegramBotToken:   "bot-token",
		TelegramChatID:     "chat-42",
		TelegramAPIBaseURL: baseURL,
	}
	return NewNotifier(cfg, nil)
}

func TestSend_PostsSendMessage(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(t, srv.URL)
	if err := n.Send(context.Background(), "halo"); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotBody.ChatID != "chat-42" || gotBody.Text != "halo" || gotBody.ParseMode != "HTML" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}

func TestSend_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := newTestNotifier(t, srv.URL)
	if err := n.Send(context.Background(), "halo"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestSend_DisabledIsNoop(t *testing.T) {
	n := NewNotifier(&config.Config{}, nil)
	if n.Enabled() {
		t.Fatalf("notifier with empty credentials must be disabled")
	}
	if err := n.Send(context.Background(), "halo"); err != nil {
		t.Fatalf("disabled Send must be a no-op, got %v", err)
	}
	// SendAsync on a disabled notifier must not spawn anything that needs
	// the nil logger.
	n.SendAsync("halo")
}

func TestNewUserMessage_IncludesMeta(t *testing.T) {
	meta := RequestMeta{IP: "1.2.3.4", UserAgent: "Mozilla/5.0 (Windows NT 10.0) Chrome/120 Safari/537"}
	msg := NewUserMessage("Alice", "alice@example.com", meta)

	for _, want := range []string{"USER BARU DAFTAR", "Alice", "alice@example.com", "1.2.3.4", "Windows", "Chrome"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestNewPuisiMessage_TruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("a", 150)
	msg := NewPuisiMessage("Judul", long, "cinta", "Alice")

	if !strings.Contains(msg, strings.Repeat("a", 100)+"...") {
		t.Fatalf("excerpt not truncated:\n%s", msg)
	}
	if strings.Contains(msg, strings.Repeat("a", 101)) {
		t.Fatalf("excerpt too long:\n%s", msg)
	}
}

func TestNewPuisiMessage_TruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("é", 150)
	msg := NewPuisiMessage("Judul", long, "cinta", "Alice")

	if !utf8.ValidString(msg) {
		t.Fatalf("message is not valid UTF-8:\n%s", msg)
	}
	if !strings.Contains(msg, strings.Repeat("é", 100)+"...") {
		t.Fatalf("excerpt not truncated on rune boundary:\n%s", msg)
	}
	if strings.Contains(msg, strings.Repeat("é", 101)) {
		t.Fatalf("excerpt too long:\n%s", msg)
	}
}

func TestPlatform(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"Mozilla/5.0 (Linux; Android 14)", "Android"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)", "iOS"},
		{"Mozilla/5.0 (Windows NT 10.0)", "Windows"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X)", "MacOS"},
		{"Mozilla/5.0 (X11; Linux x86_64)", "Linux"},
		{"curl/8.0", "Unknown"},
	}
	for _, tt := range tests {
		if got := Platform(tt.ua); got != tt.want {
			t.Errorf("Platform(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}

func TestBrowser(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"... Chrome/120 Safari/537 Edge/120", "Edge"},
		{"... Chrome/120 Safari/537", "Chrome"},
		{"... Firefox/121", "Firefox"},
		{"... Version/17 Safari/605", "Safari"},
		{"curl/8.0", "Unknown"},
	}
	for _, tt := range tests {
		if got := Browser(tt.ua); got != tt.want {
			t.Errorf("Browser(%q) = %q, want %q", tt.ua, got, tt.want)
		}
	}
}
