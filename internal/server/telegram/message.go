package telegram

import (
	"fmt"
	"strings"
	"time"
)

// RequestMeta captures coarse client information included in the new-user
// notification text.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// NewUserMessage builds the notification sent when a user registers.
func NewUserMessage(nama, email string, meta RequestMeta) string {
	now := time.Now().Format("02-01-2006 15:04:05")
	return fmt.Sprintf(`USER BARU DAFTAR

Nama: %s
Email: %s
IP: %s
Device: %s
Browser: %s
Waktu: %s`,
		nama, email, meta.IP, Platform(meta.UserAgent), Browser(meta.UserAgent), now)
}

// NewPuisiMessage builds the notification sent when a poem is published.
func NewPuisiMessage(judul, konten, kategori, penulisNama string) string {
	// truncate on runes, not bytes, so a multibyte character is never
	// split mid-sequence
	excerpt := konten
	if r := []rune(excerpt); len(r) > 100 {
		excerpt = string(r[:100]) + "..."
	}
	return fmt.Sprintf(`PUISI BARU DITAMBAHKAN

Judul: %s
Oleh: %s
Kategori: %s

%s`,
		judul, penulisNama, kategori, excerpt)
}

// Platform guesses the client OS from a User-Agent string.
func Platform(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Android"):
		return "Android"
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		return "iOS"
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	case strings.Contains(userAgent, "Mac"):
		return "MacOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	default:
		return "Unknown"
	}
}

// Browser guesses the client browser from a User-Agent string. Order
// matters: Chrome and Edge both advertise Safari.
func Browser(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Edge"):
		return "Edge"
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	default:
		return "Unknown"
	}
}
