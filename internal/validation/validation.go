// Package validation contains pure input checks and sanitization used by the
// services before anything reaches the store.
package validation

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	MaxNamaLength   = 50
	MaxBioLength    = 500
	MaxJudulLength  = 100
	MaxKontenLength = 5000

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Kategori values form a closed set.
var Kategori = []string{"cinta", "alam", "kehidupan", "lainnya"}

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email matches a conservative local@domain.tld
// shape. Exotic but RFC-valid addresses are deliberately rejected.
func ValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// ValidPassword enforces the password policy: at least 6 characters with at
// least one letter and one digit. The same policy applies to registration
// and password changes.
func ValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// ValidKategori reports whether kategori is one of the known categories.
func ValidKategori(kategori string) bool {
	for _, k := range Kategori {
		if k == kategori {
			return true
		}
	}
	return false
}

// ValidURL reports whether raw parses as an absolute http(s) URL.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var sanitizer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeText trims the input and escapes the five HTML-significant
// characters so user-supplied text is inert when later rendered as markup.
func SanitizeText(text string) string {
	return sanitizer.Replace(strings.TrimSpace(text))
}

// Pagination holds validated page/limit values.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination validates the page and limit query parameters. Absent or
// non-numeric values fall back to the defaults (page=1, limit=10); numeric
// values outside the documented bounds (page >= 1, 1 <= limit <= 100) are
// rejected.
func ParsePagination(pageRaw, limitRaw string) (Pagination, bool) {
	p := Pagination{Page: DefaultPage, Limit: DefaultLimit}

	if pageRaw != "" {
		if n, err := strconv.Atoi(pageRaw); err == nil {
			p.Page = n
		}
	}
	if limitRaw != "" {
		if n, err := strconv.Atoi(limitRaw); err == nil {
			p.Limit = n
		}
	}

	if p.Page < 1 || p.Limit < 1 || p.Limit > MaxLimit {
		return p, false
	}
	return p, true
}
