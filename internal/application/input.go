package application

import (
	"strconv"
	"strings"

	"telegram-shop-bot/internal/domain"
)

// parseAmount parses a positive integer amount, tolerating thousands
// separators and locale punctuation ("12 500", "12,500", "12'500").
func parseAmount(s string) (int64, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case ' ', ' ', ' ', ',', '\'', '_':
			continue
		}
		b.WriteRune(r)
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, domain.ErrInvalidInput
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return n, nil
}

// parseRating parses a rating inside the closed 1–5 range.
func parseRating(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 5 {
		return 0, domain.ErrInvalidInput
	}
	return n, nil
}
