package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// GeneratePublicLink builds the public review path for a schedule from the
// client's display name plus month and year, e.g. "acme-coffee/3/2026".
// The result is computed once at schedule creation and stored, so renaming
// a client never breaks links that were already shared.
func GeneratePublicLink(clientName string, month, year int) string {
	slug := whitespaceRun.ReplaceAllString(strings.ToLower(clientName), "-")
	return fmt.Sprintf("%s/%d/%d", slug, month, year)
}

// monthNames holds the display names used across the portal (pt-BR).
var monthNames = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the display name for a 1-based month, or an empty
// string when the month is out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}
