package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ImalAyodya/atlas/pkg/domain"
)

// formatTime renders a relative timestamp for favorites displays.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatPopulation renders a population count compactly: 1.4B, 67.8M, 512.3k.
func formatPopulation(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// formatArea renders a surface area in km² with thousands grouping.
func formatArea(a float64) string {
	whole := int64(a)
	s := fmt.Sprintf("%d", whole)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",") + " km²"
}

// currencyLine renders a country's currencies as "Euro (€), Krone (kr)",
// ordered by code for stable output.
func currencyLine(currencies map[string]domain.Currency) string {
	if len(currencies) == 0 {
		return ""
	}
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		c := currencies[code]
		if c.Symbol != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", c.Name, c.Symbol))
		} else {
			parts = append(parts, c.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// languageLine renders a country's languages as a sorted comma list.
func languageLine(languages map[string]string) string {
	if len(languages) == 0 {
		return ""
	}
	names := make([]string, 0, len(languages))
	for _, name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
