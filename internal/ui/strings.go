package ui

import (
	"strconv"
	"strings"

	"github.com/five82/kiosk/internal/catalog"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle keeps both ends of a long value such as a URL or path.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	suffix := keep * 2 / 3
	prefix := keep - suffix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}

// titleCase upper-cases the first letter of each space or underscore separated word.
func titleCase(value string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(value), func(r rune) bool {
		return r == '_' || r == ' '
	})
	for i, f := range fields {
		lower := strings.ToLower(f)
		fields[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(fields, " ")
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

func formatPrice(it catalog.Item) string {
	return "$" + it.Price.StringFixed(2)
}

// formatRating renders "3.9★ (120)" or a dash when the item has no rating.
func formatRating(it catalog.Item) string {
	if it.Rating == nil {
		return "-"
	}
	out := it.Rating.Rate.StringFixed(1) + "★"
	if it.Rating.Count > 0 {
		out += " (" + strconv.Itoa(it.Rating.Count) + ")"
	}
	return out
}
