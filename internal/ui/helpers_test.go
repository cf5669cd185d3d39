package ui

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/five82/kiosk/internal/catalog"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  padded  ", 10, "padded"},
		{"short", 10, "short"},
		{"Fjallraven Backpack", 10, "Fjallra..."},
		{"abcd", 2, "ab"},
		{"no limit", 0, "no limit"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	got := truncateMiddle("https://fakestoreapi.com/products", 12)
	if len([]rune(got)) != 12 {
		t.Fatalf("got %q (%d runes), want 12", got, len([]rune(got)))
	}
	if got[:3] != "htt" {
		t.Fatalf("truncateMiddle lost the prefix: %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"men's clothing": "Men's Clothing",
		"jewelery":       "Jewelery",
		"SNAKE_CASE":     "Snake Case",
		"":               "",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Fatalf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPriceAndRating(t *testing.T) {
	it := catalog.Item{ID: 1, Price: decimal.RequireFromString("109.9")}
	if got := formatPrice(it); got != "$109.90" {
		t.Fatalf("formatPrice = %q, want $109.90", got)
	}
	if got := formatRating(it); got != "-" {
		t.Fatalf("formatRating(nil) = %q, want -", got)
	}
	it.Rating = &catalog.Rating{Rate: decimal.RequireFromString("3.9"), Count: 120}
	if got := formatRating(it); got != "3.9★ (120)" {
		t.Fatalf("formatRating = %q", got)
	}
	it.Rating.Count = 0
	if got := formatRating(it); got != "3.9★" {
		t.Fatalf("formatRating without count = %q", got)
	}
}
