package logtail

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestParse_SlogTextLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Warn("delete failed", "id", 5, "error", "connection refused")

	e := Parse(strings.TrimSpace(buf.String()))
	if !e.Parsed {
		t.Fatalf("Parse(%q) not parsed", buf.String())
	}
	if e.Level != slog.LevelWarn {
		t.Fatalf("Level = %v, want WARN", e.Level)
	}
	if e.Message != "delete failed" {
		t.Fatalf("Message = %q, want %q", e.Message, "delete failed")
	}
	if e.Attrs != `id=5 error="connection refused"` {
		t.Fatalf("Attrs = %q", e.Attrs)
	}
	if e.Time == "" {
		t.Fatalf("Time is empty")
	}
}

func TestParse_ForeignLine(t *testing.T) {
	e := Parse("panic: something odd")
	if e.Parsed {
		t.Fatalf("Parse marked a foreign line as parsed: %#v", e)
	}
	if e.Message != "panic: something odd" {
		t.Fatalf("Message = %q, want raw line", e.Message)
	}
}

func TestFilter_DropsBelowMinimum(t *testing.T) {
	lines := []string{
		`time=2026-01-02T10:00:00.000Z level=DEBUG msg="catalog api request" method=GET`,
		`time=2026-01-02T10:00:01.000Z level=INFO msg="catalog fetched" items=20`,
		`time=2026-01-02T10:00:02.000Z level=WARN msg="delete failed" id=5`,
		`stray output`,
	}
	got := Filter(lines, slog.LevelInfo)
	if len(got) != 3 {
		t.Fatalf("Filter kept %d entries, want 3: %#v", len(got), got)
	}
	if got[0].Message != "catalog fetched" || got[1].Level != slog.LevelWarn || got[2].Parsed {
		t.Fatalf("Filter = %#v", got)
	}
}
