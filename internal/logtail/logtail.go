package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one slog text-handler line split into its fixed fields.
type Entry struct {
	Time    string
	Level   slog.Level
	Message string
	Attrs   string // remaining key=value pairs, verbatim
	Raw     string
	Parsed  bool
}

// Parse splits a line written by slog.TextHandler. Lines in any other
// format come back with Parsed false and the text in Message.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Message: line}
	rest := line

	value, rest, ok := cutField(rest, "time=")
	if !ok {
		return entry
	}
	entry.Time = value

	value, rest, ok = cutField(rest, "level=")
	if !ok {
		return entry
	}
	if err := entry.Level.UnmarshalText([]byte(value)); err != nil {
		return entry
	}

	value, rest, ok = cutField(rest, "msg=")
	if !ok {
		return entry
	}
	entry.Message = value
	entry.Attrs = strings.TrimSpace(rest)
	entry.Parsed = true
	return entry
}

// Filter keeps lines at or above min. Unparsed lines are kept so nothing
// written outside slog disappears.
func Filter(lines []string, min slog.Level) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		e := Parse(line)
		if e.Parsed && e.Level < min {
			continue
		}
		out = append(out, e)
	}
	return out
}

// cutField reads key=value from the start of s, where value is either a
// quoted Go string or runs to the next space.
func cutField(s, key string) (value, rest string, ok bool) {
	s = strings.TrimLeft(s, " ")
	if !strings.HasPrefix(s, key) {
		return "", s, false
	}
	s = s[len(key):]
	if strings.HasPrefix(s, `"`) {
		quoted, err := strconv.QuotedPrefix(s)
		if err != nil {
			return "", s, false
		}
		unquoted, err := strconv.Unquote(quoted)
		if err != nil {
			return "", s, false
		}
		return unquoted, s[len(quoted):], true
	}
	end := strings.IndexByte(s, ' ')
	if end < 0 {
		return s, "", true
	}
	return s[:end], s[end:], true
}
