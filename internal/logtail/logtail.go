package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

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

// Entry is one decoded JSON log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	// Fields holds the remaining keys as key=value pairs, sorted by key.
	Fields []string
	// Raw is the original line, kept for lines that are not JSON.
	Raw string
}

// Parse decodes a JSON log line. Lines that are not JSON objects come back
// with only Raw set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return entry
	}

	if v, ok := obj["time"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			entry.Time = ts
		}
	}
	entry.Level, _ = obj["level"].(string)
	entry.Message, _ = obj["message"].(string)
	delete(obj, "time")
	delete(obj, "level")
	delete(obj, "message")

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entry.Fields = append(entry.Fields, fmt.Sprintf("%s=%v", k, obj[k]))
	}
	return entry
}

// Structured reports whether the line was decoded as JSON.
func (e Entry) Structured() bool {
	return e.Level != "" || e.Message != "" || !e.Time.IsZero()
}

// String renders the entry as "15:04:05 INF message key=value".
func (e Entry) String() string {
	if !e.Structured() {
		return e.Raw
	}
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, e.Time.Local().Format("15:04:05"))
	}
	parts = append(parts, LevelTag(e.Level))
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	parts = append(parts, e.Fields...)
	return strings.Join(parts, " ")
}

// LevelTag returns the three-letter tag for a zerolog level name.
func LevelTag(level string) string {
	switch strings.ToLower(level) {
	case "trace":
		return "TRC"
	case "debug":
		return "DBG"
	case "info":
		return "INF"
	case "warn":
		return "WRN"
	case "error":
		return "ERR"
	case "fatal":
		return "FTL"
	case "panic":
		return "PNC"
	default:
		return "???"
	}
}
