package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
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
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","imsi":"001","failures":2,"time":"2025-10-08T21:01:05Z","message":"subscriber fetch failed"}`

	e := Parse(line)
	if !e.Structured() {
		t.Fatalf("Structured() = false, want true")
	}
	if e.Level != "warn" || e.Message != "subscriber fetch failed" {
		t.Fatalf("Parse() = %#v, want warn/subscriber fetch failed", e)
	}
	want := time.Date(2025, 10, 8, 21, 1, 5, 0, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
	if !reflect.DeepEqual(e.Fields, []string{"failures=2", "imsi=001"}) {
		t.Fatalf("Fields = %v, want sorted key=value pairs", e.Fields)
	}

	got := e.String()
	if !strings.Contains(got, "WRN subscriber fetch failed failures=2 imsi=001") {
		t.Fatalf("String() = %q, want level tag, message and fields", got)
	}
}

func TestParse_PlainLine(t *testing.T) {
	tests := []string{"", "   ", "plain text", "{not json"}
	for _, line := range tests {
		e := Parse(line)
		if e.Structured() {
			t.Fatalf("Parse(%q).Structured() = true, want false", line)
		}
		if e.String() != line {
			t.Fatalf("Parse(%q).String() = %q, want unchanged", line, e.String())
		}
	}
}

func TestLevelTag(t *testing.T) {
	tests := map[string]string{
		"debug": "DBG",
		"INFO":  "INF",
		"warn":  "WRN",
		"error": "ERR",
		"":      "???",
	}
	for in, want := range tests {
		if got := LevelTag(in); got != want {
			t.Errorf("LevelTag(%q) = %q, want %q", in, got, want)
		}
	}
}
