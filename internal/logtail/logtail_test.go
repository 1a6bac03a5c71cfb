package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
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
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Entry
	}{
		{
			name: "engine completion",
			line: `time="2026-10-19T09:12:01" level=info msg="engine call finished" cat=engine command="load beach" exit_code=0`,
			want: Entry{
				Time:  "2026-10-19T09:12:01",
				Level: "info",
				Cat:   "engine",
				Msg:   "engine call finished",
				Fields: []Field{
					{Key: "command", Value: "load beach"},
					{Key: "exit_code", Value: "0"},
				},
			},
		},
		{
			name: "escaped quote",
			line: `level=warning msg="skipping preset" cat=presets reason="name \"x\" bad"`,
			want: Entry{
				Level:  "warning",
				Cat:    "presets",
				Msg:    "skipping preset",
				Fields: []Field{{Key: "reason", Value: `name "x" bad`}},
			},
		},
		{
			name: "free text",
			line: "panic: something broke",
			want: Entry{Msg: "panic: something broke"},
		},
		{
			name: "unterminated quote",
			line: `level=info msg="oops`,
			want: Entry{Msg: `level=info msg="oops`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			tt.want.Raw = tt.line
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTail_FiltersLevelAndCategory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "wallshuffle.log")
	content := strings.Join([]string{
		`level=debug msg="blocking call" cat=control`,
		`level=info msg="engine call finished" cat=engine`,
		`level=warning msg="skipping preset" cat=presets`,
		`level=error msg="engine call failed" cat=engine`,
		`stray output`,
	}, "\n") + "\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	all, err := Tail(logPath, 0, "debug", "")
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("Tail(debug) = %d entries, want 5", len(all))
	}

	warn, err := Tail(logPath, 0, "warn", "")
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	var msgs []string
	for _, e := range warn {
		msgs = append(msgs, e.Msg)
	}
	want := []string{"skipping preset", "engine call failed", "stray output"}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("Tail(warn) msgs = %v, want %v", msgs, want)
	}

	engine, err := Tail(logPath, 3, "info", "engine")
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(engine) != 1 || engine[0].Level != "error" {
		t.Fatalf("Tail(last 3, engine) = %#v, want the one error", engine)
	}
}
