package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLogger(level LogLevel) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	l := NewLogger("test", level, "")
	l.NoColor = true

	var out, errOut bytes.Buffer
	l.SetOutput(&out, &errOut)

	return l, &out, &errOut
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, out, _ := newTestLogger(Info)

	l.Debug("hidden")
	if out.Len() != 0 {
		t.Errorf("debug line should be filtered at info level: %q", out.String())
	}

	l.Info("visible")
	if out.String() != "visible\n" {
		t.Errorf("expected bare message line, got %q", out.String())
	}
}

func TestLogger_ErrorStreamAndPrefix(t *testing.T) {
	l, out, errOut := newTestLogger(Debug)

	l.Error("something broke")
	if out.Len() != 0 {
		t.Errorf("error lines must not reach stdout: %q", out.String())
	}
	if errOut.String() != "ERROR: something broke\n" {
		t.Errorf("expected prefixed error line, got %q", errOut.String())
	}
}

func TestLogger_Formatting(t *testing.T) {
	l, out, _ := newTestLogger(Debug)

	l.Info("%d of %d", 2, 3)
	if out.String() != "2 of 3\n" {
		t.Errorf("unexpected formatting: %q", out.String())
	}
}

func TestLogger_FileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "doot.log")

	l := NewLogger("test", Info, file)
	l.NoColor = true

	var out bytes.Buffer
	l.SetOutput(&out, &out)

	l.Info("persisted line")

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	entry := string(data)
	if !strings.Contains(entry, "persisted line") {
		t.Errorf("missing message in file entry: %q", entry)
	}
	if !strings.Contains(entry, "INFO") {
		t.Errorf("file entries should carry the level: %q", entry)
	}
}

func TestLogger_JSONFileOutput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "doot.log")

	l := NewLogger("test", Info, file)
	l.NoColor = true
	l.JSON = true

	var out bytes.Buffer
	l.SetOutput(&out, &out)

	l.Warn("structured")

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	entry := string(data)
	if !strings.Contains(entry, `"level":"WARN"`) || !strings.Contains(entry, `"message":"structured"`) {
		t.Errorf("unexpected json entry: %q", entry)
	}
	if !strings.Contains(entry, `"service":"test"`) {
		t.Errorf("json entry should carry the logger name: %q", entry)
	}
}

func TestLogger_Named(t *testing.T) {
	l, out, _ := newTestLogger(Debug)

	sub := l.Named("shell")
	if sub.Name != "test/shell" {
		t.Errorf("expected derived name 'test/shell', got %q", sub.Name)
	}

	sub.Info("through the shared writer")
	if !strings.Contains(out.String(), "through the shared writer") {
		t.Errorf("sub-logger should share the console writer: %q", out.String())
	}
}

func TestParse(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   Debug,
		"INFO":    Info,
		"Warn":    Warn,
		"error":   Error,
		"FATAL":   Fatal,
		"unknown": Info,
	}

	for input, want := range cases {
		if got := Parse(input); got != want {
			t.Errorf("Parse(%q) = %v, want %v", input, got, want)
		}
	}
}
