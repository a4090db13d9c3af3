package log

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"os"
	"strings"
	"testing"
)

func newBufferLogger(level Level, f Formatter) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewLogger(WithLevel(level), WithFormatter(f), WithOutput(NewWriterOutput(buf))), buf
}

func TestTextFormatterFields(t *testing.T) {
	l, buf := newBufferLogger(DebugLevel, &TextFormatter{DisableTimestamp: true})
	l.With(Component("device")).Info("committed command", Int("size", 7), Str("text", "a b"))
	got := buf.String()
	want := `INFO  committed command component=device size=7 text="a b"` + "\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestLevelGate(t *testing.T) {
	l, buf := newBufferLogger(WarnLevel, &TextFormatter{DisableTimestamp: true})
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	child := l.WithComponent("x")
	l.SetLevel(DebugLevel)
	if child.GetLevel() != DebugLevel {
		t.Fatalf("child should share level with parent")
	}
}

func TestJSONFormatterError(t *testing.T) {
	l, buf := newBufferLogger(InfoLevel, &JSONFormatter{})
	l.Error("write failed", Err(errors.New("boom")))
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m["error"] != "boom" || m["level"] != "ERROR" || m["msg"] != "write failed" {
		t.Fatalf("unexpected entry: %v", m)
	}
}

func TestApplyConfig(t *testing.T) {
	if _, err := ApplyConfig(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected format error")
	}
	l, err := ApplyConfig(&Config{Level: "warn", Format: "json", Output: "null"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if l.GetLevel() != WarnLevel {
		t.Fatalf("level: %v", l.GetLevel())
	}
}

func TestRedirectStdLog(t *testing.T) {
	l, buf := newBufferLogger(InfoLevel, &TextFormatter{DisableTimestamp: true})
	RedirectStdLog(l)
	t.Cleanup(func() {
		stdlog.SetOutput(os.Stderr)
		stdlog.SetFlags(stdlog.LstdFlags)
	})
	stdlog.Printf("from pebble")
	if !strings.Contains(buf.String(), "from pebble source=stdlog") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
