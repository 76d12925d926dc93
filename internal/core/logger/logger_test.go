package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

type syncBuffer struct{ bytes.Buffer }

func (b *syncBuffer) Sync() error { return nil }

func TestBuildJSON(t *testing.T) {
	var buf syncBuffer
	l, done := Build(Options{Level: "info", JSON: true, Output: &buf})
	l.Debug("hidden")
	l.Info("hello")
	done()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked: %s", out)
	}
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Fatalf("missing info line: %s", out)
	}
}

func TestToStdLogger(t *testing.T) {
	var buf syncBuffer
	l, done := Build(Options{Level: "debug", JSON: true, Output: &buf})
	ToStdLogger(l, zapcore.WarnLevel).Printf("slow query %d\n", 42)
	done()

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, `"msg":"slow query 42"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}
