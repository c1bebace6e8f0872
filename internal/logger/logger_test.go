package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	Init("debug")
	SetOutput(&buf)
	SetColorEnable(false)

	t.Run("should emit messages at or above the level", func(t *testing.T) {
		buf.Reset()
		SetLevel("warn")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
			t.Errorf("messages below the level leaked: %q", out)
		}
		if !strings.Contains(out, "[WARN] warn message") {
			t.Errorf("expected warn message, got: %q", out)
		}
		if !strings.Contains(out, "[ERROR] error message") {
			t.Errorf("expected error message, got: %q", out)
		}
	})

	t.Run("should format printf-style arguments", func(t *testing.T) {
		buf.Reset()
		SetLevel("debug")

		Info("seed %d from %s tier", 42, "favored")
		if !strings.Contains(buf.String(), "seed 42 from favored tier") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("should parse unknown levels as info", func(t *testing.T) {
		if got := parseLevel("garbage"); got != INFO {
			t.Errorf("expected INFO, got %v", got)
		}
		if got := parseLevel("WARNING"); got != WARN {
			t.Errorf("expected WARN, got %v", got)
		}
	})
}
