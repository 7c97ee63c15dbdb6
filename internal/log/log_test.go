package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func withCapturedLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
	})
	return buf
}

func TestInfoProducesLogfmtWithTimestamp(t *testing.T) {
	buf := withCapturedLogger(t)

	Info(context.Background(), "computed", "donationID", 12)

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log output, got empty string")
	}
	for _, want := range []string{"ts=", "level=info", "msg=computed", "donationID=12"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line, got %q", want, line)
		}
	}
}

func TestErrorLogsWithNilContext(t *testing.T) {
	buf := withCapturedLogger(t)

	Error(nil, "cache write failed", "error", "boom") //nolint:staticcheck

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "level=error") {
		t.Fatalf("expected error level in log line, got %q", line)
	}
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() {
		if err := SetLevel("info"); err != nil {
			t.Fatalf("restore level: %v", err)
		}
	})

	for _, level := range []string{"", "debug", "info", "warn", "error", "ERROR", " Debug "} {
		if err := SetLevel(level); err != nil {
			t.Fatalf("SetLevel(%q) returned error: %v", level, err)
		}
	}

	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	buf := withCapturedLogger(t)
	if err := SetLevel("info"); err != nil {
		t.Fatalf("set level: %v", err)
	}

	Debug(context.Background(), "should not appear")

	if got := strings.TrimSpace(buf.String()); got != "" {
		t.Fatalf("expected no output at info level, got %q", got)
	}
}

func TestReplaceLoggerRejectsNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil logger")
		}
	}()
	ReplaceLogger(nil)
}
