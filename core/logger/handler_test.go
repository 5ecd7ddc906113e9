package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"log/slog"
)

func TestContextHandlerEnrichment(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newContextHandler(aw, formatKV, slog.LevelInfo)

	ctx := WithRID(Background(), "42:7:9")
	ctx = WithUpdateMeta(ctx, 42, 9, 7)
	ctx = WithHandler(ctx, "checkin")

	log := slog.New(handler).With("component", "bot")
	LogEvent(ctx, log, slog.LevelInfo, "test.event",
		slog.String("status", "ok"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	for _, want := range []string{
		"component=bot",
		"event=test.event",
		"status=ok",
		"rid=" + CompactRID("42:7:9"),
		"update_id=42",
		"user_id=9",
		"chat_id=7",
		"handler=checkin",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in line %q", want, line)
		}
	}
}

func TestContextHandlerJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newContextHandler(aw, formatJSON, slog.LevelInfo)

	ctx := WithRID(Background(), "rid-json")

	log := slog.New(handler).With("component", "service.addresses")
	LogEvent(ctx, log, slog.LevelError, "save.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	for _, want := range []string{
		`"component":"service.addresses"`,
		`"event":"save.failed"`,
		`"status":"fail"`,
		`"rid":"rid-json"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
}

func TestCompactRID(t *testing.T) {
	if got := CompactRID("123:456:789"); got != "3f.co.lx" {
		t.Fatalf("unexpected compact rid: %s", got)
	}
	if got := CompactRID("not-a-rid"); got != "not-a-rid" {
		t.Fatalf("malformed rid should pass through, got %s", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "hello\x00world\x7f"
	if got := Sanitize(in); got != "helloworld" {
		t.Fatalf("sanitize: got %q", got)
	}
	if got := SanitizeLimit("abcdef", 3); got != "abc" {
		t.Fatalf("limit: got %q", got)
	}
	if got := SanitizeLimit("abcdef", 0); got != "" {
		t.Fatalf("zero limit: got %q", got)
	}
}
