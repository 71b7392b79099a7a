// ABOUTME: Tests for the colorized slog handler
// ABOUTME: Covers level filtering, attr rendering, and handler derivation

package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestHandler(buf *bytes.Buffer, level slog.Level) *colorHandler {
	color.NoColor = true
	return &colorHandler{out: buf, level: level}
}

func TestColorHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf, slog.LevelInfo)

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be filtered at info level")
	}
	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should pass at info level")
	}
}

func TestColorHandler_RendersMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf, slog.LevelDebug)

	logger := slog.New(h)
	logger.Info("server started", "http_addr", "127.0.0.1:8990")

	out := buf.String()
	if !strings.Contains(out, "INF") {
		t.Errorf("output missing level tag: %q", out)
	}
	if !strings.Contains(out, "server started") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "http_addr=127.0.0.1:8990") {
		t.Errorf("output missing attr: %q", out)
	}
}

func TestColorHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf, slog.LevelDebug)

	logger := slog.New(h).With("component", "api")
	logger.Warn("slow query")

	out := buf.String()
	if !strings.Contains(out, "WRN") {
		t.Errorf("output missing level tag: %q", out)
	}
	if !strings.Contains(out, "component=api") {
		t.Errorf("output missing handler attr: %q", out)
	}

	// The derived handler must not leak attrs back into the parent
	buf.Reset()
	slog.New(h).Info("plain")
	if strings.Contains(buf.String(), "component=") {
		t.Errorf("parent handler should not carry derived attrs: %q", buf.String())
	}
}

func TestColorHandler_WithGroupStillLogs(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf, slog.LevelDebug)

	logger := slog.New(h).WithGroup("request")
	logger.Info("handled", "status", 200)

	out := buf.String()
	if !strings.Contains(out, "handled") {
		t.Errorf("grouped logger should still emit records: %q", out)
	}
	if !strings.Contains(out, "status=200") {
		t.Errorf("output missing attr: %q", out)
	}
}
