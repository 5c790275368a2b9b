package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"chalkup/internal/platform/logging"
)

func TestNewHonoursLevelAndFormat(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New("chalkup", logging.Options{Level: "info", JSON: true, Output: buf})
	logger.Debug("hidden")
	logger.Info("visible", "session_id", "s-1")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"session_id":"s-1"`) {
		t.Fatalf("expected json key/value, got %s", out)
	}
}

func TestNewFallsBackToWarn(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New("chalkup", logging.Options{Level: "loud", Output: buf})
	logger.Info("skipped")
	logger.Warn("kept")
	if strings.Contains(buf.String(), "skipped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if logging.OrDiscard(nil) == nil {
		t.Fatalf("OrDiscard must never return nil")
	}
}
