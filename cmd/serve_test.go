package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestServeCommand_RequiresSessionSecret(t *testing.T) {
	resetGlobals(t)
	t.Setenv("TABROTATE_SESSION_SECRET", "short")

	_, err := executeCommand(NewServeCommand())
	if err == nil || !strings.Contains(err.Error(), "TABROTATE_SESSION_SECRET") {
		t.Fatalf("expected session secret error, got %v", err)
	}
}

func TestServeCommand_InvalidLogLevel(t *testing.T) {
	resetGlobals(t)
	t.Setenv("TABROTATE_SESSION_SECRET", "0123456789abcdef0123")
	t.Setenv("TABROTATE_LOG_LEVEL", "chatty")

	_, err := executeCommand(NewServeCommand())
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Fatalf("expected log level error, got %v", err)
	}
}

func TestServeCommand_StopsOnCancel(t *testing.T) {
	resetGlobals(t)
	t.Setenv("TABROTATE_SESSION_SECRET", "0123456789abcdef0123")
	t.Setenv("TABROTATE_BIND_ADDR", "127.0.0.1")
	t.Setenv("TABROTATE_PORT", "0")
	t.Setenv("TABROTATE_LOG_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewServeCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs(nil)
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
