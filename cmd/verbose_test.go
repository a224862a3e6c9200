package cmd

import (
	"fmt"
	"strings"
	"testing"
)

// spyLogger captures Info() calls for testing verbose output.
type spyLogger struct {
	messages []string
}

func (s *spyLogger) Info(msg string, v ...interface{}) {
	s.messages = append(s.messages, fmt.Sprintf(msg, v...))
}

func (s *spyLogger) contains(substr string) bool {
	for _, msg := range s.messages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func TestCmdLogger_DefaultIsNotNil(t *testing.T) {
	if log == nil {
		t.Fatal("package-level log should not be nil")
	}
	if coreLog == nil {
		t.Fatal("package-level coreLog should not be nil")
	}
}

func TestCmdLogger_SpyCaptures(t *testing.T) {
	spy := &spyLogger{}
	oldLog := log
	log = spy
	defer func() { log = oldLog }()

	log.Info("hello %s", "world")

	if len(spy.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(spy.messages))
	}
	if spy.messages[0] != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", spy.messages[0])
	}
}

func TestRotate_VerboseLogs(t *testing.T) {
	resetGlobals(t)
	spy := &spyLogger{}
	oldLog := log
	log = spy
	defer func() { log = oldLog }()

	d := newRotateDeps()
	if _, err := d.run(t, "Unique-Pa55word\n", "--group", "1", "--password-stdin", "--yes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Signing in to https://tableau.example.com",
		"Found 2 data sources, 1 workbooks, 3 connections in 2 groups",
		"Selected group 1",
		"finished: 2 succeeded, 0 failed",
	} {
		if !spy.contains(want) {
			t.Errorf("expected log containing %q, got: %v", want, spy.messages)
		}
	}
	for _, msg := range spy.messages {
		if strings.Contains(msg, "Unique-Pa55word") {
			t.Errorf("password leaked into log: %q", msg)
		}
	}
}

func TestLogout_VerboseLogsSignOutFailure(t *testing.T) {
	resetGlobals(t)
	spy := &spyLogger{}
	oldLog := log
	log = spy
	defer func() { log = oldLog }()

	store := &mockSessionStore{session: testSession()}
	signOut := &mockSignerOut{signOutErr: fmt.Errorf("sign out request failed with status 401")}
	if _, err := executeCommand(NewLogoutCommandWithDeps(testConfig(), signOut, store, newMockSecretStore())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !spy.contains("clearing cached session anyway") {
		t.Errorf("expected sign out failure to be logged, got: %v", spy.messages)
	}
}
