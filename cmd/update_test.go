package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	old := version
	version = v
	t.Cleanup(func() { version = old })
}

func TestUpdateCommand(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		updater  *mockSelfUpdater
		wantErr  string
		wantOut  string
		wantCall bool
	}{
		{
			name:    "dev build refuses to update",
			version: "",
			updater: &mockSelfUpdater{},
			wantErr: "cannot update a dev build",
		},
		{
			name:    "explicit dev version",
			version: "dev",
			updater: &mockSelfUpdater{},
			wantErr: "cannot update a dev build",
		},
		{
			name:    "unparseable version",
			version: "nightly-42",
			updater: &mockSelfUpdater{},
			wantErr: `failed to parse current version "nightly-42"`,
		},
		{
			name:    "already current",
			version: "v0.3.0",
			updater: &mockSelfUpdater{release: &selfupdate.Release{Version: semver.MustParse("0.3.0")}},
			wantOut: "tabrotate 0.3.0 is already up to date.",
		},
		{
			name:    "newer release installed",
			version: "0.3.0",
			updater: &mockSelfUpdater{release: &selfupdate.Release{Version: semver.MustParse("0.4.1")}},
			wantOut: "Updated tabrotate from 0.3.0 to 0.4.1.",
		},
		{
			name:    "github error",
			version: "0.3.0",
			updater: &mockSelfUpdater{updateErr: errors.New("API rate limit exceeded")},
			wantErr: "update failed: API rate limit exceeded",
		},
		{
			name:    "no release information",
			version: "0.3.0",
			updater: &mockSelfUpdater{},
			wantErr: "no release information",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version)

			output, err := executeCommand(NewUpdateCommandWithDeps(tt.updater))

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tt.wantOut) {
				t.Errorf("output = %q, want it to contain %q", output, tt.wantOut)
			}
		})
	}
}

func TestUpdateCommand_UsesReleaseRepository(t *testing.T) {
	withVersion(t, "1.2.3")

	var gotSlug string
	var gotCurrent semver.Version
	updater := &mockSelfUpdater{
		updateSelfFn: func(v semver.Version, slug string) (*selfupdate.Release, error) {
			gotCurrent, gotSlug = v, slug
			return &selfupdate.Release{Version: v}, nil
		},
	}

	if _, err := executeCommand(NewUpdateCommandWithDeps(updater)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSlug != "aaearon/tabrotate" {
		t.Errorf("slug = %q, want %q", gotSlug, "aaearon/tabrotate")
	}
	if !gotCurrent.Equals(semver.MustParse("1.2.3")) {
		t.Errorf("current = %s, want 1.2.3", gotCurrent)
	}
}

func TestUpdateCommand_VerboseLogs(t *testing.T) {
	spy := &spyLogger{}
	oldLog := log
	log = spy
	defer func() { log = oldLog }()

	withVersion(t, "1.0.0")
	updater := &mockSelfUpdater{release: &selfupdate.Release{
		Version:      semver.MustParse("1.1.0"),
		ReleaseNotes: "Adds --password-length",
	}}

	if _, err := executeCommand(NewUpdateCommandWithDeps(updater)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Checking " + updateSlug, "newer than 1.0.0", "Adds --password-length"} {
		if !spy.contains(want) {
			t.Errorf("expected log containing %q, got: %v", want, spy.messages)
		}
	}
}

func TestUpdateCommandIntegration(t *testing.T) {
	resetGlobals(t)
	withVersion(t, "0.0.1")

	root := newTestRootCommand()
	root.AddCommand(NewUpdateCommandWithDeps(&mockSelfUpdater{
		release: &selfupdate.Release{Version: semver.MustParse("0.0.1")},
	}))

	output, err := executeCommand(root, "update")
	if err != nil {
		t.Fatalf("update command failed: %v", err)
	}
	if !strings.Contains(output, "already up to date") {
		t.Errorf("expected 'already up to date', got: %s", output)
	}
}

func TestUpdateCommand_Check(t *testing.T) {
	published := time.Now().Add(-72 * time.Hour)

	tests := []struct {
		name    string
		updater *mockSelfUpdater
		wantErr string
		wantOut []string
	}{
		{
			name: "newer release available",
			updater: &mockSelfUpdater{latest: &selfupdate.Release{
				Version:     semver.MustParse("0.5.0"),
				URL:         "https://github.com/aaearon/tabrotate/releases/tag/v0.5.0",
				PublishedAt: &published,
			}},
			wantOut: []string{"tabrotate 0.5.0 is available (installed 0.3.0)", "Published 3 days ago", "releases/tag/v0.5.0", "Run 'tabrotate update'"},
		},
		{
			name:    "up to date",
			updater: &mockSelfUpdater{latest: &selfupdate.Release{Version: semver.MustParse("0.3.0")}},
			wantOut: []string{"tabrotate 0.3.0 is up to date (latest release 0.3.0)"},
		},
		{
			name:    "no releases",
			updater: &mockSelfUpdater{},
			wantOut: []string{"No releases of aaearon/tabrotate found."},
		},
		{
			name:    "lookup error",
			updater: &mockSelfUpdater{detectErr: errors.New("API rate limit exceeded")},
			wantErr: "update check failed: API rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			withVersion(t, "0.3.0")

			output, err := executeCommand(NewUpdateCommandWithDeps(tt.updater), "--check")

			if tt.updater.updateCalls != 0 {
				t.Error("--check must not install a release")
			}
			if tt.updater.detectCalls != 1 {
				t.Errorf("DetectLatest calls = %d, want 1", tt.updater.detectCalls)
			}
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q\ngot:\n%s", want, output)
				}
			}
		})
	}
}

func TestUpdateCommand_CheckDevBuild(t *testing.T) {
	resetGlobals(t)
	withVersion(t, "dev")
	updater := &mockSelfUpdater{}

	_, err := executeCommand(NewUpdateCommandWithDeps(updater), "--check")
	if err == nil || !strings.Contains(err.Error(), "cannot update a dev build") {
		t.Fatalf("error = %v, want dev build error", err)
	}
	if updater.detectCalls != 0 {
		t.Error("a dev build must not query releases")
	}
}

func TestUpdateCommand_JSONOutput(t *testing.T) {
	resetGlobals(t)
	withVersion(t, "0.3.0")

	root := newTestRootCommand()
	updater := &mockSelfUpdater{latest: &selfupdate.Release{
		Version: semver.MustParse("0.4.0"),
		URL:     "https://github.com/aaearon/tabrotate/releases/tag/v0.4.0",
	}}
	root.AddCommand(NewUpdateCommandWithDeps(updater))

	output, err := executeCommand(root, "update", "--check", "--output", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got updateOutput
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, output)
	}
	want := updateOutput{
		Current:    "0.3.0",
		Latest:     "0.4.0",
		Available:  true,
		ReleaseURL: "https://github.com/aaearon/tabrotate/releases/tag/v0.4.0",
	}
	if got != want {
		t.Errorf("output = %+v, want %+v", got, want)
	}
}
