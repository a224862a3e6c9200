package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aaearon/tabrotate/internal/config"
)

func twoProfileConfig() *config.Config {
	cfg := testConfig()
	cfg.Profiles["prod"] = config.Profile{Server: "https://prod.example.com", TokenName: "prod-bot", APIVersion: "3.22"}
	return cfg
}

func TestProfilesList(t *testing.T) {
	resetGlobals(t)
	useTempConfig(t, twoProfileConfig())

	output, err := executeCommand(NewProfilesCommandWithDeps(newMockSecretStore()), "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "* default: https://tableau.example.com site=finance token=rotation-bot\n" +
		"  prod: https://prod.example.com site=(default) token=prod-bot\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestProfilesList_Empty(t *testing.T) {
	resetGlobals(t)
	useTempConfig(t, nil)

	output, err := executeCommand(NewProfilesCommandWithDeps(newMockSecretStore()), "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "No profiles configured") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestProfilesList_JSON(t *testing.T) {
	resetGlobals(t)
	outputFormat = "json"
	useTempConfig(t, twoProfileConfig())

	output, err := executeCommand(NewProfilesCommandWithDeps(newMockSecretStore()), "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []profileOutput
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, output)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(got))
	}
	if got[0].Name != "default" || !got[0].Default {
		t.Errorf("unexpected first profile: %+v", got[0])
	}
	if got[1].Name != "prod" || got[1].Default || got[1].APIVersion != "3.22" {
		t.Errorf("unexpected second profile: %+v", got[1])
	}
}

func TestProfilesRemove(t *testing.T) {
	resetGlobals(t)
	path := useTempConfig(t, twoProfileConfig())

	secrets := newMockSecretStore()
	output, err := executeCommand(NewProfilesCommandWithDeps(secrets), "remove", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, `Removed profile "prod"`) {
		t.Errorf("unexpected output: %s", output)
	}

	cfg := loadTestConfig(t, path)
	if _, ok := cfg.Profiles["prod"]; ok {
		t.Error("profile should be removed from the saved config")
	}
	if len(secrets.deleted) != 1 || secrets.deleted[0] != "prod-bot" {
		t.Errorf("deleted secrets = %v, want [prod-bot]", secrets.deleted)
	}
}

func TestProfilesRemove_SharedTokenKeepsSecret(t *testing.T) {
	resetGlobals(t)
	cfg := twoProfileConfig()
	cfg.Profiles["staging"] = config.Profile{Server: "https://staging.example.com", TokenName: "prod-bot"}
	useTempConfig(t, cfg)

	secrets := newMockSecretStore()
	if _, err := executeCommand(NewProfilesCommandWithDeps(secrets), "remove", "prod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(secrets.deleted) != 0 {
		t.Errorf("secret still used by another profile was deleted: %v", secrets.deleted)
	}
}

func TestProfilesRemove_NotFound(t *testing.T) {
	resetGlobals(t)
	useTempConfig(t, testConfig())

	_, err := executeCommand(NewProfilesCommandWithDeps(newMockSecretStore()), "remove", "nope")
	if err == nil || !strings.Contains(err.Error(), `profile "nope" not found`) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestProfilesDefault(t *testing.T) {
	resetGlobals(t)
	path := useTempConfig(t, twoProfileConfig())

	output, err := executeCommand(NewProfilesCommandWithDeps(newMockSecretStore()), "default", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, `Default profile set to "prod"`) {
		t.Errorf("unexpected output: %s", output)
	}
	if got := loadTestConfig(t, path).DefaultProfile; got != "prod" {
		t.Errorf("default profile = %q, want %q", got, "prod")
	}
}

func TestProfilesDefault_Unknown(t *testing.T) {
	resetGlobals(t)
	path := useTempConfig(t, testConfig())

	if _, err := executeCommand(NewProfilesCommandWithDeps(newMockSecretStore()), "default", "nope"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
	if got := loadTestConfig(t, path).DefaultProfile; got != "default" {
		t.Errorf("default profile changed to %q", got)
	}
}
