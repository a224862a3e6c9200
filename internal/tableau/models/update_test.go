package models

import (
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	outcomes := []UpdateOutcome{
		{ParentName: "a", Success: true},
		{ParentName: "b", Success: false, Error: "boom"},
		{ParentName: "c", Success: true},
	}

	got := Summarize(outcomes)
	want := UpdateSummary{Total: 3, Succeeded: 2, Failed: 1}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}

	if empty := Summarize(nil); empty != (UpdateSummary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", empty)
	}
}

func TestSession_StringRedactsToken(t *testing.T) {
	s := &Session{BaseURL: "https://host", SiteID: "site1", UserID: "user1", Token: "secret-token"}

	out := s.String()
	if strings.Contains(out, "secret-token") {
		t.Errorf("String() leaked token: %s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Errorf("String() = %s, want redaction marker", out)
	}

	var nilSession *Session
	if nilSession.String() != "<nil session>" {
		t.Errorf("nil String() = %q", nilSession.String())
	}
}

func TestSession_APIRoot(t *testing.T) {
	s := &Session{BaseURL: "https://host", APIVersion: "3.21"}
	if got := s.APIRoot(); got != "https://host/api/3.21" {
		t.Errorf("APIRoot() = %q", got)
	}
}

func TestConnectionUpdate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		update  ConnectionUpdate
		current GroupKey
		wantErr bool
	}{
		{"complete", ConnectionUpdate{ServerAddress: "db", ServerPort: "5432", UserName: "svc", Password: "pw"}, GroupKey{ServerAddress: "db"}, false},
		{"port and user optional", ConnectionUpdate{ServerAddress: "db", Password: "pw"}, GroupKey{ServerAddress: "db"}, false},
		{"missing server", ConnectionUpdate{Password: "pw"}, GroupKey{ServerAddress: "db"}, true},
		{"server stays empty for serverless group", ConnectionUpdate{UserName: "svc", Password: "pw"}, GroupKey{UserName: "svc"}, false},
		{"server added to serverless group", ConnectionUpdate{ServerAddress: "db", Password: "pw"}, GroupKey{}, false},
		{"missing password", ConnectionUpdate{ServerAddress: "db"}, GroupKey{ServerAddress: "db"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.update.Validate(tt.current); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
