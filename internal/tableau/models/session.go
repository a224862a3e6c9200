package models

import (
	"fmt"
	"time"
)

// SignInRequest carries the Personal Access Token used for PAT sign-in.
type SignInRequest struct {
	ServerURL   string
	TokenName   string
	TokenSecret string
	// Site is the site content URL. Empty selects the default site.
	Site string
}

// Session is the descriptor returned by a successful sign-in. It is read-only
// after creation and may be handed to any number of sequential calls.
type Session struct {
	BaseURL        string    `json:"baseUrl"`
	APIVersion     string    `json:"apiVersion"`
	Token          string    `json:"token"`
	SiteID         string    `json:"siteId"`
	SiteContentURL string    `json:"siteContentUrl"`
	UserID         string    `json:"userId"`
	SignedInAt     time.Time `json:"signedInAt"`
}

// APIRoot returns the versioned REST root, e.g. https://host/api/3.21.
func (s *Session) APIRoot() string {
	return s.BaseURL + "/api/" + s.APIVersion
}

// String formats the session without the auth token.
func (s *Session) String() string {
	if s == nil {
		return "<nil session>"
	}
	return fmt.Sprintf("session{server=%s site=%s user=%s token=[REDACTED]}", s.BaseURL, s.SiteID, s.UserID)
}
