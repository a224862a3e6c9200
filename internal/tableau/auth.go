package tableau

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aaearon/tabrotate/internal/tableau/models"
)

// NormalizeServerURL trims whitespace and trailing slashes, cuts a pasted
// site-switcher fragment ("/#/...") and strips a trailing "/api".
// NormalizeServerURL(NormalizeServerURL(x)) == NormalizeServerURL(x).
func NormalizeServerURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if i := strings.Index(u+"/", "/#/"); i >= 0 {
		u = strings.TrimRight(u[:i], "/")
	}
	for strings.HasSuffix(u, "/api") {
		u = strings.TrimRight(strings.TrimSuffix(u, "/api"), "/")
	}
	return u
}

// SignIn exchanges a Personal Access Token for a session.
// POST /api/{v}/auth/signin
func (s *Service) SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error) {
	baseURL := NormalizeServerURL(req.ServerURL)
	if baseURL == "" {
		return nil, fmt.Errorf("%w: server URL is required", ErrInvalidSignIn)
	}
	if req.TokenName == "" || req.TokenSecret == "" {
		return nil, fmt.Errorf("%w: personal access token name and secret are required", ErrInvalidSignIn)
	}

	body := models.SignInBody{
		Credentials: models.SignInCredentials{
			PersonalAccessTokenName:   req.TokenName,
			PersonalAccessTokenSecret: req.TokenSecret,
			Site:                      models.SiteRef{ContentURL: req.Site},
		},
	}

	url := baseURL + "/api/" + s.apiVersion + "/auth/signin"
	resp, err := s.do(ctx, http.MethodPost, url, "", body)
	if err != nil {
		return nil, &AuthenticationError{Op: "sign in", Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &AuthenticationError{Op: "sign in", StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	var result models.SignInResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ProtocolError{Op: "sign in", Err: fmt.Errorf("%w: %v", ErrMalformedAuthResponse, err)}
	}
	if result.Credentials == nil || result.Credentials.Token == "" {
		return nil, &ProtocolError{Op: "sign in", Err: ErrMalformedAuthResponse}
	}

	contentURL := result.Credentials.Site.ContentURL
	if contentURL == "" {
		contentURL = req.Site
	}

	session := &models.Session{
		BaseURL:        baseURL,
		APIVersion:     s.apiVersion,
		Token:          result.Credentials.Token,
		SiteID:         result.Credentials.Site.ID,
		SiteContentURL: contentURL,
		UserID:         result.Credentials.User.ID,
		SignedInAt:     s.now(),
	}
	s.log.Info("Signed in: %s", session)

	return session, nil
}

// SignOut invalidates the session token. Signing out an already invalidated
// token fails; callers are expected to tolerate that.
// POST /api/{v}/auth/signout
func (s *Service) SignOut(ctx context.Context, session *models.Session) error {
	if session == nil || session.Token == "" {
		return errors.New("sign out requires a session")
	}

	resp, err := s.do(ctx, http.MethodPost, session.APIRoot()+"/auth/signout", session.Token, nil)
	if err != nil {
		return &AuthenticationError{Op: "sign out", Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &AuthenticationError{Op: "sign out", StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	return nil
}
