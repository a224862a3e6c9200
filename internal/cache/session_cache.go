package cache

import (
	"context"
	"strings"

	"github.com/aaearon/tabrotate/internal/tableau"
	"github.com/aaearon/tabrotate/internal/tableau/models"
)

// Signer mirrors cmd.sessionSigner to avoid import cycles.
type Signer interface {
	SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error)
}

// Logger interface for verbose output, satisfied by *common.IdsecLogger.
type Logger interface {
	Info(msg string, v ...interface{})
}

// nopLogger discards all log output.
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}

// SessionKey derives the cache key for a server and site.
// The server URL is normalized first so equivalent URLs share an entry.
func SessionKey(serverURL, site string) string {
	raw := tableau.NormalizeServerURL(serverURL)
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")
	if site == "" {
		site = "default"
	}
	return "session_" + sanitize(raw) + "__" + sanitize(site)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.ToLower(s))
}

// LoadSession returns the cached session for a server and site, if it has not expired.
func LoadSession(s *Store, serverURL, site string) (*models.Session, bool) {
	var session models.Session
	if !Get(s, SessionKey(serverURL, site), &session) {
		return nil, false
	}
	if session.Token == "" {
		return nil, false
	}
	return &session, true
}

// SaveSession caches a session under its server and site.
func SaveSession(s *Store, session *models.Session) error {
	return Set(s, SessionKey(session.BaseURL, session.SiteContentURL), *session)
}

// ClearSession removes the cached session for a server and site.
func ClearSession(s *Store, serverURL, site string) {
	Invalidate(s, SessionKey(serverURL, site))
}

// CachedSigner decorates a Signer with the on-disk session cache.
type CachedSigner struct {
	inner   Signer
	store   *Store
	refresh bool
	log     Logger
}

// NewCachedSigner creates a new caching decorator.
// When refresh is true, the cache read is bypassed but the new session is still cached.
// Logger is optional; pass nil for silent operation.
func NewCachedSigner(inner Signer, store *Store, refresh bool, log Logger) *CachedSigner {
	if log == nil {
		log = nopLogger{}
	}
	return &CachedSigner{inner: inner, store: store, refresh: refresh, log: log}
}

// SignIn returns a cached session when one exists, otherwise signs in and caches the result.
func (c *CachedSigner) SignIn(ctx context.Context, req models.SignInRequest) (*models.Session, error) {
	if c.refresh {
		c.log.Info("Session refresh requested for %s, bypassing cache", req.ServerURL)
	} else if session, ok := LoadSession(c.store, req.ServerURL, req.Site); ok {
		c.log.Info("Reusing cached session for %s (site %q)", session.BaseURL, session.SiteContentURL)
		return session, nil
	} else {
		c.log.Info("No cached session for %s, signing in", req.ServerURL)
	}

	session, err := c.inner.SignIn(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := SaveSession(c.store, session); err != nil {
		c.log.Info("Session cache write failed: %v", err)
	}

	return session, nil
}
