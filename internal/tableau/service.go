// Package tableau implements PAT authentication against the Tableau REST API
// and the connection inventory: enumeration, grouping and batch updates.
package tableau

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

const (
	// DefaultAPIVersion is the REST API version used when none is configured.
	DefaultAPIVersion = "3.21"

	authHeader = "X-Tableau-Auth"

	maxErrorBody = 4096
)

// httpClient is an interface for making HTTP requests.
// It allows dependency injection for testing.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Service issues the Tableau REST calls. It holds no session state; every
// site-scoped call takes the session returned by SignIn.
type Service struct {
	httpClient httpClient
	apiVersion string
	log        logger
	now        func() time.Time
}

// NewService creates a Service using a default HTTP client wrapped with
// request logging. An empty apiVersion selects DefaultAPIVersion.
func NewService(apiVersion string, l logger) *Service {
	if l == nil {
		l = nopLogger{}
	}
	client := &http.Client{Timeout: 60 * time.Second}
	return &Service{
		httpClient: newLoggingClient(client, l),
		apiVersion: versionOrDefault(apiVersion),
		log:        l,
		now:        time.Now,
	}
}

// NewServiceWithClient creates a service with a custom HTTP client.
// This is primarily for testing with mock clients.
func NewServiceWithClient(client httpClient, apiVersion string) *Service {
	return &Service{
		httpClient: client,
		apiVersion: versionOrDefault(apiVersion),
		log:        nopLogger{},
		now:        time.Now,
	}
}

// APIVersion returns the REST API version used for sign-in.
func (s *Service) APIVersion() string {
	return s.apiVersion
}

func versionOrDefault(v string) string {
	if v == "" {
		return DefaultAPIVersion
	}
	return v
}

// do builds and sends one request. token may be empty (sign-in); body may be nil.
func (s *Service) do(ctx context.Context, method, url, token string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(authHeader, token)
	}

	return s.httpClient.Do(req)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// readErrorBody reads at most maxErrorBody bytes of a failed response with
// secret-looking JSON values masked.
func readErrorBody(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "(failed to read response body)"
	}
	return redactBody(string(body))
}

var secretFieldPattern = regexp.MustCompile(`(?i)"(token|password|personalAccessTokenSecret)"\s*:\s*"[^"]*"`)

// redactBody masks the values of token, password and PAT secret fields.
func redactBody(body string) string {
	return secretFieldPattern.ReplaceAllString(body, `"$1":"[REDACTED]"`)
}
