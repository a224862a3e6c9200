package tableau

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aaearon/tabrotate/internal/tableau/models"
)

const (
	testVersion = "3.21"
	testSite    = "site1"
	testToken   = "tok-123"
	sitePrefix  = "/api/" + testVersion + "/sites/" + testSite
)

type recordedRequest struct {
	Method      string
	Path        string
	Token       string
	Accept      string
	ContentType string
	Body        []byte
}

// fakeTableau is an httptest server standing in for the Tableau REST API.
type fakeTableau struct {
	mu       sync.Mutex
	requests []recordedRequest
	mux      *http.ServeMux
	server   *httptest.Server
}

func newFakeTableau(t *testing.T) *fakeTableau {
	t.Helper()
	f := &fakeTableau{mux: http.NewServeMux()}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Token:       r.Header.Get("X-Tableau-Auth"),
			Accept:      r.Header.Get("Accept"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		f.mu.Unlock()
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeTableau) respond(pattern string, status int, body string) {
	f.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeTableau) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeTableau) requestsWithMethod(method string) []recordedRequest {
	var out []recordedRequest
	for _, r := range f.recorded() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeTableau) service() *Service {
	return NewServiceWithClient(f.server.Client(), testVersion)
}

func (f *fakeTableau) session() *models.Session {
	return &models.Session{
		BaseURL:    f.server.URL,
		APIVersion: testVersion,
		Token:      testToken,
		SiteID:     testSite,
	}
}
