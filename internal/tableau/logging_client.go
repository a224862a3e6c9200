package tableau

import (
	"net/http"
	"time"
)

// logger is the printf-style sink for request logs. Satisfied by
// *common.IdsecLogger and server.CoreLogger.
type logger interface {
	Info(msg string, v ...interface{})
	Error(msg string, v ...interface{})
	Debug(msg string, v ...interface{})
}

// nopLogger discards all log output.
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}

// loggingClient wraps httpClient, logging request/response metadata.
// Request bodies are never logged since they carry secrets.
type loggingClient struct {
	inner  httpClient
	logger logger
}

func newLoggingClient(inner httpClient, l logger) *loggingClient {
	return &loggingClient{inner: inner, logger: l}
}

func (c *loggingClient) Do(req *http.Request) (*http.Response, error) {
	route := req.URL.Path
	c.logger.Info("%s %s", req.Method, route)
	c.logger.Debug("Request headers: %v", redactHeaders(req.Header))
	start := time.Now()

	resp, err := c.inner.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error("%s %s failed: %v", req.Method, route, err)
		return nil, err
	}

	c.logger.Info("%s %s -> %d (%dms)", req.Method, route, resp.StatusCode, elapsed.Milliseconds())
	if resp.Header != nil {
		c.logger.Debug("Response headers: %v", redactHeaders(resp.Header))
	}

	return resp, nil
}

// redactHeaders returns a copy of headers with the auth token replaced.
func redactHeaders(h http.Header) http.Header {
	redacted := h.Clone()
	if redacted == nil {
		return http.Header{}
	}
	if redacted.Get(authHeader) != "" {
		redacted.Set(authHeader, "[REDACTED]")
	}
	return redacted
}
