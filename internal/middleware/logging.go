// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// logTransport is an http.RoundTripper that logs every outgoing request
// using Logrus: method, path, status and duration.
type logTransport struct {
	logger *logrus.Logger
	base   http.RoundTripper
}

// LogTransport wraps the given RoundTripper (or http.DefaultTransport
// when nil) with request logging.
func LogTransport(logger *logrus.Logger, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &logTransport{logger: logger, base: base}
}

func (t *logTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.base.RoundTrip(r)

	fields := logrus.Fields{
		"method":   r.Method,
		"path":     r.URL.Path,
		"duration": time.Since(start),
	}
	if err != nil {
		fields["error"] = err
		t.logger.WithFields(fields).Warn("HTTP request failed")
		return resp, err
	}
	fields["status"] = resp.StatusCode
	t.logger.WithFields(fields).Debug("HTTP request")
	return resp, nil
}
