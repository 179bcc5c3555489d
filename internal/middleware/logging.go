package middleware

import (
	"net/http"
	"strings"
	"time"

	"infinite-experiment/engagesync/internal/auth"
	"infinite-experiment/engagesync/internal/logging"
)

var redactedHeaders = map[string]bool{
	"authorization":        true,
	"x-clevertap-passcode": true,
	"cookie":               true,
}

type respLogger struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	n, err := l.ResponseWriter.Write(b)
	l.bytes += n
	return n, err
}

// Logging traces every request and response at debug level. Credentials in
// headers are never written out.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequest(auth.GetRequestID(r.Context()), r.URL.Path)

		headers := make(map[string]string, len(r.Header))
		for name, vals := range r.Header {
			if redactedHeaders[strings.ToLower(name)] {
				headers[name] = "[redacted]"
				continue
			}
			headers[name] = strings.Join(vals, ",")
		}
		log.Debugw("Request received", "method", r.Method, "headers", headers)

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(lw, r)

		log.Debugw("Response sent",
			"status_code", lw.status,
			"status", http.StatusText(lw.status),
			"bytes", lw.bytes,
			"duration", time.Since(start).String(),
		)
	})
}
