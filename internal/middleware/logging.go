package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"media-board/internal/logging"
)

// responseWriter records the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
	wroteHeader  bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingConfig holds configuration for the logging middleware
type LoggingConfig struct {
	SkipPaths []string
	// SkipThumbnails drops thumbnail fetches, which dominate gallery traffic.
	SkipThumbnails  bool
	LogHealthChecks bool
}

// DefaultLoggingConfig logs everything but thumbnail fetches.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipThumbnails:  true,
		LogHealthChecks: true,
	}
}

var healthCheckPaths = map[string]bool{
	"/health": true,
	"/livez":  true,
}

// accessEntry is one request as written to the access log.
type accessEntry struct {
	Time      time.Time
	RequestID string
	ClientIP  string
	Method    string
	Path      string
	Query     string
	Status    int
	Bytes     int64
	Duration  time.Duration
	UserAgent string
}

// Logger returns middleware writing one logfmt-style line per request:
//
//	access time=2024-05-01T10:00:00Z id=... ip=10.0.0.1 method=POST path=/api/upload status=201 bytes=84 ms=112 ua="curl/8.0"
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shouldSkip(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			requestID := GetRequestID(r.Context())
			if requestID == "" {
				requestID = wrapped.Header().Get(RequestIDHeader)
			}

			//nolint:gosec // every request-controlled field passes through sanitizeLogField
			logging.Printf("%s", accessLine(accessEntry{
				Time:      start.UTC(),
				RequestID: requestID,
				ClientIP:  getClientIP(r),
				Method:    r.Method,
				Path:      r.URL.Path,
				Query:     r.URL.RawQuery,
				Status:    wrapped.statusCode,
				Bytes:     wrapped.bytesWritten,
				Duration:  time.Since(start),
				UserAgent: r.Header.Get("User-Agent"),
			}))
		})
	}
}

func accessLine(e accessEntry) string {
	var b strings.Builder
	b.WriteString("access")
	field := func(key, value string) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(logValue(value))
	}

	field("time", e.Time.Format(time.RFC3339))
	field("id", e.RequestID)
	field("ip", e.ClientIP)
	field("method", e.Method)
	field("path", e.Path)
	if e.Query != "" {
		field("query", e.Query)
	}
	field("status", strconv.Itoa(e.Status))
	field("bytes", strconv.FormatInt(e.Bytes, 10))
	field("ms", strconv.FormatInt(e.Duration.Milliseconds(), 10))
	field("ua", e.UserAgent)
	return b.String()
}

// logValue sanitizes s and quotes it when it is empty or holds spaces,
// quotes or an equals sign.
func logValue(s string) string {
	s = sanitizeLogField(s)
	if s == "" {
		return "-"
	}
	if strings.ContainsAny(s, " \t\"=") {
		return strconv.Quote(s)
	}
	return s
}

// sanitizeLogField drops control characters that could forge log lines or
// inject terminal escapes. Line breaks become spaces; tabs are kept.
func sanitizeLogField(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r':
			return ' '
		case r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

func shouldSkip(path string, config LoggingConfig) bool {
	for _, skipPath := range config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	if !config.LogHealthChecks && healthCheckPaths[path] {
		return true
	}
	return config.SkipThumbnails &&
		strings.HasPrefix(path, "/api/thumbnail/") &&
		!strings.HasSuffix(path, "/regenerate")
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
