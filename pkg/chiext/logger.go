// Package chiext has chi middleware.
package chiext

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger logs every request through slog. Successful requests are logged
// at debug level so polling clients do not flood the log.
func Logger() func(next http.Handler) http.Handler {
	return middleware.RequestLogger(&LogFormatter{Logger: slog.With("package", "http")})
}

type LogFormatter struct {
	Logger *slog.Logger
}

// NewLogEntry implements middleware.LogFormatter.
func (l *LogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	attrs := []any{}

	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, slog.String("request", reqID))
	}
	attrs = append(attrs, slog.String("from", r.RemoteAddr))

	return &logEntry{
		log:   l.Logger,
		attrs: attrs,
		msg:   fmt.Sprintf("%s %s %s", r.Method, r.RequestURI, r.Proto),
	}
}

type logEntry struct {
	log   *slog.Logger
	attrs []any
	msg   string
}

func (l *logEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	attrs := append(l.attrs,
		slog.Int("status", status),
		slog.Int("bytes", bytes),
		slog.Duration("elapsed", elapsed),
	)

	switch {
	case status < 400:
		l.log.Debug(l.msg, attrs...)
	case status < 500:
		l.log.Warn(l.msg, attrs...)
	default:
		l.log.Error(l.msg, attrs...)
	}
}

func (l *logEntry) Panic(v interface{}, stack []byte) {
	l.log.Error(l.msg, append(l.attrs, slog.Any("panic", v), slog.String("stack", string(stack)))...)
}
