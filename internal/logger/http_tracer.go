package logger

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"
)

type httpTracer struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewHTTPTracer logs every outgoing request: successful ones at debug level, transport failures
// at error level and 5xx answers at warn level. A nil next means http.DefaultTransport.
func NewHTTPTracer(next http.RoundTripper, l *slog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if l == nil {
		l = slog.Default()
	}

	return &httpTracer{next: next, logger: l}
}

func (t *httpTracer) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := t.next.RoundTrip(req)

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()),
		slog.Duration("duration", time.Since(start)),
	}

	lvl := slog.LevelDebug
	msg := "Backend request"
	switch {
	case err != nil:
		lvl = slog.LevelError
		msg = "Backend request failed: " + err.Error()
	case res.StatusCode >= 500:
		lvl = slog.LevelWarn
		attrs = append(attrs, slog.Int("status", res.StatusCode))
	default:
		attrs = append(attrs, slog.Int("status", res.StatusCode))
	}

	ctx := req.Context()
	if !t.logger.Enabled(ctx, lvl) {
		return res, err
	}

	var pcs [1]uintptr
	// skip [runtime.Callers, this function]
	runtime.Callers(2, pcs[:])

	r := slog.NewRecord(time.Now(), lvl, msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = t.logger.Handler().Handle(ctx, r)

	return res, err
}
