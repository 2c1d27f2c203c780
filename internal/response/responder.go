package response

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Error</title></head>
<body>
  <h1>Something went wrong</h1>
  <p>{{.}}</p>
  <p><a href="/">Back to the catalog</a></p>
</body>
</html>`))

type Responder struct {
	DebugMode bool
}

// RespondAndLogError will respond with generic error code (500) and log with slog.LevelError level
func (rr *Responder) RespondAndLogError(w http.ResponseWriter, r *http.Request, err error) {
	errId := uuid.NewString()
	log(r.Context(), slog.LevelError, err.Error(), slog.String("err_id", errId))
	rr.renderError(w, r, http.StatusInternalServerError, err.Error(), errId)
}

func (rr *Responder) RespondAndLogCustom(w http.ResponseWriter, r *http.Request, err error, lvl slog.Level, status int) {
	errId := uuid.NewString()
	log(r.Context(), lvl, err.Error(), slog.String("err_id", errId))
	rr.renderError(w, r, status, err.Error(), errId)
}

func (rr *Responder) SendJson(w http.ResponseWriter, r *http.Request, data any) {
	bs, err := json.Marshal(data)
	if err != nil {
		rr.RespondAndLogError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

// SendHtml writes a page rendered in full beforehand, so a failing template never leaves
// a half-written response
func (rr *Responder) SendHtml(w http.ResponseWriter, r *http.Request, tpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		rr.RespondAndLogError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.Copy(w, &buf)
}

func (rr *Responder) message(message, errId string) string {
	if rr.DebugMode {
		r, s := utf8.DecodeRuneInString(message)
		return string(unicode.ToUpper(r)) + message[s:]
	}

	return "Unknown error occurred while processing your request. Error ID: " + errId
}

func wantsJson(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (rr *Responder) renderError(w http.ResponseWriter, r *http.Request, status int, message, errId string) {
	msg := rr.message(message, errId)

	var bs []byte
	var err error
	if wantsJson(r) {
		bs, err = json.Marshal(map[string]any{"error": msg})
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		var buf bytes.Buffer
		err = errorPage.Execute(&buf, msg)
		bs = buf.Bytes()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}

	if err != nil {
		log(r.Context(), slog.LevelError, "cannot render error response body: "+err.Error())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		bs = []byte("unknown error")
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.Copy(w, bytes.NewReader(bs))
}

// Needed because it skips one more frame item than the slog.Log
func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := slog.Default()

	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	var pcs [1]uintptr
	// skip [runtime.Callers, this function, this function's caller]
	runtime.Callers(3, pcs[:])
	pc = pcs[0]

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
