package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/notify"
	"bookshelf/internal/response"
	"bookshelf/internal/shell"
	"bookshelf/internal/views/authors"
	"bookshelf/internal/views/books"
	"bookshelf/internal/views/confirm"
)

var errInvalidId = errors.New("invalid id")

type pageData struct {
	Page          shell.Page
	Notifications []notify.Notification
	Confirm       confirm.State
	Books         books.View
	Authors       authors.View
}

// Handler maps every user interaction of the UI to a route. Interactions answer with a redirect
// to "/", which renders the current state of the shell.
func Handler(sh *shell.Shell, rr *response.Responder) http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Page:          sh.Page(),
			Notifications: sh.Notifications.Active(),
			Confirm:       sh.Dialog.State(),
		}

		switch data.Page {
		case shell.PageBooks:
			data.Books = sh.Books.View()
		case shell.PageAuthors:
			data.Authors = sh.Authors.View()
		}

		rr.SendHtml(w, r, pages, "layout", data)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		rr.SendJson(w, r, struct {
			Status string `json:"status"`
		}{Status: "ok"})
	})

	r.Get("/nav/{page}", func(w http.ResponseWriter, r *http.Request) {
		page, err := shell.ParsePage(chi.URLParam(r, "page"))
		if err != nil {
			rr.RespondAndLogCustom(w, r, err, slog.LevelWarn, http.StatusNotFound)
			return
		}

		// load failures are reported through notifications
		_ = sh.Show(r.Context(), page)
		redirectHome(w, r)
	})

	r.Post("/confirm", func(w http.ResponseWriter, r *http.Request) {
		sh.Dialog.Confirm(r.Context())
		redirectHome(w, r)
	})

	r.Post("/confirm/dismiss", func(w http.ResponseWriter, r *http.Request) {
		sh.Dialog.Dismiss()
		redirectHome(w, r)
	})

	r.Post("/notifications/{id}/dismiss", func(w http.ResponseWriter, r *http.Request) {
		sh.Notifications.Dismiss(chi.URLParam(r, "id"))
		redirectHome(w, r)
	})

	r.Route("/books", booksRoutes(sh.Books, rr))
	r.Route("/authors", authorsRoutes(sh.Authors, rr))

	return r
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func getId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidId
	}

	return id, nil
}

// getIds parses every non-empty value of a multi-value form field
func getIds(key string, form url.Values) ([]int64, error) {
	raw := form[key]
	ids := make([]int64, 0, len(raw))

	for _, val := range raw {
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}

		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil || id <= 0 {
			return nil, errInvalidId
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// withId wraps handlers of "/{id}" routes, rejecting malformed ids with 400
func withId(rr *response.Responder, fn func(w http.ResponseWriter, r *http.Request, id int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := getId(r)
		if err != nil {
			rr.RespondAndLogCustom(w, r, err, slog.LevelWarn, http.StatusBadRequest)
			return
		}

		fn(w, r, id)
	}
}

// withIds is withId for routes that also carry a list of related ids in the form body
func withIds(rr *response.Responder, key string, fn func(r *http.Request, id int64, ids []int64)) http.HandlerFunc {
	return withId(rr, func(w http.ResponseWriter, r *http.Request, id int64) {
		if err := r.ParseForm(); err != nil {
			rr.RespondAndLogCustom(w, r, err, slog.LevelWarn, http.StatusBadRequest)
			return
		}

		ids, err := getIds(key, r.PostForm)
		if err != nil {
			rr.RespondAndLogCustom(w, r, err, slog.LevelWarn, http.StatusBadRequest)
			return
		}

		// nothing selected, nothing to send
		if len(ids) > 0 {
			fn(r, id, ids)
		}

		redirectHome(w, r)
	})
}
