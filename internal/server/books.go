package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/response"
	"bookshelf/internal/views/books"
	"bookshelf/internal/views/form"
)

func booksRoutes(vm *books.ViewModel, rr *response.Responder) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
			vm.Search(r.URL.Query().Get("q"))
			redirectHome(w, r)
		})

		r.Get("/new", func(w http.ResponseWriter, r *http.Request) {
			vm.OpenCreate()
			redirectHome(w, r)
		})

		r.Post("/save", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				rr.RespondAndLogCustom(w, r, err, slog.LevelWarn, http.StatusBadRequest)
				return
			}

			authorIds, err := getIds("authorIds", r.PostForm)
			if err != nil {
				rr.RespondAndLogCustom(w, r, err, slog.LevelWarn, http.StatusBadRequest)
				return
			}

			// failures are reported through notifications, the form stays open
			_ = vm.Save(r.Context(), form.Book{
				Isbn:            r.PostForm.Get("isbn"),
				Title:           r.PostForm.Get("title"),
				Category:        r.PostForm.Get("category"),
				PublicationYear: r.PostForm.Get("publicationYear"),
				AuthorIds:       authorIds,
			})
			redirectHome(w, r)
		})

		r.Post("/cancel", func(w http.ResponseWriter, r *http.Request) {
			vm.Cancel()
			redirectHome(w, r)
		})

		r.Post("/details/close", func(w http.ResponseWriter, r *http.Request) {
			vm.CloseDetails()
			redirectHome(w, r)
		})

		r.Get("/{id}", withId(rr, func(w http.ResponseWriter, r *http.Request, id int64) {
			_ = vm.ShowDetails(r.Context(), id)
			redirectHome(w, r)
		}))

		r.Get("/{id}/edit", withId(rr, func(w http.ResponseWriter, r *http.Request, id int64) {
			_ = vm.OpenEdit(r.Context(), id)
			redirectHome(w, r)
		}))

		r.Post("/{id}/delete", withId(rr, func(w http.ResponseWriter, r *http.Request, id int64) {
			vm.RequestDelete(id)
			redirectHome(w, r)
		}))

		r.Post("/{id}/authors/attach", withIds(rr, "authorIds", func(r *http.Request, id int64, ids []int64) {
			_ = vm.AttachAuthors(r.Context(), id, ids...)
		}))

		r.Post("/{id}/authors/detach", withIds(rr, "authorIds", func(r *http.Request, id int64, ids []int64) {
			_ = vm.DetachAuthors(r.Context(), id, ids...)
		}))
	}
}
