package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/response"
	"bookshelf/internal/views/authors"
	"bookshelf/internal/views/form"
)

func authorsRoutes(vm *authors.ViewModel, rr *response.Responder) func(r chi.Router) {
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

			bookIds, err := getIds("bookIds", r.PostForm)
			if err != nil {
				rr.RespondAndLogCustom(w, r, err, slog.LevelWarn, http.StatusBadRequest)
				return
			}

			_ = vm.Save(r.Context(), form.Author{
				Name:        r.PostForm.Get("name"),
				Nationality: r.PostForm.Get("nationality"),
				DateOfBirth: r.PostForm.Get("dateOfBirth"),
				BookIds:     bookIds,
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

		r.Post("/{id}/books/attach", withIds(rr, "bookIds", func(r *http.Request, id int64, ids []int64) {
			_ = vm.AttachBooks(r.Context(), id, ids...)
		}))

		r.Post("/{id}/books/detach", withIds(rr, "bookIds", func(r *http.Request, id int64, ids []int64) {
			_ = vm.DetachBooks(r.Context(), id, ids...)
		}))
	}
}
