// Package fakebackend is an in-memory implementation of the catalog REST backend.
// It is used by tests of the request layer, view-models and the web server.
package fakebackend

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"bookshelf/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Backend struct {
	mu sync.Mutex

	nextBookId   int64
	nextAuthorId int64
	books        map[int64]*types.BookPayload
	authors      map[int64]*types.AuthorPayload
	// book id -> author ids, the only place the relation is stored
	links map[int64]map[int64]struct{}

	calls      []string
	failStatus int
	failMsg    string
}

func New() *Backend {
	return &Backend{
		nextBookId:   1,
		nextAuthorId: 1,
		books:        make(map[int64]*types.BookPayload),
		authors:      make(map[int64]*types.AuthorPayload),
		links:        make(map[int64]map[int64]struct{}),
	}
}

// Calls returns "METHOD /path" of every request received so far
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.calls...)
}

func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = nil
}

// FailWith makes every following request fail with the status and message.
// Zero status restores normal operation.
func (b *Backend) FailWith(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failStatus = status
	b.failMsg = message
}

// SeedBook stores a book bypassing validation and returns its id
func (b *Backend) SeedBook(p types.BookPayload) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextBookId
	b.nextBookId++
	cp := p
	b.books[id] = &cp
	b.setBookAuthors(id, p.AuthorIds)

	return id
}

func (b *Backend) SeedAuthor(p types.AuthorPayload) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextAuthorId
	b.nextAuthorId++
	cp := p
	b.authors[id] = &cp
	b.setAuthorBooks(id, p.BookIds)

	return id
}

func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.calls = append(b.calls, r.Method+" "+r.URL.Path)
			status, msg := b.failStatus, b.failMsg
			b.mu.Unlock()

			if status != 0 {
				writeError(w, status, msg)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/", b.listBooks)
		r.Post("/", b.createBook)
		r.Get("/{id}", b.getBook)
		r.Put("/{id}", b.updateBook)
		r.Delete("/{id}", b.deleteBook)
		r.Post("/{id}/authors", b.linkBook(true))
		r.Delete("/{id}/authors", b.linkBook(false))
	})

	r.Route("/authors", func(r chi.Router) {
		r.Get("/", b.listAuthors)
		r.Post("/", b.createAuthor)
		r.Get("/{id}", b.getAuthor)
		r.Put("/{id}", b.updateAuthor)
		r.Delete("/{id}", b.deleteAuthor)
		r.Post("/{id}/books", b.linkAuthor(true))
		r.Delete("/{id}/books", b.linkAuthor(false))
	})

	return r
}

func (b *Backend) listBooks(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ret := make([]*types.Book, 0, len(b.books))
	for _, id := range sortedKeys(b.books) {
		ret = append(ret, b.book(id))
	}

	writeJson(w, http.StatusOK, ret)
}

func (b *Backend) getBook(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.bookId(w, r)
	if !ok {
		return
	}

	writeJson(w, http.StatusOK, b.book(id))
}

func (b *Backend) createBook(w http.ResponseWriter, r *http.Request) {
	var p types.BookPayload
	if !readJson(w, r, &p) || !validBook(w, &p) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, other := range b.books {
		if other.Isbn == p.Isbn {
			writeError(w, http.StatusConflict, "Book with ISBN "+p.Isbn+" already exists")
			return
		}
	}

	id := b.nextBookId
	b.nextBookId++
	b.books[id] = &p
	b.setBookAuthors(id, p.AuthorIds)

	writeJson(w, http.StatusCreated, b.book(id))
}

func (b *Backend) updateBook(w http.ResponseWriter, r *http.Request) {
	var p types.BookPayload
	if !readJson(w, r, &p) || !validBook(w, &p) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.bookId(w, r)
	if !ok {
		return
	}

	for otherId, other := range b.books {
		if otherId != id && other.Isbn == p.Isbn {
			writeError(w, http.StatusConflict, "Book with ISBN "+p.Isbn+" already exists")
			return
		}
	}

	b.books[id] = &p
	b.setBookAuthors(id, p.AuthorIds)

	writeJson(w, http.StatusOK, b.book(id))
}

func (b *Backend) deleteBook(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.bookId(w, r)
	if !ok {
		return
	}

	delete(b.books, id)
	delete(b.links, id)

	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) linkBook(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ids []int64
		if !readJson(w, r, &ids) {
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		id, ok := b.bookId(w, r)
		if !ok {
			return
		}

		for _, authorId := range ids {
			if _, ok := b.authors[authorId]; !ok {
				writeError(w, http.StatusNotFound, fmt.Sprintf("Author not found with id: %d", authorId))
				return
			}
		}

		for _, authorId := range ids {
			b.link(id, authorId, add)
		}

		writeJson(w, http.StatusOK, b.book(id))
	}
}

func (b *Backend) listAuthors(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ret := make([]*types.Author, 0, len(b.authors))
	for _, id := range sortedKeys(b.authors) {
		ret = append(ret, b.author(id))
	}

	writeJson(w, http.StatusOK, ret)
}

func (b *Backend) getAuthor(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.authorId(w, r)
	if !ok {
		return
	}

	writeJson(w, http.StatusOK, b.author(id))
}

func (b *Backend) createAuthor(w http.ResponseWriter, r *http.Request) {
	var p types.AuthorPayload
	if !readJson(w, r, &p) || !validAuthor(w, &p) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextAuthorId
	b.nextAuthorId++
	b.authors[id] = &p
	b.setAuthorBooks(id, p.BookIds)

	writeJson(w, http.StatusCreated, b.author(id))
}

func (b *Backend) updateAuthor(w http.ResponseWriter, r *http.Request) {
	var p types.AuthorPayload
	if !readJson(w, r, &p) || !validAuthor(w, &p) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.authorId(w, r)
	if !ok {
		return
	}

	b.authors[id] = &p
	b.setAuthorBooks(id, p.BookIds)

	writeJson(w, http.StatusOK, b.author(id))
}

func (b *Backend) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.authorId(w, r)
	if !ok {
		return
	}

	delete(b.authors, id)
	for _, authors := range b.links {
		delete(authors, id)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) linkAuthor(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ids []int64
		if !readJson(w, r, &ids) {
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		id, ok := b.authorId(w, r)
		if !ok {
			return
		}

		for _, bookId := range ids {
			if _, ok := b.books[bookId]; !ok {
				writeError(w, http.StatusNotFound, fmt.Sprintf("Book not found with id: %d", bookId))
				return
			}
		}

		for _, bookId := range ids {
			b.link(bookId, id, add)
		}

		writeJson(w, http.StatusOK, b.author(id))
	}
}

func (b *Backend) bookId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}

	if _, ok := b.books[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Book not found with id: %d", id))
		return 0, false
	}

	return id, true
}

func (b *Backend) authorId(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}

	if _, ok := b.authors[id]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Author not found with id: %d", id))
		return 0, false
	}

	return id, true
}

func (b *Backend) link(bookId, authorId int64, add bool) {
	if !add {
		delete(b.links[bookId], authorId)
		return
	}

	if b.links[bookId] == nil {
		b.links[bookId] = make(map[int64]struct{})
	}
	b.links[bookId][authorId] = struct{}{}
}

func (b *Backend) setBookAuthors(bookId int64, authorIds []int64) {
	b.links[bookId] = make(map[int64]struct{}, len(authorIds))
	for _, authorId := range authorIds {
		if _, ok := b.authors[authorId]; ok {
			b.links[bookId][authorId] = struct{}{}
		}
	}
}

func (b *Backend) setAuthorBooks(authorId int64, bookIds []int64) {
	for _, authors := range b.links {
		delete(authors, authorId)
	}
	for _, bookId := range bookIds {
		if _, ok := b.books[bookId]; ok {
			b.link(bookId, authorId, true)
		}
	}
}

func (b *Backend) book(id int64) *types.Book {
	p := b.books[id]
	ret := &types.Book{
		Id:              id,
		Isbn:            p.Isbn,
		Title:           p.Title,
		Category:        p.Category,
		PublicationYear: p.PublicationYear,
		Authors:         make([]types.AuthorSummary, 0),
		AuthorIds:       make([]int64, 0),
	}

	for _, authorId := range sortedKeys(b.links[id]) {
		a := b.authors[authorId]
		ret.AuthorIds = append(ret.AuthorIds, authorId)
		ret.Authors = append(ret.Authors, types.AuthorSummary{
			Id:          authorId,
			Name:        a.Name,
			Nationality: a.Nationality,
			DateOfBirth: a.DateOfBirth,
		})
	}

	return ret
}

func (b *Backend) author(id int64) *types.Author {
	p := b.authors[id]
	ret := &types.Author{
		Id:          id,
		Name:        p.Name,
		Nationality: p.Nationality,
		DateOfBirth: p.DateOfBirth,
		Books:       make([]types.BookSummary, 0),
		BookIds:     make([]int64, 0),
	}

	for _, bookId := range sortedKeys(b.books) {
		if _, ok := b.links[bookId][id]; !ok {
			continue
		}

		bk := b.books[bookId]
		ret.BookIds = append(ret.BookIds, bookId)
		ret.Books = append(ret.Books, types.BookSummary{
			Id:              bookId,
			Isbn:            bk.Isbn,
			Title:           bk.Title,
			Category:        bk.Category,
			PublicationYear: bk.PublicationYear,
		})
	}

	return ret
}

func validBook(w http.ResponseWriter, p *types.BookPayload) bool {
	fields := make(map[string]string)
	if p.Isbn == "" {
		fields["isbn"] = "ISBN is required"
	}
	if p.Title == "" {
		fields["title"] = "Title is required"
	}
	if p.Category == "" {
		fields["category"] = "Category is required"
	}

	if len(fields) > 0 {
		writeJson(w, http.StatusBadRequest, fields)
		return false
	}

	return true
}

func validAuthor(w http.ResponseWriter, p *types.AuthorPayload) bool {
	if p.Name == "" {
		writeJson(w, http.StatusBadRequest, map[string]string{"name": "Name is required"})
		return false
	}

	return true
}

func readJson(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON request: "+err.Error())
		return false
	}

	return true
}

func writeJson(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJson(w, status, map[string]any{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
