// Package shell owns the page switch and everything the pages share: both view-models, the
// confirmation dialog and the notification queue.
package shell

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"bookshelf/internal/notify"
	authorstore "bookshelf/internal/storage/authors"
	bookstore "bookshelf/internal/storage/books"
	"bookshelf/internal/views/authors"
	"bookshelf/internal/views/books"
	"bookshelf/internal/views/confirm"
)

type Page string

const (
	PageWelcome Page = "welcome"
	PageBooks   Page = "books"
	PageAuthors Page = "authors"
)

// ErrUnknownPage is returned by ParsePage and Show for anything but the three pages
var ErrUnknownPage = errors.New("unknown page")

func ParsePage(s string) (Page, error) {
	switch p := Page(s); p {
	case PageWelcome, PageBooks, PageAuthors:
		return p, nil
	default:
		return "", ErrUnknownPage
	}
}

type Shell struct {
	Books         *books.ViewModel
	Authors       *authors.ViewModel
	Dialog        *confirm.Dialog
	Notifications *notify.Queue

	logger *slog.Logger

	mu   sync.Mutex
	page Page
}

func New(br bookstore.Repository, ar authorstore.Repository, q *notify.Queue, l *slog.Logger) *Shell {
	d := &confirm.Dialog{}

	return &Shell{
		Books:         books.New(br, ar, q, d, l),
		Authors:       authors.New(ar, br, q, d, l),
		Dialog:        d,
		Notifications: q,
		logger:        l,
		page:          PageWelcome,
	}
}

// Init loads both view-models. Failures are already reported as notifications, the returned
// error is for logging only.
func (s *Shell) Init(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.Books.Init(ctx) })
	g.Go(func() error { return s.Authors.Init(ctx) })

	return g.Wait()
}

// Show switches the visible page. Switching to a data page reloads it.
func (s *Shell) Show(ctx context.Context, page Page) error {
	if _, err := ParsePage(string(page)); err != nil {
		return err
	}

	s.mu.Lock()
	s.page = page
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Switched page to "+string(page))

	switch page {
	case PageBooks:
		return s.Books.Refresh(ctx)
	case PageAuthors:
		return s.Authors.Refresh(ctx)
	}

	return nil
}

func (s *Shell) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.page
}

// Close stops the notification timers
func (s *Shell) Close() {
	s.Notifications.Close()
}
