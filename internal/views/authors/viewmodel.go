// Package authors is the view-model of the authors page.
package authors

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"bookshelf/internal/notify"
	authorstore "bookshelf/internal/storage/authors"
	bookstore "bookshelf/internal/storage/books"
	"bookshelf/internal/types"
	"bookshelf/internal/views"
	"bookshelf/internal/views/confirm"
	"bookshelf/internal/views/form"
	"bookshelf/internal/views/search"
)

const dateDisplayLayout = "Jan 2, 2006"

type Row struct {
	Author      *types.Author
	BookTitles  string
	DateOfBirth string
}

type Form struct {
	Open      bool
	Title     string
	EditingId *int64
	Values    form.Author
}

type View struct {
	Rows      []Row
	NoResults bool
	Query     string
	Form      Form
	Details   *types.Author
	// DetailsDateOfBirth is the formatted date of birth of Details
	DetailsDateOfBirth string
	Books              []*types.Book
}

type ViewModel struct {
	authors  authorstore.Repository
	books    bookstore.Repository
	notifier notify.Notifier
	dialog   *confirm.Dialog
	logger   *slog.Logger

	mu        sync.Mutex
	list      []*types.Author
	options   []*types.Book
	query     string
	formOpen  bool
	editingId *int64
	values    form.Author
	details   *types.Author
}

func New(ar authorstore.Repository, br bookstore.Repository, n notify.Notifier, d *confirm.Dialog,
	l *slog.Logger) *ViewModel {

	return &ViewModel{
		authors:  ar,
		books:    br,
		notifier: n,
		dialog:   d,
		logger:   l,
		list:     make([]*types.Author, 0),
		options:  make([]*types.Book, 0),
	}
}

func (vm *ViewModel) Init(ctx context.Context) error {
	return vm.Refresh(ctx)
}

// Refresh loads authors and the book picker options concurrently and publishes both at once
func (vm *ViewModel) Refresh(ctx context.Context) error {
	var list []*types.Author
	var options []*types.Book

	var g errgroup.Group
	g.Go(func() error {
		var err error
		list, err = vm.fetchAuthors(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		options, err = vm.fetchBooks(ctx)
		return err
	})
	err := g.Wait()

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if list != nil {
		vm.list = list
	}
	if options != nil {
		vm.options = options
	}

	return err
}

func (vm *ViewModel) Load(ctx context.Context) error {
	list, err := vm.fetchAuthors(ctx)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.list = list
	vm.mu.Unlock()

	return nil
}

func (vm *ViewModel) LoadBooks(ctx context.Context) error {
	options, err := vm.fetchBooks(ctx)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.options = options
	vm.mu.Unlock()

	return nil
}

func (vm *ViewModel) fetchAuthors(ctx context.Context) ([]*types.Author, error) {
	list, err := vm.authors.GetAll(ctx)
	if err != nil {
		vm.logger.ErrorContext(ctx, "Failed to load authors: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error loading authors")
		return nil, err
	}

	return list, nil
}

func (vm *ViewModel) fetchBooks(ctx context.Context) ([]*types.Book, error) {
	options, err := vm.books.GetAll(ctx)
	if err != nil {
		vm.logger.ErrorContext(ctx, "Failed to load books for picker: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error loading books")
		return nil, err
	}

	return options, nil
}

func (vm *ViewModel) Search(query string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.query = query
}

func (vm *ViewModel) OpenCreate() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.formOpen = true
	vm.editingId = nil
	vm.values = form.Author{}
}

func (vm *ViewModel) OpenEdit(ctx context.Context, id int64) error {
	author, err := vm.authors.GetById(ctx, id)
	if err != nil {
		vm.logger.ErrorContext(ctx, "Failed to load author "+strconv.FormatInt(id, 10)+" for editing: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error loading author details")
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.formOpen = true
	vm.editingId = &author.Id
	vm.values = form.FromAuthor(author)

	return nil
}

func (vm *ViewModel) Cancel() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.formOpen = false
	vm.editingId = nil
	vm.values = form.Author{}
}

func (vm *ViewModel) Save(ctx context.Context, f form.Author) error {
	vm.mu.Lock()
	editingId := vm.editingId
	vm.values = f
	vm.mu.Unlock()

	payload, err := f.Payload()
	if err != nil {
		vm.notifier.Notify(notify.KindDanger, err.Error())
		return err
	}

	if editingId != nil {
		_, err = vm.authors.Update(ctx, *editingId, payload)
	} else {
		_, err = vm.authors.Create(ctx, payload)
	}

	if err != nil {
		vm.logger.WarnContext(ctx, "Failed to save author: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, views.FailureMessage(err, "Failed to save author"))
		return err
	}

	if editingId != nil {
		vm.notifier.Notify(notify.KindSuccess, "Author updated successfully")
	} else {
		vm.notifier.Notify(notify.KindSuccess, "Author created successfully")
	}

	vm.Cancel()

	_ = vm.Load(ctx)
	return nil
}

func (vm *ViewModel) RequestDelete(id int64) bool {
	vm.mu.Lock()
	var author *types.Author
	for _, a := range vm.list {
		if a.Id == id {
			author = a
			break
		}
	}
	vm.mu.Unlock()

	if author == nil {
		return false
	}

	vm.dialog.Open(`Are you sure you want to delete the author "`+author.Name+`"?`, func(ctx context.Context) {
		vm.delete(ctx, id)
	})

	return true
}

func (vm *ViewModel) delete(ctx context.Context, id int64) {
	if err := vm.authors.Delete(ctx, id); err != nil {
		vm.logger.WarnContext(ctx, "Failed to delete author "+strconv.FormatInt(id, 10)+": "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error deleting author")
		return
	}

	vm.notifier.Notify(notify.KindSuccess, "Author deleted successfully")

	vm.mu.Lock()
	if vm.details != nil && vm.details.Id == id {
		vm.details = nil
	}
	vm.mu.Unlock()

	_ = vm.Load(ctx)
}

func (vm *ViewModel) ShowDetails(ctx context.Context, id int64) error {
	author, err := vm.authors.GetById(ctx, id)
	if err != nil {
		vm.logger.ErrorContext(ctx, "Failed to load author "+strconv.FormatInt(id, 10)+" details: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error loading author details")
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.details = author
	return nil
}

func (vm *ViewModel) CloseDetails() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.details = nil
}

func (vm *ViewModel) AttachBooks(ctx context.Context, id int64, bookIds ...int64) error {
	author, err := vm.authors.AddBooks(ctx, id, bookIds...)
	return vm.afterRelationChange(ctx, author, err, "Books added to author")
}

func (vm *ViewModel) DetachBooks(ctx context.Context, id int64, bookIds ...int64) error {
	author, err := vm.authors.RemoveBooks(ctx, id, bookIds...)
	return vm.afterRelationChange(ctx, author, err, "Books removed from author")
}

func (vm *ViewModel) afterRelationChange(ctx context.Context, author *types.Author, err error, success string) error {
	if err != nil {
		vm.logger.WarnContext(ctx, "Failed to change author books: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, views.FailureMessage(err, "Failed to update author books"))
		return err
	}

	vm.notifier.Notify(notify.KindSuccess, success)

	vm.mu.Lock()
	if vm.details != nil && vm.details.Id == author.Id {
		vm.details = author
	}
	vm.mu.Unlock()

	_ = vm.Load(ctx)
	return nil
}

func formatDate(d *types.Date) string {
	if d == nil {
		return "N/A"
	}

	return d.Format(dateDisplayLayout)
}

func (vm *ViewModel) View() View {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	filtered := search.Filter(vm.list, vm.query, func(a *types.Author) []string {
		return []string{a.Name, a.Nationality}
	})

	rows := make([]Row, 0, len(filtered))
	for _, a := range filtered {
		titles := make([]string, 0, len(a.Books))
		for _, b := range a.Books {
			titles = append(titles, b.Title)
		}

		rows = append(rows, Row{
			Author:      a,
			BookTitles:  strings.Join(titles, ", "),
			DateOfBirth: formatDate(a.DateOfBirth),
		})
	}

	title := "Add Author"
	var editingId *int64
	if vm.editingId != nil {
		title = "Edit Author"
		id := *vm.editingId
		editingId = &id
	}

	detailsDob := ""
	if vm.details != nil {
		detailsDob = formatDate(vm.details.DateOfBirth)
	}

	return View{
		Rows:      rows,
		NoResults: len(rows) == 0 && vm.query != "",
		Query:     vm.query,
		Form: Form{
			Open:      vm.formOpen,
			Title:     title,
			EditingId: editingId,
			Values:    vm.values,
		},
		Details:            vm.details,
		DetailsDateOfBirth: detailsDob,
		Books:              append([]*types.Book(nil), vm.options...),
	}
}
