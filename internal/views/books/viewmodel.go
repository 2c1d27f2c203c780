// Package books is the view-model of the books page: the loaded book list, the author picker,
// the add/edit form, details and search.
package books

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

type Row struct {
	Book        *types.Book
	AuthorNames string
}

type Form struct {
	Open bool
	// Title of the dialog, "Add Book" or "Edit Book"
	Title string
	// EditingId is nil in create mode
	EditingId *int64
	Values    form.Book
}

// View is a snapshot for rendering; it is never modified after being returned
type View struct {
	Rows      []Row
	NoResults bool
	Query     string
	Form      Form
	Details   *types.Book
	Authors   []*types.Author
}

type ViewModel struct {
	books    bookstore.Repository
	authors  authorstore.Repository
	notifier notify.Notifier
	dialog   *confirm.Dialog
	logger   *slog.Logger

	mu        sync.Mutex
	list      []*types.Book
	options   []*types.Author
	query     string
	formOpen  bool
	editingId *int64
	values    form.Book
	details   *types.Book
}

func New(br bookstore.Repository, ar authorstore.Repository, n notify.Notifier, d *confirm.Dialog,
	l *slog.Logger) *ViewModel {

	return &ViewModel{
		books:    br,
		authors:  ar,
		notifier: n,
		dialog:   d,
		logger:   l,
		list:     make([]*types.Book, 0),
		options:  make([]*types.Author, 0),
	}
}

// Init loads books and the author picker options. Both loads run concurrently and the state is
// published only after both have finished.
func (vm *ViewModel) Init(ctx context.Context) error {
	return vm.Refresh(ctx)
}

// Refresh is Init for an already initialized view-model, used on page switches
func (vm *ViewModel) Refresh(ctx context.Context) error {
	var list []*types.Book
	var options []*types.Author

	var g errgroup.Group
	g.Go(func() error {
		var err error
		list, err = vm.fetchBooks(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		options, err = vm.fetchAuthors(ctx)
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

// Load replaces the book list with a fresh copy from the backend
func (vm *ViewModel) Load(ctx context.Context) error {
	list, err := vm.fetchBooks(ctx)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.list = list
	vm.mu.Unlock()

	return nil
}

// LoadAuthors refreshes the options of the author picker
func (vm *ViewModel) LoadAuthors(ctx context.Context) error {
	options, err := vm.fetchAuthors(ctx)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.options = options
	vm.mu.Unlock()

	return nil
}

func (vm *ViewModel) fetchBooks(ctx context.Context) ([]*types.Book, error) {
	list, err := vm.books.GetAll(ctx)
	if err != nil {
		vm.logger.ErrorContext(ctx, "Failed to load books: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error loading books")
		return nil, err
	}

	return list, nil
}

func (vm *ViewModel) fetchAuthors(ctx context.Context) ([]*types.Author, error) {
	options, err := vm.authors.GetAll(ctx)
	if err != nil {
		vm.logger.ErrorContext(ctx, "Failed to load authors for picker: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error loading authors")
		return nil, err
	}

	return options, nil
}

// Search sets the filter query; no backend call is made
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
	vm.values = form.Book{}
}

func (vm *ViewModel) OpenEdit(ctx context.Context, id int64) error {
	book, err := vm.books.GetById(ctx, id)
	if err != nil {
		vm.logger.ErrorContext(ctx, "Failed to load book "+strconv.FormatInt(id, 10)+" for editing: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error loading book details")
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.formOpen = true
	vm.editingId = &book.Id
	vm.values = form.FromBook(book)

	return nil
}

// Cancel closes the form without touching the backend
func (vm *ViewModel) Cancel() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.formOpen = false
	vm.editingId = nil
	vm.values = form.Book{}
}

// Save creates or updates the book depending on the form mode, then reloads the list.
// Invalid forms are rejected before any backend call.
func (vm *ViewModel) Save(ctx context.Context, f form.Book) error {
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
		_, err = vm.books.Update(ctx, *editingId, payload)
	} else {
		_, err = vm.books.Create(ctx, payload)
	}

	if err != nil {
		vm.logger.WarnContext(ctx, "Failed to save book: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, views.FailureMessage(err, "Failed to save book"))
		return err
	}

	if editingId != nil {
		vm.notifier.Notify(notify.KindSuccess, "Book updated successfully")
	} else {
		vm.notifier.Notify(notify.KindSuccess, "Book created successfully")
	}

	vm.Cancel()

	_ = vm.Load(ctx)
	return nil
}

// RequestDelete opens the shared confirmation dialog for the book. Returns false if the book is
// not in the loaded list.
func (vm *ViewModel) RequestDelete(id int64) bool {
	vm.mu.Lock()
	var book *types.Book
	for _, b := range vm.list {
		if b.Id == id {
			book = b
			break
		}
	}
	vm.mu.Unlock()

	if book == nil {
		return false
	}

	vm.dialog.Open(`Are you sure you want to delete the book "`+book.Title+`"?`, func(ctx context.Context) {
		vm.delete(ctx, id)
	})

	return true
}

func (vm *ViewModel) delete(ctx context.Context, id int64) {
	if err := vm.books.Delete(ctx, id); err != nil {
		vm.logger.WarnContext(ctx, "Failed to delete book "+strconv.FormatInt(id, 10)+": "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error deleting book")
		return
	}

	vm.notifier.Notify(notify.KindSuccess, "Book deleted successfully")

	vm.mu.Lock()
	if vm.details != nil && vm.details.Id == id {
		vm.details = nil
	}
	vm.mu.Unlock()

	_ = vm.Load(ctx)
}

func (vm *ViewModel) ShowDetails(ctx context.Context, id int64) error {
	book, err := vm.books.GetById(ctx, id)
	if err != nil {
		vm.logger.ErrorContext(ctx, "Failed to load book "+strconv.FormatInt(id, 10)+" details: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, "Error loading book details")
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.details = book
	return nil
}

func (vm *ViewModel) CloseDetails() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.details = nil
}

// AttachAuthors links authors to the book and reloads the list
func (vm *ViewModel) AttachAuthors(ctx context.Context, id int64, authorIds ...int64) error {
	book, err := vm.books.AddAuthors(ctx, id, authorIds...)
	return vm.afterRelationChange(ctx, book, err, "Authors added to book")
}

// DetachAuthors unlinks authors from the book and reloads the list
func (vm *ViewModel) DetachAuthors(ctx context.Context, id int64, authorIds ...int64) error {
	book, err := vm.books.RemoveAuthors(ctx, id, authorIds...)
	return vm.afterRelationChange(ctx, book, err, "Authors removed from book")
}

func (vm *ViewModel) afterRelationChange(ctx context.Context, book *types.Book, err error, success string) error {
	if err != nil {
		vm.logger.WarnContext(ctx, "Failed to change book authors: "+err.Error())
		vm.notifier.Notify(notify.KindDanger, views.FailureMessage(err, "Failed to update book authors"))
		return err
	}

	vm.notifier.Notify(notify.KindSuccess, success)

	vm.mu.Lock()
	if vm.details != nil && vm.details.Id == book.Id {
		vm.details = book
	}
	vm.mu.Unlock()

	_ = vm.Load(ctx)
	return nil
}

func (vm *ViewModel) View() View {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	filtered := search.Filter(vm.list, vm.query, func(b *types.Book) []string {
		return []string{b.Title, b.Isbn, b.Category}
	})

	rows := make([]Row, 0, len(filtered))
	for _, b := range filtered {
		names := make([]string, 0, len(b.Authors))
		for _, a := range b.Authors {
			names = append(names, a.Name)
		}

		rows = append(rows, Row{Book: b, AuthorNames: strings.Join(names, ", ")})
	}

	title := "Add Book"
	var editingId *int64
	if vm.editingId != nil {
		title = "Edit Book"
		id := *vm.editingId
		editingId = &id
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
		Details: vm.details,
		Authors: append([]*types.Author(nil), vm.options...),
	}
}
