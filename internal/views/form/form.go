package form

import (
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookshelf/internal/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("integer", validateInteger)
}

func validateInteger(fl validator.FieldLevel) bool {
	_, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// ValidationError is a failed required-field or type check of a submitted form
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// messages by "Field.tag"; the first failing field of a form is reported
var messages = map[string]string{
	"Isbn.required":            "ISBN is required",
	"Title.required":           "Title is required",
	"Category.required":        "Category is required",
	"PublicationYear.required": "Publication year must be a valid number",
	"PublicationYear.integer":  "Publication year must be a valid number",
	"Name.required":            "Name is required",
	"DateOfBirth.datetime":     "Date of birth must be a valid date",
}

type Book struct {
	Isbn            string `validate:"required"`
	Title           string `validate:"required"`
	Category        string `validate:"required"`
	PublicationYear string `validate:"required,integer"`
	AuthorIds       []int64
}

type Author struct {
	Name        string `validate:"required"`
	Nationality string
	DateOfBirth string `validate:"omitempty,datetime=2006-01-02"`
	BookIds     []int64
}

func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := errs[0]
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fe.Field() + " is invalid"
	}

	return &ValidationError{Field: fe.Field(), Message: msg}
}

// Payload validates the form and converts it into the request body
func (b *Book) Payload() (*types.BookPayload, error) {
	if err := check(b); err != nil {
		return nil, err
	}

	year, _ := strconv.Atoi(strings.TrimSpace(b.PublicationYear))

	return &types.BookPayload{
		Isbn:            b.Isbn,
		Title:           b.Title,
		Category:        b.Category,
		PublicationYear: year,
		AuthorIds:       b.AuthorIds,
	}, nil
}

func (a *Author) Payload() (*types.AuthorPayload, error) {
	if err := check(a); err != nil {
		return nil, err
	}

	var dob *types.Date
	if a.DateOfBirth != "" {
		var err error
		dob, err = types.ParseDate(a.DateOfBirth)
		if err != nil {
			return nil, &ValidationError{Field: "DateOfBirth", Message: messages["DateOfBirth.datetime"]}
		}
	}

	return &types.AuthorPayload{
		Name:        a.Name,
		Nationality: a.Nationality,
		DateOfBirth: dob,
		BookIds:     a.BookIds,
	}, nil
}

// FromBook fills the form for editing an existing book
func FromBook(b *types.Book) Book {
	ids := make([]int64, 0, len(b.AuthorIds))
	for id := range b.AuthorIdSet() {
		ids = append(ids, id)
	}
	sortIds(ids)

	return Book{
		Isbn:            b.Isbn,
		Title:           b.Title,
		Category:        b.Category,
		PublicationYear: strconv.Itoa(b.PublicationYear),
		AuthorIds:       ids,
	}
}

func FromAuthor(a *types.Author) Author {
	ids := make([]int64, 0, len(a.BookIds))
	for id := range a.BookIdSet() {
		ids = append(ids, id)
	}
	sortIds(ids)

	dob := ""
	if a.DateOfBirth != nil {
		dob = a.DateOfBirth.String()
	}

	return Author{
		Name:        a.Name,
		Nationality: a.Nationality,
		DateOfBirth: dob,
		BookIds:     ids,
	}
}

func sortIds(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// Selected reports whether id is among ids, used by the picker templates
func Selected(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}
