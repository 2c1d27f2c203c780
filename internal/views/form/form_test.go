package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/types"
)

func TestBook_Payload(t *testing.T) {
	valid := Book{Isbn: "111", Title: "A", Category: "Fiction", PublicationYear: " 2000 ", AuthorIds: []int64{3}}

	p, err := valid.Payload()
	require.NoError(t, err)
	assert.Equal(t, &types.BookPayload{Isbn: "111", Title: "A", Category: "Fiction", PublicationYear: 2000, AuthorIds: []int64{3}}, p)

	tests := []struct {
		name    string
		mutate  func(b *Book)
		field   string
		message string
	}{
		{"empty isbn", func(b *Book) { b.Isbn = "" }, "Isbn", "ISBN is required"},
		{"empty title", func(b *Book) { b.Title = "" }, "Title", "Title is required"},
		{"empty category", func(b *Book) { b.Category = "" }, "Category", "Category is required"},
		{"empty year", func(b *Book) { b.PublicationYear = "" }, "PublicationYear", "Publication year must be a valid number"},
		{"non-numeric year", func(b *Book) { b.PublicationYear = "nineteen" }, "PublicationYear", "Publication year must be a valid number"},
		{"fractional year", func(b *Book) { b.PublicationYear = "1999.5" }, "PublicationYear", "Publication year must be a valid number"},
		{"first failure wins", func(b *Book) { b.Title = ""; b.Category = "" }, "Title", "Title is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := valid
			tc.mutate(&b)

			p, err := b.Payload()
			assert.Nil(t, p)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.message, ve.Message)
		})
	}
}

func TestAuthor_Payload(t *testing.T) {
	p, err := (&Author{Name: "Jane Austen", DateOfBirth: "1775-12-16", BookIds: []int64{1}}).Payload()
	require.NoError(t, err)
	require.NotNil(t, p.DateOfBirth)
	assert.Equal(t, "1775-12-16", p.DateOfBirth.String())
	assert.Equal(t, []int64{1}, p.BookIds)

	p, err = (&Author{Name: "Anonymous"}).Payload()
	require.NoError(t, err)
	assert.Nil(t, p.DateOfBirth)

	_, err = (&Author{Nationality: "British"}).Payload()
	assert.EqualError(t, err, "Name is required")

	_, err = (&Author{Name: "X", DateOfBirth: "16/12/1775"}).Payload()
	assert.EqualError(t, err, "Date of birth must be a valid date")
}

func TestFromBook(t *testing.T) {
	f := FromBook(&types.Book{
		Isbn: "111", Title: "A", Category: "Fiction", PublicationYear: 2000,
		Authors:   []types.AuthorSummary{{Id: 5, Name: "E"}, {Id: 2, Name: "B"}},
		AuthorIds: []int64{2},
	})

	assert.Equal(t, "2000", f.PublicationYear)
	assert.Equal(t, []int64{2, 5}, f.AuthorIds)
	assert.True(t, Selected(f.AuthorIds, 5))
	assert.False(t, Selected(f.AuthorIds, 3))
}

func TestFromAuthor(t *testing.T) {
	dob, _ := types.ParseDate("1920-01-02")
	f := FromAuthor(&types.Author{Name: "Isaac Asimov", DateOfBirth: dob, Books: []types.BookSummary{{Id: 4}}})

	assert.Equal(t, "1920-01-02", f.DateOfBirth)
	assert.Equal(t, []int64{4}, f.BookIds)
	assert.Empty(t, FromAuthor(&types.Author{Name: "X"}).DateOfBirth)
}
