package types

type AuthorSummary struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
	DateOfBirth *Date  `json:"dateOfBirth,omitempty"`
}

type BookSummary struct {
	Id              int64  `json:"id"`
	Isbn            string `json:"isbn"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	PublicationYear int    `json:"publicationYear"`
}

type Author struct {
	Id          int64         `json:"id"`
	Name        string        `json:"name"`
	Nationality string        `json:"nationality"`
	DateOfBirth *Date         `json:"dateOfBirth"`
	Books       []BookSummary `json:"books"`
	BookIds     []int64       `json:"bookIds"`
}

type Book struct {
	Id              int64           `json:"id"`
	Isbn            string          `json:"isbn"`
	Title           string          `json:"title"`
	Category        string          `json:"category"`
	PublicationYear int             `json:"publicationYear"`
	Authors         []AuthorSummary `json:"authors"`
	AuthorIds       []int64         `json:"authorIds"`
}

// BookPayload is the body of create and update requests for books
type BookPayload struct {
	Isbn            string  `json:"isbn"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	PublicationYear int     `json:"publicationYear"`
	AuthorIds       []int64 `json:"authorIds"`
}

// AuthorPayload is the body of create and update requests for authors
type AuthorPayload struct {
	Name        string  `json:"name"`
	Nationality string  `json:"nationality"`
	DateOfBirth *Date   `json:"dateOfBirth"`
	BookIds     []int64 `json:"bookIds"`
}

// AuthorIdSet returns ids of the book's authors, taken from the embedded summaries when the
// backend did not send the plain id list.
func (b *Book) AuthorIdSet() map[int64]struct{} {
	ret := make(map[int64]struct{}, len(b.AuthorIds)+len(b.Authors))
	for _, id := range b.AuthorIds {
		ret[id] = struct{}{}
	}
	for _, a := range b.Authors {
		ret[a.Id] = struct{}{}
	}

	return ret
}

func (a *Author) BookIdSet() map[int64]struct{} {
	ret := make(map[int64]struct{}, len(a.BookIds)+len(a.Books))
	for _, id := range a.BookIds {
		ret[id] = struct{}{}
	}
	for _, b := range a.Books {
		ret[b.Id] = struct{}{}
	}

	return ret
}
