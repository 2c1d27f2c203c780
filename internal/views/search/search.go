package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Match reports whether query is a case-insensitive substring of any of the fields.
// Empty query matches everything.
func Match(query string, fields ...string) bool {
	if query == "" {
		return true
	}

	fold := cases.Fold()
	q := fold.String(query)

	for _, f := range fields {
		if strings.Contains(fold.String(f), q) {
			return true
		}
	}

	return false
}

// Filter keeps the items for which Match holds over the fields returned by fieldsOf.
// Result is never nil and keeps the order of items.
func Filter[T any](items []T, query string, fieldsOf func(T) []string) []T {
	ret := make([]T, 0, len(items))
	for _, item := range items {
		if Match(query, fieldsOf(item)...) {
			ret = append(ret, item)
		}
	}

	return ret
}
