// Package views holds what the book and author view-models share.
package views

import "bookshelf/internal/storage/rest"

// FailureMessage is the notification text of a failed save: the backend's own message when it
// sent one, fallback otherwise.
func FailureMessage(err error, fallback string) string {
	if msg := rest.BackendMessage(err); msg != "" {
		return "Error: " + msg
	}

	return "Error: " + fallback
}
