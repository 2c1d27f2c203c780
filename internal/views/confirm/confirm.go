// Package confirm implements the confirm-then-act dialog shared by the book and author pages.
package confirm

import (
	"context"
	"sync"
)

type Action func(ctx context.Context)

// Dialog holds at most one pending action. Opening the dialog replaces the previous action
// instead of adding to it, so confirming never runs more than one action.
type Dialog struct {
	mu      sync.Mutex
	open    bool
	message string
	action  Action
}

func (d *Dialog) Open(message string, action Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.open = true
	d.message = message
	d.action = action
}

// Confirm runs the pending action once and closes the dialog.
// Returns false when there was nothing to run.
func (d *Dialog) Confirm(ctx context.Context) bool {
	d.mu.Lock()
	action := d.action
	d.action = nil
	d.open = false
	d.message = ""
	d.mu.Unlock()

	if action == nil {
		return false
	}

	action(ctx)
	return true
}

// Dismiss closes the dialog without running the action
func (d *Dialog) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.open = false
	d.message = ""
	d.action = nil
}

type State struct {
	Open    bool
	Message string
}

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return State{Open: d.open, Message: d.message}
}
