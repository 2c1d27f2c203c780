// Package notify keeps the queue of transient notifications shown on every page.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible
const DefaultTTL = 5 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindDanger  Kind = "danger"
	KindInfo    Kind = "info"
)

type Notification struct {
	Id        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Notifier is the only thing view-models know about the queue
type Notifier interface {
	Notify(kind Kind, message string)
}

// Queue is safe for concurrent use. The zero value is not usable, use New.
type Queue struct {
	ttl    time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	active []Notification
	timers map[string]*time.Timer
}

func New(ttl time.Duration, l *slog.Logger) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Queue{ttl: ttl, logger: l}
}

// Notify enqueues a message which is dismissed automatically after the queue TTL
func (q *Queue) Notify(kind Kind, message string) {
	n := Notification{
		Id:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.timers == nil {
		q.timers = make(map[string]*time.Timer)
	}

	q.active = append(q.active, n)
	q.timers[n.Id] = time.AfterFunc(q.ttl, func() {
		q.Dismiss(n.Id)
	})

	q.logger.Debug("Enqueued notification "+n.Id, slog.String("kind", string(kind)), slog.String("message", message))
}

// Dismiss removes the notification before its TTL expires. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}

	for ix, n := range q.active {
		if n.Id == id {
			q.active = append(q.active[:ix:ix], q.active[ix+1:]...)
			return
		}
	}
}

// Active returns visible notifications, oldest first
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]Notification(nil), q.active...)
}

// Close stops pending dismiss timers and drops everything
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, t := range q.timers {
		t.Stop()
	}
	q.timers = nil
	q.active = nil
}
