// Package notify is the notification dispatcher: a bounded queue of toasts
// that either auto-dismiss after a delay or stay until dismissed.
package notify

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Level classifies a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// DefaultAutoDismiss is how long success toasts stay on screen.
const DefaultAutoDismiss = 5 * time.Second

const maxQueued = 8

// Action is a single labelled button attached to a notification.
type Action struct {
	Label string
}

// Notification is a single toast. An AutoDismiss of zero keeps it on screen
// until dismissed.
type Notification struct {
	ID          ulid.ULID
	Level       Level
	Title       string
	Message     string
	AutoDismiss time.Duration
	Action      *Action
	CreatedAt   time.Time
}

// Persistent reports whether the notification requires explicit dismissal.
func (n Notification) Persistent() bool {
	return n.AutoDismiss <= 0
}

// Success builds an auto-dismissing success notification.
func Success(title, message string) Notification {
	return Notification{
		Level:       LevelSuccess,
		Title:       title,
		Message:     message,
		AutoDismiss: DefaultAutoDismiss,
	}
}

// Error builds an error notification. Pass autoDismiss 0 for a toast that
// stays until dismissed; label adds a single action button when non-empty.
func Error(title, message string, autoDismiss time.Duration, label string) Notification {
	n := Notification{
		Level:       LevelError,
		Title:       title,
		Message:     message,
		AutoDismiss: autoDismiss,
	}
	if label != "" {
		n.Action = &Action{Label: label}
	}
	return n
}

// Queue holds active notifications, oldest first.
type Queue struct {
	items []Notification
}

// Push stamps n with an id and creation time and appends it. When the queue is
// full the oldest auto-dismissing toast is dropped first, then the oldest
// persistent one.
func (q *Queue) Push(n Notification, now time.Time) Notification {
	n.ID = ulid.MustNew(ulid.Timestamp(now), rand.Reader)
	n.CreatedAt = now
	q.items = append(q.items, n)
	for len(q.items) > maxQueued {
		q.dropOldest()
	}
	return n
}

// Expire removes auto-dismissing notifications whose time has passed. It
// returns true when anything was removed.
func (q *Queue) Expire(now time.Time) bool {
	kept := q.items[:0]
	for _, n := range q.items {
		if !n.Persistent() && !now.Before(n.CreatedAt.Add(n.AutoDismiss)) {
			continue
		}
		kept = append(kept, n)
	}
	changed := len(kept) != len(q.items)
	q.items = kept
	return changed
}

// Dismiss removes the notification with id.
func (q *Queue) Dismiss(id ulid.ULID) bool {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissNewest removes the most recent notification, preferring persistent
// ones since they cannot expire on their own.
func (q *Queue) DismissNewest() bool {
	for i := len(q.items) - 1; i >= 0; i-- {
		if q.items[i].Persistent() {
			return q.Dismiss(q.items[i].ID)
		}
	}
	if len(q.items) == 0 {
		return false
	}
	return q.Dismiss(q.items[len(q.items)-1].ID)
}

// Active returns a copy of the queued notifications, oldest first.
func (q *Queue) Active() []Notification {
	if len(q.items) == 0 {
		return nil
	}
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	return len(q.items)
}

func (q *Queue) dropOldest() {
	for i, n := range q.items {
		if !n.Persistent() {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
	q.items = q.items[1:]
}
