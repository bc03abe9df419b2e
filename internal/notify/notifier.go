// Package notify manages the storefront's transient notifications:
// short-lived messages appended to a notification region and removed
// again after a fixed display duration.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for presentation purposes.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Display durations. Ad hoc action outcomes stay up briefly; page-load
// flash messages get a little longer.
const (
	ShowDuration  = 3 * time.Second
	FlashDuration = 5 * time.Second
)

// Notification is one visible message.
type Notification struct {
	Message  string
	Severity Severity
	Duration time.Duration
}

// Region is the surface notifications are rendered into. Implementations
// must tolerate Remove being called for an ID they no longer hold.
type Region interface {
	Append(id string, n Notification)
	Remove(id string)
}

// Notifier appends notifications to a Region and schedules their
// removal. It is safe for concurrent use; removal timers fire on their
// own goroutines.
type Notifier struct {
	region Region

	mu     sync.Mutex
	active map[string]Notification

	// after schedules fn to run once d has elapsed. Tests replace it to
	// fire timers deterministically.
	after func(d time.Duration, fn func())
}

func NewNotifier(region Region) *Notifier {
	return &Notifier{
		region: region,
		active: make(map[string]Notification),
		after:  func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// Show displays an ad hoc action-outcome notification.
func (n *Notifier) Show(message string, severity Severity) string {
	return n.display(Notification{Message: message, Severity: severity, Duration: ShowDuration})
}

// Flash displays a page-load flash message.
func (n *Notifier) Flash(message string, severity Severity) string {
	return n.display(Notification{Message: message, Severity: severity, Duration: FlashDuration})
}

// Dismiss removes a notification before its timer fires. Dismissing an
// unknown or already-expired ID is a no-op.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	_, ok := n.active[id]
	delete(n.active, id)
	n.mu.Unlock()

	if ok {
		n.region.Remove(id)
	}
}

// Active returns the number of currently visible notifications.
func (n *Notifier) Active() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.active)
}

func (n *Notifier) display(note Notification) string {
	id := uuid.New().String()

	n.mu.Lock()
	n.active[id] = note
	n.mu.Unlock()

	n.region.Append(id, note)
	n.after(note.Duration, func() { n.Dismiss(id) })
	return id
}
