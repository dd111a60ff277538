package notify

import (
	"time"

	"github.com/pagelift-dev/pagelift/pkg/dom"
)

// Level represents the notification severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3 * time.Second

// ContainerID is the id of the element notifications are appended to.
// The container is created on first use.
const ContainerID = "pagelift-notifications"

// TimerFunc schedules fn to run after d. The default implementation fires
// through time.AfterFunc and marshals fn onto the document's goroutine via
// Document.Do; tests substitute their own.
type TimerFunc func(d time.Duration, fn func())

// Option configures a Notifier.
type Option func(*Notifier)

// WithDuration sets the visible duration for notifications.
func WithDuration(d time.Duration) Option {
	return func(n *Notifier) {
		n.duration = d
	}
}

// WithTimer sets the dismissal timer scheduler.
func WithTimer(timer TimerFunc) Option {
	return func(n *Notifier) {
		n.timer = timer
	}
}

// Notifier creates and auto-dismisses notification widgets on a document.
type Notifier struct {
	doc      *dom.Document
	duration time.Duration
	timer    TimerFunc
}

// New creates a Notifier for the given document.
func New(doc *dom.Document, opts ...Option) *Notifier {
	n := &Notifier{
		doc:      doc,
		duration: DefaultDuration,
		timer: func(d time.Duration, fn func()) {
			time.AfterFunc(d, func() {
				doc.Do(fn)
			})
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show displays a notification and schedules its removal after the
// notifier's duration. Returns the notification node.
func (n *Notifier) Show(message string, level Level) *dom.Node {
	return n.ShowFor(message, level, n.duration)
}

// ShowFor displays a notification with an explicit visible duration.
func (n *Notifier) ShowFor(message string, level Level, d time.Duration) *dom.Node {
	node := dom.Div(
		dom.Class("pagelift-notification", "pagelift-notification-"+string(level)),
		message,
	)
	n.doc.Append(n.container(), node)
	n.timer(d, func() {
		n.doc.Remove(node)
	})
	return node
}

// Success shows a success notification.
func (n *Notifier) Success(message string) *dom.Node {
	return n.Show(message, LevelSuccess)
}

// Error shows an error notification.
func (n *Notifier) Error(message string) *dom.Node {
	return n.Show(message, LevelError)
}

// Warning shows a warning notification.
func (n *Notifier) Warning(message string) *dom.Node {
	return n.Show(message, LevelWarning)
}

// Info shows an info notification.
func (n *Notifier) Info(message string) *dom.Node {
	return n.Show(message, LevelInfo)
}

// Active returns the number of notifications currently attached.
func (n *Notifier) Active() int {
	c := n.doc.ElementByID(ContainerID)
	if c == nil {
		return 0
	}
	return len(c.Children)
}

// container returns the notification container, creating it on first use.
func (n *Notifier) container() *dom.Node {
	if c := n.doc.ElementByID(ContainerID); c != nil {
		return c
	}
	c := dom.Div(dom.ID(ContainerID), dom.Class("pagelift-notification-container"))
	target := n.doc.Root()
	n.doc.Walk(func(node *dom.Node) bool {
		if node.Tag == "body" {
			target = node
			return false
		}
		return true
	})
	n.doc.Append(target, c)
	return c
}
