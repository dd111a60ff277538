// Package notify displays transient, auto-dismissing notifications on a
// pagelift document.
//
// Notifications are page-scoped, not field-scoped: they are appended to a
// fixed container element and removed after a fixed visible duration.
// Concurrent notifications are independent and do not cancel each other.
//
//	n := notify.New(doc)
//	n.Success("Form submitted successfully!")
//	n.Error("Error submitting form. Please try again.")
//
// Dismissal timers fire through an injectable scheduler. The default uses
// time.AfterFunc, which runs the removal on its own goroutine; when the
// document is driven by an event loop, install a timer that re-enters the
// loop (see WithTimer).
package notify
