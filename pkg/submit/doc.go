// Package submit implements the form submission controller.
//
// Each submission attempt walks a fixed state machine:
//
//	Idle → Validating → {Rejected | Submitting} → {Succeeded | Failed} → Idle
//
// Validation checks every field in document order — there is no
// short-circuit, so all error annotations appear together. A rejected
// attempt performs no network I/O. An accepted attempt disables the submit
// control for the full duration of the in-flight request and restores it on
// every exit path.
//
// Document reads and mutations are marshalled onto the document's goroutine
// through its dispatcher; the network round trip runs between those blocks,
// so a wired event loop keeps serving other interactions while a request is
// in flight.
//
// The controller is instrumented with Prometheus metrics (opt-in via
// WithMetrics) and an OpenTelemetry span per attempt.
package submit
