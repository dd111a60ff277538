// Package scroll animates the viewport offset of a document.
//
// The easing math is a pure function of elapsed time (Position); the
// Animator drives it through an injected frame scheduler, so animations are
// testable without a rendering loop and integrations can hook their own
// frame source.
package scroll

import (
	"strings"
	"time"

	"github.com/pagelift-dev/pagelift/pkg/dom"
)

// DefaultDuration is how long a scroll animation runs.
const DefaultDuration = 500 * time.Millisecond

// frameInterval approximates a 60fps frame budget for the default scheduler.
const frameInterval = 16 * time.Millisecond

// FrameScheduler schedules fn to run on the next animation frame, passing
// the frame's timestamp. The default implementation ticks on a wall-clock
// timer and marshals frames onto the document's goroutine via Document.Do;
// tests substitute a synchronous scheduler with a fake clock.
type FrameScheduler func(fn func(now time.Time))

// Option configures an Animator.
type Option func(*Animator)

// WithDuration sets the animation duration.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		a.duration = d
	}
}

// WithScheduler sets the frame scheduler driving animations.
func WithScheduler(schedule FrameScheduler) Option {
	return func(a *Animator) {
		a.schedule = schedule
	}
}

// Animator animates a document's viewport offset.
type Animator struct {
	doc      *dom.Document
	schedule FrameScheduler
	duration time.Duration
}

// New creates an Animator for the given document.
func New(doc *dom.Document, opts ...Option) *Animator {
	a := &Animator{
		doc:      doc,
		duration: DefaultDuration,
		schedule: func(fn func(now time.Time)) {
			time.AfterFunc(frameInterval, func() {
				doc.Do(func() {
					fn(time.Now())
				})
			})
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// To animates the viewport from its current offset to target. Each frame
// sets the offset computed by Position for the frame's elapsed time; the
// final frame lands exactly on target.
func (a *Animator) To(target float64) {
	from := a.doc.ScrollY()
	if from == target {
		return
	}
	if a.duration <= 0 {
		a.doc.SetScrollY(target)
		return
	}

	var start time.Time
	var step func(now time.Time)
	step = func(now time.Time) {
		if start.IsZero() {
			start = now
		}
		elapsed := now.Sub(start)
		a.doc.SetScrollY(Position(elapsed, a.duration, from, target))
		if elapsed < a.duration {
			a.schedule(step)
		}
	}
	a.schedule(step)
}

// ToTop animates the viewport to the top of the page.
func (a *Animator) ToTop() {
	a.To(0)
}

// ToAnchor brings the element addressed by an in-page target ("#contact" or
// "contact") into view. Element layout offsets live on the attached page, so
// the jump is delegated to the page runtime rather than animated locally.
// Returns false if no element matches.
func (a *Animator) ToAnchor(target string) bool {
	id := strings.TrimPrefix(target, "#")
	if id == "" {
		a.ToTop()
		return true
	}
	n := a.doc.ElementByID(id)
	if n == nil {
		return false
	}
	a.doc.ScrollTo(n)
	return true
}
