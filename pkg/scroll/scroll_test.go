package scroll

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/pagelift-dev/pagelift/pkg/dom"
)

func TestPositionEndpoints(t *testing.T) {
	d := 500 * time.Millisecond

	if got := Position(0, d, 800, 0); got != 800 {
		t.Errorf("Expected start offset 800, got %v", got)
	}
	if got := Position(d, d, 800, 0); got != 0 {
		t.Errorf("Expected end offset 0, got %v", got)
	}
	if got := Position(d+time.Second, d, 800, 0); got != 0 {
		t.Errorf("Expected clamp past duration, got %v", got)
	}
	if got := Position(-time.Second, d, 800, 0); got != 800 {
		t.Errorf("Expected clamp before start, got %v", got)
	}
}

func TestPositionMidpoint(t *testing.T) {
	d := 500 * time.Millisecond
	got := Position(d/2, d, 800, 0)
	if math.Abs(got-400) > 1e-9 {
		t.Errorf("Expected midpoint 400, got %v", got)
	}
}

func TestPositionSymmetric(t *testing.T) {
	// Ease-in and ease-out halves mirror each other:
	// p(t) + p(duration-t) == from + to.
	d := time.Second
	for _, elapsed := range []time.Duration{
		50 * time.Millisecond,
		200 * time.Millisecond,
		333 * time.Millisecond,
		450 * time.Millisecond,
	} {
		a := Position(elapsed, d, 0, 1000)
		b := Position(d-elapsed, d, 0, 1000)
		if math.Abs(a+b-1000) > 1e-6 {
			t.Errorf("Expected symmetry at %v: %v + %v != 1000", elapsed, a, b)
		}
	}
}

func TestPositionMonotonic(t *testing.T) {
	d := time.Second
	prev := Position(0, d, 800, 0)
	for elapsed := 10 * time.Millisecond; elapsed <= d; elapsed += 10 * time.Millisecond {
		got := Position(elapsed, d, 800, 0)
		if got > prev {
			t.Fatalf("Expected monotonic descent, got %v after %v at %v", got, prev, elapsed)
		}
		prev = got
	}
}

func TestPositionZeroDuration(t *testing.T) {
	if got := Position(0, 0, 800, 0); got != 0 {
		t.Errorf("Expected immediate arrival for zero duration, got %v", got)
	}
}

// fakeFrames is a synchronous frame scheduler with a fake clock.
type fakeFrames struct {
	now   time.Time
	queue []func(time.Time)
}

func (f *fakeFrames) schedule(fn func(now time.Time)) {
	f.queue = append(f.queue, fn)
}

// run drains the frame queue, advancing the clock by step per frame.
// Returns the number of frames executed.
func (f *fakeFrames) run(step time.Duration) int {
	frames := 0
	for len(f.queue) > 0 {
		fn := f.queue[0]
		f.queue = f.queue[1:]
		f.now = f.now.Add(step)
		fn(f.now)
		frames++
		if frames > 10000 {
			break
		}
	}
	return frames
}

func testDoc() *dom.Document {
	return dom.New(dom.Html(
		dom.Head(),
		dom.Body(
			dom.Section(dom.ID("contact")),
		),
	))
}

func TestToTopAnimates(t *testing.T) {
	doc := testDoc()
	doc.SetScrollY(800)

	var offsets []float64
	doc.SetRecorder(dom.RecorderFunc(func(m dom.Mutation) {
		if m.Op == dom.OpScroll {
			offsets = append(offsets, m.Y)
		}
	}))

	frames := &fakeFrames{now: time.Unix(0, 0)}
	a := New(doc, WithScheduler(frames.schedule), WithDuration(160*time.Millisecond))
	a.ToTop()

	ran := frames.run(16 * time.Millisecond)
	if ran < 2 {
		t.Fatalf("Expected multiple frames, got %d", ran)
	}
	if doc.ScrollY() != 0 {
		t.Errorf("Expected final offset 0, got %v", doc.ScrollY())
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] > offsets[i-1] {
			t.Fatalf("Expected descending offsets, got %v", offsets)
		}
	}
	if offsets[len(offsets)-1] != 0 {
		t.Errorf("Expected last recorded offset 0, got %v", offsets[len(offsets)-1])
	}
}

func TestToAlreadyThereSchedulesNothing(t *testing.T) {
	doc := testDoc()
	frames := &fakeFrames{now: time.Unix(0, 0)}
	a := New(doc, WithScheduler(frames.schedule))

	a.ToTop()
	if len(frames.queue) != 0 {
		t.Errorf("Expected no frames scheduled at rest, got %d", len(frames.queue))
	}
}

func TestToZeroDurationJumps(t *testing.T) {
	doc := testDoc()
	doc.SetScrollY(400)
	frames := &fakeFrames{now: time.Unix(0, 0)}
	a := New(doc, WithScheduler(frames.schedule), WithDuration(0))

	a.ToTop()
	if doc.ScrollY() != 0 {
		t.Errorf("Expected immediate jump to 0, got %v", doc.ScrollY())
	}
	if len(frames.queue) != 0 {
		t.Errorf("Expected no frames scheduled, got %d", len(frames.queue))
	}
}

func TestToAnchor(t *testing.T) {
	doc := testDoc()
	target := doc.ElementByID("contact")

	var scrolled []string
	doc.SetRecorder(dom.RecorderFunc(func(m dom.Mutation) {
		if m.Op == dom.OpScroll {
			scrolled = append(scrolled, m.NID)
		}
	}))

	a := New(doc)
	if !a.ToAnchor("#contact") {
		t.Fatal("Expected anchor to resolve")
	}
	if len(scrolled) != 1 || scrolled[0] != target.NID {
		t.Errorf("Expected scroll mutation for %q, got %v", target.NID, scrolled)
	}

	if a.ToAnchor("#missing") {
		t.Error("Expected unresolved anchor to return false")
	}
}

func TestDefaultSchedulerDefersToDispatcher(t *testing.T) {
	doc := testDoc()
	doc.SetScrollY(400)

	var mu sync.Mutex
	var queued []func()
	doc.SetDispatcher(func(fn func()) bool {
		mu.Lock()
		queued = append(queued, fn)
		mu.Unlock()
		return true
	})

	a := New(doc, WithDuration(200*time.Millisecond))
	a.ToTop()

	// The wall-clock scheduler fires on its own goroutine but must hand the
	// frame to the dispatcher instead of stepping the document directly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		pending := len(queued)
		mu.Unlock()
		if pending > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Expected a frame routed to the dispatcher")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if doc.ScrollY() != 400 {
		t.Fatalf("Expected offset untouched until the dispatcher runs, got %v", doc.ScrollY())
	}

	mu.Lock()
	frame := queued[0]
	mu.Unlock()
	frame()
}

func TestToAnchorBareHash(t *testing.T) {
	doc := testDoc()
	doc.SetScrollY(300)

	frames := &fakeFrames{now: time.Unix(0, 0)}
	a := New(doc, WithScheduler(frames.schedule), WithDuration(80*time.Millisecond))

	if !a.ToAnchor("#") {
		t.Fatal("Expected bare hash to resolve to top")
	}
	frames.run(16 * time.Millisecond)
	if doc.ScrollY() != 0 {
		t.Errorf("Expected scroll to top, got %v", doc.ScrollY())
	}
}
