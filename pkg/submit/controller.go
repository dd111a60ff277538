package submit

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pagelift-dev/pagelift/internal/errors"
	"github.com/pagelift-dev/pagelift/pkg/dom"
	"github.com/pagelift-dev/pagelift/pkg/form"
	"github.com/pagelift-dev/pagelift/pkg/notify"
)

// User-visible strings of the submission pipeline.
const (
	BusyLabel  = "Sending..."
	ReadyLabel = "Submit"

	MsgRejected = "Please correct the errors above"
	MsgSuccess  = "Form submitted successfully!"
	MsgFailure  = "Error submitting form. Please try again."
)

// RequestedWithHeader marks relayed submissions as script-issued.
const (
	RequestedWithHeader = "X-Requested-With"
	requestedWithValue  = "XMLHttpRequest"
)

// ErrInFlight is returned when a submission is attempted for a form whose
// previous attempt has not resolved yet. The disabled submit control makes
// this unreachable through normal interaction; the guard holds even when an
// event bypasses the control.
var ErrInFlight = errors.New(errors.CategorySubmission, "submission already in flight")

// Option configures a Controller.
type Option func(*Controller)

// WithClient sets the HTTP client used for submissions.
func WithClient(client *http.Client) Option {
	return func(c *Controller) {
		c.client = client
	}
}

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus metrics for the controller.
func WithMetrics(opts ...MetricsOption) Option {
	return func(c *Controller) {
		c.metrics = newMetrics(opts...)
	}
}

// Controller orchestrates validation, network submission, and outcome
// presentation for a document's forms.
type Controller struct {
	doc       *dom.Document
	presenter *form.Presenter
	notifier  *notify.Notifier
	client    *http.Client
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *metrics

	mu       sync.Mutex
	state    State
	inFlight map[string]bool // form NID → attempt in progress
}

// NewController creates a Controller for the given document.
func NewController(doc *dom.Document, presenter *form.Presenter, notifier *notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		doc:       doc,
		presenter: presenter,
		notifier:  notifier,
		client:    http.DefaultClient,
		logger:    slog.Default().With("component", "submit"),
		tracer:    otel.Tracer("pagelift"),
		inFlight:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the state of the most recent submission attempt.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Submit runs one submission attempt for the form.
//
// Every field is checked in document order so all annotations appear
// together. If any field is invalid the attempt is rejected with a single
// notification and no network I/O. Otherwise the submit control is disabled
// and relabeled for the full duration of the request; it is re-enabled and
// restored to ReadyLabel on every exit path.
//
// All document work is marshalled through the document's dispatcher
// (dom.Document.Do), so a wired event loop never blocks on the network
// round trip. Submit itself blocks until the attempt resolves; when a
// dispatcher is installed it must run off the event loop, which is how the
// initializer binds it.
//
// The returned error reports rejection (CategorySubmission) or transport
// failure (CategoryTransport); both have already been surfaced to the user
// as notifications, so callers only need the error for diagnostics.
func (c *Controller) Submit(ctx context.Context, f form.Form) error {
	nid := f.Node().NID
	c.mu.Lock()
	if c.inFlight[nid] {
		c.mu.Unlock()
		return ErrInFlight
	}
	c.inFlight[nid] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.inFlight, nid)
		c.state = StateIdle
		c.mu.Unlock()
	}()

	var (
		action string
		method string
		fields int
	)
	c.doc.Do(func() {
		action = f.Action()
		method = f.Method()
		fields = len(f.Fields())
	})

	ctx, span := c.tracer.Start(ctx, "pagelift.submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("pagelift.form.action", action),
			attribute.String("pagelift.form.method", method),
			attribute.Int("pagelift.form.fields", fields),
		),
	)
	defer span.End()

	start := time.Now()
	outcome := c.run(ctx, f)
	state := c.State()
	span.SetAttributes(attribute.String("pagelift.outcome", state.String()))
	c.metrics.recordOutcome(state.String(), time.Since(start).Seconds())

	if outcome != nil {
		span.RecordError(outcome)
		span.SetStatus(codes.Error, outcome.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return outcome
}

// run executes the attempt. Validation and UI mutations happen on the
// document's goroutine; only the network round trip runs between the two
// dispatched blocks.
func (c *Controller) run(ctx context.Context, f form.Form) error {
	var (
		rejected bool
		btn      *dom.Node
		method   string
		action   string
		body     string
	)
	c.doc.Do(func() {
		c.setState(StateValidating)

		// Check every field; no short-circuit.
		valid := true
		for _, field := range f.Fields() {
			ok := form.Validate(c.presenter, field)
			c.metrics.recordFieldCheck(!ok)
			if !ok {
				valid = false
			}
		}
		if !valid {
			c.setState(StateRejected)
			c.notifier.Error(MsgRejected)
			rejected = true
			return
		}

		c.setState(StateSubmitting)
		method = f.Method()
		action = f.Action()
		body = f.Values().Encode()

		btn = f.SubmitControl()
		if btn != nil {
			c.doc.SetAttr(btn, "disabled", true)
			c.doc.SetText(btn, BusyLabel)
		}
	})
	if rejected {
		return errors.New(errors.CategorySubmission, "one or more fields failed validation")
	}

	resp, err := c.send(ctx, method, action, body)

	var outcome error
	if err != nil {
		c.logger.Error("submission transport failure",
			"action", action,
			"error", err)
		outcome = errors.Wrap(errors.CategoryTransport, "submit failed", err)
	} else {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			c.logger.Error("submission rejected by server",
				"action", action,
				"status", resp.StatusCode)
			outcome = errors.Newf(errors.CategoryTransport, "unexpected status %d", resp.StatusCode)
		}
	}

	c.doc.Do(func() {
		if btn != nil {
			c.doc.RemoveAttr(btn, "disabled")
			c.doc.SetText(btn, ReadyLabel)
		}
		if outcome != nil {
			c.setState(StateFailed)
			c.notifier.Error(MsgFailure)
			return
		}
		c.setState(StateSucceeded)
		c.notifier.Success(MsgSuccess)
		f.Reset(c.presenter)
	})
	return outcome
}

// send issues the single network request carrying the form's values.
// No timeout beyond the transport's own is applied.
func (c *Controller) send(ctx context.Context, method, action, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, action, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(RequestedWithHeader, requestedWithValue)
	return c.client.Do(req)
}
