package pagelift

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pagelift-dev/pagelift/internal/errors"
	"github.com/pagelift-dev/pagelift/pkg/dom"
	"github.com/pagelift-dev/pagelift/pkg/form"
	"github.com/pagelift-dev/pagelift/pkg/notify"
	"github.com/pagelift-dev/pagelift/pkg/scroll"
	"github.com/pagelift-dev/pagelift/pkg/submit"
)

// StylesheetKey identifies the injected stylesheet. Injection is keyed, so
// enhancing a document inserts the styles exactly once — and doubles as the
// guard against enhancing the same document twice.
const StylesheetKey = "pagelift-styles"

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithHTTPClient sets the client used for form submissions.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Enhancer) {
		e.submitOpts = append(e.submitOpts, submit.WithClient(client))
	}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enhancer) {
		e.logger = logger
	}
}

// WithMetrics enables Prometheus metrics on the submission controller.
func WithMetrics(opts ...submit.MetricsOption) Option {
	return func(e *Enhancer) {
		e.submitOpts = append(e.submitOpts, submit.WithMetrics(opts...))
	}
}

// WithNotificationDuration sets how long notifications stay visible.
func WithNotificationDuration(d time.Duration) Option {
	return func(e *Enhancer) {
		e.notifyOpts = append(e.notifyOpts, notify.WithDuration(d))
	}
}

// WithTimer sets the notification dismissal scheduler.
func WithTimer(timer notify.TimerFunc) Option {
	return func(e *Enhancer) {
		e.notifyOpts = append(e.notifyOpts, notify.WithTimer(timer))
	}
}

// WithScrollDuration sets the scroll animation duration.
func WithScrollDuration(d time.Duration) Option {
	return func(e *Enhancer) {
		e.scrollOpts = append(e.scrollOpts, scroll.WithDuration(d))
	}
}

// WithFrameScheduler sets the frame scheduler driving scroll animations.
func WithFrameScheduler(schedule scroll.FrameScheduler) Option {
	return func(e *Enhancer) {
		e.scrollOpts = append(e.scrollOpts, scroll.WithScheduler(schedule))
	}
}

// WithContext sets the base context for submissions started by page events.
func WithContext(ctx context.Context) Option {
	return func(e *Enhancer) {
		e.ctx = ctx
	}
}

// Enhancer wires the enhancement layer into one document: per-field
// validation on blur, eager annotation clearing on input, submission
// handling on submit, and smooth scrolling on in-page anchors.
type Enhancer struct {
	doc        *dom.Document
	presenter  *form.Presenter
	notifier   *notify.Notifier
	controller *submit.Controller
	animator   *scroll.Animator
	logger     *slog.Logger
	ctx        context.Context

	submitOpts []submit.Option
	notifyOpts []notify.Option
	scrollOpts []scroll.Option
}

// Setup enhances a document. It must be called exactly once per document;
// a second call returns a config error, since re-binding would double the
// event handlers.
func Setup(doc *dom.Document, opts ...Option) (*Enhancer, error) {
	e := &Enhancer{
		doc:    doc,
		logger: slog.Default().With("component", "pagelift"),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if !doc.EnsureStylesheet(StylesheetKey, Stylesheet) {
		return nil, errors.New(errors.CategoryConfig, "document already enhanced")
	}

	e.presenter = form.NewPresenter(doc)
	e.notifier = notify.New(doc, e.notifyOpts...)
	e.animator = scroll.New(doc, e.scrollOpts...)

	submitOpts := append([]submit.Option{submit.WithLogger(e.logger)}, e.submitOpts...)
	e.controller = submit.NewController(doc, e.presenter, e.notifier, submitOpts...)

	e.bindForms()
	e.bindAnchors()

	e.logger.Info("document enhanced",
		"forms", len(doc.Forms()),
		"anchors", len(doc.Anchors()))
	return e, nil
}

// Document returns the enhanced document.
func (e *Enhancer) Document() *dom.Document {
	return e.doc
}

// Notifier returns the document's notifier.
func (e *Enhancer) Notifier() *notify.Notifier {
	return e.notifier
}

// Controller returns the submission controller.
func (e *Enhancer) Controller() *submit.Controller {
	return e.controller
}

// Animator returns the scroll animator.
func (e *Enhancer) Animator() *scroll.Animator {
	return e.animator
}

// Presenter returns the error annotation presenter.
func (e *Enhancer) Presenter() *form.Presenter {
	return e.presenter
}

// bindForms attaches the field and submission handlers to every form.
func (e *Enhancer) bindForms() {
	for _, node := range e.doc.Forms() {
		f := form.AsForm(e.doc, node)

		for _, field := range f.Fields() {
			field := field
			// Full validation on blur.
			e.doc.Bind(field.Node(), "blur", func(dom.Event) {
				form.Validate(e.presenter, field)
			})
			// Editing clears the annotation without re-validating.
			e.doc.Bind(field.Node(), "input", func(dom.Event) {
				e.presenter.Clear(field)
			})
		}

		e.doc.Bind(node, "submit", func(dom.Event) {
			run := func() {
				// Rejection and transport failures are already surfaced
				// as notifications.
				if err := e.controller.Submit(e.ctx, f); err != nil {
					e.logger.Debug("submission not completed", "error", err)
				}
			}
			// With an event loop attached, the network round trip must not
			// stall it; the controller marshals its document work back
			// through the dispatcher.
			if e.doc.HasDispatcher() {
				go run()
			} else {
				run()
			}
		})
	}
}

// bindAnchors attaches smooth scrolling to in-page anchors.
func (e *Enhancer) bindAnchors() {
	for _, a := range e.doc.Anchors() {
		href := a.Attr("href")
		e.doc.Bind(a, "click", func(dom.Event) {
			if !e.animator.ToAnchor(href) {
				e.logger.Warn("anchor target not found", "href", href)
			}
		})
	}
}
