package submit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pagelift-dev/pagelift/internal/errors"
	"github.com/pagelift-dev/pagelift/pkg/dom"
	"github.com/pagelift-dev/pagelift/pkg/form"
	"github.com/pagelift-dev/pagelift/pkg/notify"
)

// fixture builds a document with one contact form posting to action.
func fixture(action string) (*dom.Document, form.Form, *form.Presenter, *notify.Notifier) {
	node := dom.Form(dom.Action(action), dom.Method("post"),
		dom.Input(dom.Type("text"), dom.Name("name"), dom.Required()),
		dom.Input(dom.Type("email"), dom.Name("email"), dom.Required()),
		dom.Button(dom.Type("submit"), "Submit"),
	)
	doc := dom.New(dom.Html(dom.Head(), dom.Body(node)))
	p := form.NewPresenter(doc)
	// A timer that never fires keeps notifications attached for inspection.
	n := notify.New(doc, notify.WithTimer(func(time.Duration, func()) {}))
	return doc, form.AsForm(doc, node), p, n
}

func fillValid(doc *dom.Document, f form.Form) {
	fields := f.Fields()
	doc.SetAttr(fields[0].Node(), "value", "Ada")
	doc.SetAttr(fields[1].Node(), "value", "ada@example.com")
}

func notificationTexts(doc *dom.Document) []string {
	var texts []string
	c := doc.ElementByID(notify.ContainerID)
	if c == nil {
		return nil
	}
	for _, n := range c.Children {
		texts = append(texts, n.TextContent())
	}
	return texts
}

func TestRejectedSubmissionPerformsNoIO(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	doc, f, p, n := fixture(srv.URL)
	c := NewController(doc, p, n)

	err := c.Submit(context.Background(), f)
	if err == nil {
		t.Fatal("Expected rejection error")
	}
	if !errors.Is(err, errors.CategorySubmission) {
		t.Errorf("Expected submission category, got %q", errors.CategoryOf(err))
	}
	if requests != 0 {
		t.Errorf("Expected 0 network requests, got %d", requests)
	}

	texts := notificationTexts(doc)
	if len(texts) != 1 || texts[0] != MsgRejected {
		t.Errorf("Expected exactly one rejection notification, got %v", texts)
	}

	// Both invalid fields are annotated: no short-circuit.
	if p.Count() != 2 {
		t.Errorf("Expected 2 annotations, got %d", p.Count())
	}
}

func TestSuccessfulSubmission(t *testing.T) {
	var (
		requests int
		method   string
		header   string
		body     url.Values
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		method = r.Method
		header = r.Header.Get(RequestedWithHeader)
		r.ParseForm()
		body = r.PostForm
	}))
	defer srv.Close()

	doc, f, p, n := fixture(srv.URL)
	fillValid(doc, f)
	c := NewController(doc, p, n)

	if err := c.Submit(context.Background(), f); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if requests != 1 {
		t.Errorf("Expected exactly 1 request, got %d", requests)
	}
	if method != "POST" {
		t.Errorf("Expected POST, got %q", method)
	}
	if header != "XMLHttpRequest" {
		t.Errorf("Expected XMLHttpRequest header, got %q", header)
	}
	if body.Get("name") != "Ada" || body.Get("email") != "ada@example.com" {
		t.Errorf("Unexpected body %v", body)
	}

	// Values reset, annotations cleared.
	for _, field := range f.Fields() {
		if field.Value() != "" {
			t.Errorf("Field %q: expected reset, got %q", field.Name(), field.Value())
		}
	}
	if p.Count() != 0 {
		t.Errorf("Expected 0 annotations, got %d", p.Count())
	}

	texts := notificationTexts(doc)
	if len(texts) != 1 || texts[0] != MsgSuccess {
		t.Errorf("Expected success notification, got %v", texts)
	}
}

func TestServerErrorRestoresControl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	doc, f, p, n := fixture(srv.URL)
	fillValid(doc, f)
	c := NewController(doc, p, n)

	err := c.Submit(context.Background(), f)
	if err == nil {
		t.Fatal("Expected failure error")
	}
	if !errors.Is(err, errors.CategoryTransport) {
		t.Errorf("Expected transport category, got %q", errors.CategoryOf(err))
	}

	btn := f.SubmitControl()
	if btn.Bool("disabled") {
		t.Error("Expected submit control re-enabled")
	}
	if btn.TextContent() != ReadyLabel {
		t.Errorf("Expected label %q, got %q", ReadyLabel, btn.TextContent())
	}

	texts := notificationTexts(doc)
	if len(texts) != 1 || texts[0] != MsgFailure {
		t.Errorf("Expected failure notification, got %v", texts)
	}

	// Field values survive a failed submission.
	if f.Fields()[0].Value() != "Ada" {
		t.Error("Expected field values preserved on failure")
	}
}

func TestTransportFailureRestoresControl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	doc, f, p, n := fixture(srv.URL)
	fillValid(doc, f)
	c := NewController(doc, p, n)

	err := c.Submit(context.Background(), f)
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if !errors.Is(err, errors.CategoryTransport) {
		t.Errorf("Expected transport category, got %q", errors.CategoryOf(err))
	}

	btn := f.SubmitControl()
	if btn.Bool("disabled") {
		t.Error("Expected submit control re-enabled after transport failure")
	}
	if btn.TextContent() != ReadyLabel {
		t.Errorf("Expected label %q, got %q", ReadyLabel, btn.TextContent())
	}
}

// reentrantTransport re-enters the controller during the in-flight request,
// on the same goroutine, to observe mid-flight state.
type reentrantTransport struct {
	c      *Controller
	f      form.Form
	btn    *dom.Node
	reerr  error
	busy   string
	locked bool
}

func (rt *reentrantTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.busy = rt.btn.TextContent()
	rt.locked = rt.btn.Bool("disabled")
	rt.reerr = rt.c.Submit(req.Context(), rt.f)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       http.NoBody,
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestSecondAttemptRefusedWhileInFlight(t *testing.T) {
	doc, f, p, n := fixture("http://example.invalid/submit")
	fillValid(doc, f)

	rt := &reentrantTransport{f: f, btn: f.SubmitControl()}
	c := NewController(doc, p, n, WithClient(&http.Client{Transport: rt}))
	rt.c = c

	if err := c.Submit(context.Background(), f); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	if rt.reerr != ErrInFlight {
		t.Errorf("Expected ErrInFlight for re-entrant attempt, got %v", rt.reerr)
	}
	if rt.busy != BusyLabel {
		t.Errorf("Expected busy label %q during flight, got %q", BusyLabel, rt.busy)
	}
	if !rt.locked {
		t.Error("Expected submit control disabled during flight")
	}
}

func TestMetricsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	doc, f, p, n := fixture(srv.URL)
	fillValid(doc, f)

	reg := prometheus.NewRegistry()
	c := NewController(doc, p, n, WithMetrics(WithRegistry(reg)))

	if err := c.Submit(context.Background(), f); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := make(map[string]bool)
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	for _, want := range []string{
		"pagelift_submissions_total",
		"pagelift_submission_duration_seconds",
		"pagelift_fields_validated_total",
	} {
		if !found[want] {
			t.Errorf("Expected metric %q to be registered, got %v", want, found)
		}
	}
}

func TestMetricsSharedAcrossControllers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	reg := prometheus.NewRegistry()

	// A second controller on the same registry must reuse the registered
	// collectors rather than attempt a duplicate registration.
	doc1, f1, p1, n1 := fixture(srv.URL)
	fillValid(doc1, f1)
	c1 := NewController(doc1, p1, n1, WithMetrics(WithRegistry(reg)))

	doc2, f2, p2, n2 := fixture(srv.URL)
	fillValid(doc2, f2)
	c2 := NewController(doc2, p2, n2, WithMetrics(WithRegistry(reg)))

	if err := c1.Submit(context.Background(), f1); err != nil {
		t.Fatalf("First submit: %v", err)
	}
	if err := c2.Submit(context.Background(), f2); err != nil {
		t.Fatalf("Second submit: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != "pagelift_submissions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	if total != 2 {
		t.Errorf("Expected 2 submissions counted across controllers, got %v", total)
	}
}

func TestGetMethodUpperCased(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))
	defer srv.Close()

	node := dom.Form(dom.Action(srv.URL), dom.Method("get"),
		dom.Input(dom.Type("text"), dom.Name("q"), dom.Value("hello")),
		dom.Button(dom.Type("submit"), "Submit"),
	)
	doc := dom.New(dom.Body(node))
	p := form.NewPresenter(doc)
	n := notify.New(doc, notify.WithTimer(func(time.Duration, func()) {}))
	c := NewController(doc, p, n)

	if err := c.Submit(context.Background(), form.AsForm(doc, node)); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if method != "GET" {
		t.Errorf("Expected upper-cased GET, got %q", method)
	}
}
