package form

import (
	"strings"

	"github.com/pagelift-dev/pagelift/pkg/dom"
)

// Class names applied by the presenter. The injected stylesheet keys its
// animations off these.
const (
	ErrorFieldClass   = "pagelift-field-error"
	ErrorMessageClass = "pagelift-error-message"
)

// Presenter owns the error annotations for a document's fields. It maps
// field identity (node ID) to the current annotation node, so lookup never
// depends on document structure, and enforces at most one annotation per
// field.
type Presenter struct {
	doc         *dom.Document
	annotations map[string]*dom.Node
}

// NewPresenter creates a Presenter for the given document.
func NewPresenter(doc *dom.Document) *Presenter {
	return &Presenter{
		doc:         doc,
		annotations: make(map[string]*dom.Node),
	}
}

// Show attaches an error annotation to the field: any prior annotation is
// cleared first, the field is marked visually errored, and the message node
// is inserted immediately after it.
func (p *Presenter) Show(f Field, message string) {
	p.Clear(f)

	addClass(p.doc, f.Node(), ErrorFieldClass)

	msg := dom.Span(dom.Class(ErrorMessageClass), message)
	p.doc.InsertAfter(f.Node(), msg)
	p.annotations[f.Node().NID] = msg
}

// Clear removes the field's annotation and visual error state.
// No-op if the field has no annotation.
func (p *Presenter) Clear(f Field) {
	removeClass(p.doc, f.Node(), ErrorFieldClass)

	if msg, ok := p.annotations[f.Node().NID]; ok {
		p.doc.Remove(msg)
		delete(p.annotations, f.Node().NID)
	}
}

// Has reports whether the field currently has an annotation.
func (p *Presenter) Has(f Field) bool {
	_, ok := p.annotations[f.Node().NID]
	return ok
}

// Count returns the number of fields with active annotations.
func (p *Presenter) Count() int {
	return len(p.annotations)
}

// addClass appends a class to the node's class attribute if not present.
func addClass(doc *dom.Document, n *dom.Node, class string) {
	classes := strings.Fields(n.Attr("class"))
	for _, c := range classes {
		if c == class {
			return
		}
	}
	classes = append(classes, class)
	doc.SetAttr(n, "class", strings.Join(classes, " "))
}

// removeClass strips a class from the node's class attribute. No-op if absent.
func removeClass(doc *dom.Document, n *dom.Node, class string) {
	classes := strings.Fields(n.Attr("class"))
	out := classes[:0]
	found := false
	for _, c := range classes {
		if c == class {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		return
	}
	if len(out) == 0 {
		doc.RemoveAttr(n, "class")
		return
	}
	doc.SetAttr(n, "class", strings.Join(out, " "))
}
