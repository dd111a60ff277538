package dom

import (
	"fmt"
	"strings"
)

// MutationOp identifies a document mutation kind.
type MutationOp string

const (
	OpSetAttr     MutationOp = "set-attr"
	OpRemoveAttr  MutationOp = "remove-attr"
	OpSetText     MutationOp = "set-text"
	OpInsertAfter MutationOp = "insert-after"
	OpAppend      MutationOp = "append"
	OpRemove      MutationOp = "remove"
	OpScroll      MutationOp = "scroll"
)

// Mutation describes a single change applied to the document tree.
type Mutation struct {
	Op     MutationOp
	NID    string  // Target node
	RefNID string  // Reference node for insert-after, parent for append
	Key    string  // Attribute key for set-attr/remove-attr
	Value  string  // Attribute value or text content
	Node   *Node   // Inserted subtree for insert-after/append
	Y      float64 // Viewport offset for scroll
}

// Recorder receives every mutation applied through a Document.
// A transport layer implements this to relay changes to the attached page.
type Recorder interface {
	Record(m Mutation)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(m Mutation)

func (f RecorderFunc) Record(m Mutation) { f(m) }

// Dispatcher marshals work onto the goroutine driving the document.
// A transport layer's event loop implements this; it reports false when the
// work was refused (loop stopped or queue full).
type Dispatcher func(fn func()) bool

// Document owns a live node tree for one attached page.
//
// All methods must be called from a single goroutine: the document models
// the page's UI event loop, which is single-threaded and cooperative.
// Off-goroutine work (timers, animation frames, network continuations)
// reaches that goroutine through Do.
type Document struct {
	root       *Node
	nextNID    int
	byNID      map[string]*Node
	recorder   Recorder
	dispatcher Dispatcher
	styles     map[string]bool
	scrollY    float64
}

// New creates a Document owning the given tree. Node IDs are assigned and
// parent links established for the whole tree.
func New(root *Node) *Document {
	d := &Document{
		root:   root,
		byNID:  make(map[string]*Node),
		styles: make(map[string]bool),
	}
	d.adopt(root, nil)
	return d
}

// SetRecorder installs a mutation recorder. Pass nil to detach.
func (d *Document) SetRecorder(r Recorder) {
	d.recorder = r
}

// SetDispatcher installs the dispatcher used to route off-goroutine work
// onto the goroutine that owns the document. Pass nil to detach.
func (d *Document) SetDispatcher(fn Dispatcher) {
	d.dispatcher = fn
}

// HasDispatcher reports whether a dispatcher is installed.
func (d *Document) HasDispatcher() bool {
	return d.dispatcher != nil
}

// Do runs fn on the document's owning goroutine and waits for it to
// finish. Without a dispatcher fn runs inline, which is safe only while a
// single goroutine drives the document. Do must not be called from the
// dispatching goroutine itself. When the dispatcher refuses the work, fn
// does not run.
func (d *Document) Do(fn func()) {
	if d.dispatcher == nil {
		fn()
		return
	}
	done := make(chan struct{})
	if !d.dispatcher(func() {
		defer close(done)
		fn()
	}) {
		return
	}
	<-done
}

// Root returns the document's root node.
func (d *Document) Root() *Node {
	return d.root
}

// ByNID returns the attached node with the given node ID, or nil.
func (d *Document) ByNID(nid string) *Node {
	return d.byNID[nid]
}

// ElementByID returns the first element whose id attribute matches, or nil.
func (d *Document) ElementByID(id string) *Node {
	var found *Node
	d.Walk(func(n *Node) bool {
		if n.Kind == KindElement && n.Attr("id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Forms returns all form elements in document order.
func (d *Document) Forms() []*Node {
	return d.collect(d.root, func(n *Node) bool {
		return n.Tag == "form"
	})
}

// FieldsOf returns the form controls of a form in document order.
// Submit controls (input[type=submit], button) are not fields.
func (d *Document) FieldsOf(form *Node) []*Node {
	return d.collect(form, func(n *Node) bool {
		switch n.Tag {
		case "input":
			return n.Attr("type") != "submit" && n.Attr("type") != "button"
		case "textarea", "select":
			return true
		}
		return false
	})
}

// SubmitControl returns the form's submit control, or nil.
func (d *Document) SubmitControl(form *Node) *Node {
	controls := d.collect(form, func(n *Node) bool {
		if n.Tag == "button" {
			t := n.Attr("type")
			return t == "" || t == "submit"
		}
		return n.Tag == "input" && n.Attr("type") == "submit"
	})
	if len(controls) == 0 {
		return nil
	}
	return controls[0]
}

// Anchors returns all in-page anchors (href starting with "#") in document
// order.
func (d *Document) Anchors() []*Node {
	return d.collect(d.root, func(n *Node) bool {
		return n.Tag == "a" && strings.HasPrefix(n.Attr("href"), "#")
	})
}

// Walk visits every node depth-first. Return false from fn to stop.
func (d *Document) Walk(fn func(n *Node) bool) {
	walk(d.root, fn)
}

func walk(n *Node, fn func(n *Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func (d *Document) collect(from *Node, match func(n *Node) bool) []*Node {
	var out []*Node
	walk(from, func(n *Node) bool {
		if n.Kind == KindElement && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ----------------------------------------------------------------------------
// Mutations
// ----------------------------------------------------------------------------

// SetAttr sets an attribute on an attached node.
func (d *Document) SetAttr(n *Node, key string, value any) {
	if n == nil {
		return
	}
	if n.Props == nil {
		n.Props = make(Props)
	}
	n.Props[key] = value
	d.record(Mutation{Op: OpSetAttr, NID: n.NID, Key: key, Value: attrString(value)})
}

// RemoveAttr removes an attribute from an attached node. No-op if absent.
func (d *Document) RemoveAttr(n *Node, key string) {
	if n == nil || n.Props == nil {
		return
	}
	if _, ok := n.Props[key]; !ok {
		return
	}
	delete(n.Props, key)
	d.record(Mutation{Op: OpRemoveAttr, NID: n.NID, Key: key})
}

// SetText replaces a node's children with a single text node.
func (d *Document) SetText(n *Node, text string) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		d.forget(c)
	}
	t := &Node{Kind: KindText, Text: text, parent: n}
	d.adopt(t, n)
	n.Children = []*Node{t}
	d.record(Mutation{Op: OpSetText, NID: n.NID, Value: text})
}

// InsertAfter inserts node immediately after ref among ref's siblings.
// No-op if ref is detached or the root.
func (d *Document) InsertAfter(ref, node *Node) {
	if ref == nil || node == nil || ref.parent == nil {
		return
	}
	parent := ref.parent
	d.adopt(node, parent)
	for i, c := range parent.Children {
		if c == ref {
			children := make([]*Node, 0, len(parent.Children)+1)
			children = append(children, parent.Children[:i+1]...)
			children = append(children, node)
			children = append(children, parent.Children[i+1:]...)
			parent.Children = children
			d.record(Mutation{Op: OpInsertAfter, NID: node.NID, RefNID: ref.NID, Node: node})
			return
		}
	}
}

// Append appends node as the last child of parent.
func (d *Document) Append(parent, node *Node) {
	if parent == nil || node == nil {
		return
	}
	d.adopt(node, parent)
	parent.Children = append(parent.Children, node)
	d.record(Mutation{Op: OpAppend, NID: node.NID, RefNID: parent.NID, Node: node})
}

// Remove detaches a node from its parent. No-op for detached nodes.
func (d *Document) Remove(node *Node) {
	if node == nil || node.parent == nil {
		return
	}
	parent := node.parent
	for i, c := range parent.Children {
		if c == node {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	node.parent = nil
	d.forget(node)
	d.record(Mutation{Op: OpRemove, NID: node.NID})
}

// ----------------------------------------------------------------------------
// Events
// ----------------------------------------------------------------------------

// Dispatch delivers an event to the handler registered on its target.
// For input and change events, the target's value is updated before the
// handler runs, matching live-page semantics. Dispatch returns false if no
// handler was registered for the event type.
func (d *Document) Dispatch(ev Event) bool {
	if ev.Target == nil {
		return false
	}
	if ev.Type == "input" || ev.Type == "change" {
		if ev.Target.Props == nil {
			ev.Target.Props = make(Props)
		}
		ev.Target.Props["value"] = ev.Value
	}
	h, ok := ev.Target.Props["on"+ev.Type]
	if !ok {
		return false
	}
	fn, ok := h.(HandlerFunc)
	if !ok {
		return false
	}
	fn(ev)
	return true
}

// Bind registers a handler on a node for the given event type
// ("blur", "input", ...). An existing handler for the same type is replaced.
func (d *Document) Bind(n *Node, eventType string, fn HandlerFunc) {
	if n == nil {
		return
	}
	if n.Props == nil {
		n.Props = make(Props)
	}
	n.Props["on"+eventType] = fn
}

// ----------------------------------------------------------------------------
// Stylesheet and viewport
// ----------------------------------------------------------------------------

// EnsureStylesheet injects a <style id=key> node into <head> exactly once
// per document. Returns true if the stylesheet was injected by this call.
func (d *Document) EnsureStylesheet(key, css string) bool {
	if d.styles[key] {
		return false
	}
	d.styles[key] = true

	head := d.collect(d.root, func(n *Node) bool { return n.Tag == "head" })
	target := d.root
	if len(head) > 0 {
		target = head[0]
	}
	d.Append(target, Style(ID(key), css))
	return true
}

// ScrollY returns the current viewport scroll offset.
func (d *Document) ScrollY() float64 {
	return d.scrollY
}

// SetScrollY sets the viewport scroll offset.
func (d *Document) SetScrollY(y float64) {
	d.scrollY = y
	d.record(Mutation{Op: OpScroll, Y: y})
}

// ScrollTo requests the attached page bring the node into view. The node's
// layout offset is known only page-side, so the local scroll offset is not
// updated.
func (d *Document) ScrollTo(n *Node) {
	if n == nil {
		return
	}
	d.record(Mutation{Op: OpScroll, NID: n.NID})
}

// ----------------------------------------------------------------------------
// Internal
// ----------------------------------------------------------------------------

// adopt assigns node IDs and parent links for a subtree being attached.
func (d *Document) adopt(n *Node, parent *Node) {
	if n == nil {
		return
	}
	n.parent = parent
	if n.NID == "" {
		d.nextNID++
		n.NID = fmt.Sprintf("n%d", d.nextNID)
	}
	d.byNID[n.NID] = n
	for _, c := range n.Children {
		d.adopt(c, n)
	}
}

// forget drops a detached subtree from the node index. NIDs are retained on
// the nodes so a re-attached subtree keeps its identity.
func (d *Document) forget(n *Node) {
	if n == nil {
		return
	}
	delete(d.byNID, n.NID)
	for _, c := range n.Children {
		d.forget(c)
	}
}

func (d *Document) record(m Mutation) {
	if d.recorder != nil {
		d.recorder.Record(m)
	}
}

func attrString(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
