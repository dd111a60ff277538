package dom

import (
	"fmt"
	"strconv"
	"strings"
)

// NKind is the node type discriminator.
type NKind uint8

const (
	KindElement NKind = iota // <div>, <input>, etc.
	KindText                 // Plain text node
)

// String returns the string representation of the NKind.
func (k NKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a node in the live document tree.
type Node struct {
	Kind     NKind   // Node type
	Tag      string  // Element tag name (e.g., "input")
	Props    Props   // Attributes and event handlers
	Children []*Node // Child nodes
	Text     string  // For KindText
	NID      string  // Node ID (assigned when attached to a Document)

	parent *Node
}

// Props holds attributes and event handlers.
type Props map[string]any

// Parent returns the parent node, or nil for the root and detached nodes.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Attr returns the string form of an attribute, or "" if absent.
func (n *Node) Attr(key string) string {
	if n == nil || n.Props == nil {
		return ""
	}
	v, ok := n.Props[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Bool returns an attribute interpreted as a boolean flag.
// Presence with any non-false value counts as true, matching how
// required/disabled behave in markup.
func (n *Node) Bool(key string) bool {
	if n == nil || n.Props == nil {
		return false
	}
	v, ok := n.Props[key]
	if !ok || v == nil {
		return false
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	if s, isStr := v.(string); isStr {
		return s != "false"
	}
	return true
}

// Int returns an attribute parsed as an integer and whether it was present
// and parseable.
func (n *Node) Int(key string) (int, bool) {
	if n == nil || n.Props == nil {
		return 0, false
	}
	v, ok := n.Props[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case int:
		return x, true
	case string:
		i, err := strconv.Atoi(x)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// IsInteractive returns true if this node has event handlers registered.
func (n *Node) IsInteractive() bool {
	if n == nil || n.Kind != KindElement {
		return false
	}
	for key := range n.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of this node's subtree.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler bound to a node.
type EventHandler struct {
	Event   string      // "onclick", "oninput", etc.
	Handler HandlerFunc // Function to call on dispatch
}
