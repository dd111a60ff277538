package dom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
	"link":  true,
	"meta":  true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new Node with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *Node, []*Node, string, EventHandler.
func createElement(tag string, args []any) *Node {
	node := &Node{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props),
		Children: make([]*Node, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			if v.Key != "" {
				node.Props[v.Key] = v.Value
			}

		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					node.Props[a.Key] = a.Value
				}
			}

		case *Node:
			if v != nil {
				v.parent = node
				node.Children = append(node.Children, v)
			}

		case []*Node:
			for _, child := range v {
				if child != nil {
					child.parent = node
					node.Children = append(node.Children, child)
				}
			}

		case string:
			// Shorthand for text node
			node.Children = append(node.Children, &Node{
				Kind:   KindText,
				Text:   v,
				parent: node,
			})

		case EventHandler:
			node.Props[v.Event] = v.Handler
		}
	}

	return node
}

// Document structure elements

func Html(args ...any) *Node  { return createElement("html", args) }
func Head(args ...any) *Node  { return createElement("head", args) }
func Body(args ...any) *Node  { return createElement("body", args) }
func Title(args ...any) *Node { return createElement("title", args) }
func Meta(args ...any) *Node  { return createElement("meta", args) }

// Content sectioning elements

func Header(args ...any) *Node  { return createElement("header", args) }
func Footer(args ...any) *Node  { return createElement("footer", args) }
func Main(args ...any) *Node    { return createElement("main", args) }
func Nav(args ...any) *Node     { return createElement("nav", args) }
func Section(args ...any) *Node { return createElement("section", args) }
func H1(args ...any) *Node      { return createElement("h1", args) }
func H2(args ...any) *Node      { return createElement("h2", args) }
func H3(args ...any) *Node      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *Node  { return createElement("div", args) }
func P(args ...any) *Node    { return createElement("p", args) }
func Span(args ...any) *Node { return createElement("span", args) }
func Ul(args ...any) *Node   { return createElement("ul", args) }
func Li(args ...any) *Node   { return createElement("li", args) }
func Br(args ...any) *Node   { return createElement("br", args) }

// Inline text semantics

func A(args ...any) *Node      { return createElement("a", args) }
func Strong(args ...any) *Node { return createElement("strong", args) }
func Em(args ...any) *Node     { return createElement("em", args) }
func Small(args ...any) *Node  { return createElement("small", args) }

// Form elements

func Form(args ...any) *Node     { return createElement("form", args) }
func Input(args ...any) *Node    { return createElement("input", args) }
func Textarea(args ...any) *Node { return createElement("textarea", args) }
func Select(args ...any) *Node   { return createElement("select", args) }
func Option(args ...any) *Node   { return createElement("option", args) }
func Button(args ...any) *Node   { return createElement("button", args) }
func Label(args ...any) *Node    { return createElement("label", args) }
func Fieldset(args ...any) *Node { return createElement("fieldset", args) }
func Legend(args ...any) *Node   { return createElement("legend", args) }

// Scripting elements

func Style(args ...any) *Node { return createElement("style", args) }

// CustomElement creates an element with a custom tag name.
func CustomElement(tag string, args ...any) *Node {
	return createElement(tag, args)
}
