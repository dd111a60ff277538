package dom

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
)

// RenderHTML renders a node tree to an HTML string. Attached nodes carry
// their node ID as a data-nid attribute so a page-side runtime can address
// them in patches.
func RenderHTML(n *Node) string {
	var b strings.Builder
	RenderTo(&b, n)
	return b.String()
}

// RenderTo streams a node tree as HTML to the given writer.
func RenderTo(w io.Writer, n *Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindText:
		_, err := io.WriteString(w, html.EscapeString(n.Text))
		return err
	case KindElement:
		return renderElement(w, n)
	}
	return fmt.Errorf("unknown node kind: %d", n.Kind)
}

func renderElement(w io.Writer, n *Node) error {
	if _, err := fmt.Fprintf(w, "<%s", n.Tag); err != nil {
		return err
	}
	if err := renderAttributes(w, n); err != nil {
		return err
	}
	if n.NID != "" {
		if _, err := fmt.Fprintf(w, ` data-nid=%q`, n.NID); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if voidElements[n.Tag] {
		return nil
	}
	for _, c := range n.Children {
		if err := RenderTo(w, c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", n.Tag)
	return err
}

// renderAttributes writes the node's attributes in sorted order.
// Event handlers are server-side only and never rendered; boolean
// attributes render bare when true and are omitted when false.
func renderAttributes(w io.Writer, n *Node) error {
	if len(n.Props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := n.Props[k]
		if _, ok := v.(HandlerFunc); ok {
			continue
		}
		switch val := v.(type) {
		case bool:
			if !val {
				continue
			}
			if _, err := fmt.Fprintf(w, " %s", k); err != nil {
				return err
			}
		case string:
			if _, err := fmt.Fprintf(w, ` %s="%s"`, k, html.EscapeString(val)); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(w, ` %s="%s"`, k, html.EscapeString(fmt.Sprintf("%v", val))); err != nil {
				return err
			}
		}
	}
	return nil
}
