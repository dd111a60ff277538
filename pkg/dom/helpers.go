package dom

import "fmt"

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *Node) *Node {
	if condition {
		return node
	}
	return nil
}

// Range maps a slice to Nodes.
func Range[T any](items []T, fn func(item T, index int) *Node) []*Node {
	result := make([]*Node, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}
