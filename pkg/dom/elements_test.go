package dom

import "testing"

func TestCreateElementArgs(t *testing.T) {
	n := Div(
		Class("card"),
		ID("main"),
		nil,
		Span("hello"),
		"plain text",
		OnClick(func(Event) {}),
	)

	if n.Tag != "div" {
		t.Errorf("Expected tag 'div', got %q", n.Tag)
	}
	if n.Attr("class") != "card" {
		t.Errorf("Expected class 'card', got %q", n.Attr("class"))
	}
	if n.Attr("id") != "main" {
		t.Errorf("Expected id 'main', got %q", n.Attr("id"))
	}
	if len(n.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(n.Children))
	}
	if n.Children[1].Kind != KindText || n.Children[1].Text != "plain text" {
		t.Error("String arg should become a text node")
	}
	if !n.IsInteractive() {
		t.Error("Node with OnClick should be interactive")
	}
}

func TestAttrAccessors(t *testing.T) {
	n := Textarea(Name("message"), MinLength(10), Required())

	if n.Attr("name") != "message" {
		t.Errorf("Expected name 'message', got %q", n.Attr("name"))
	}
	if !n.Bool("required") {
		t.Error("Expected required to be true")
	}
	if min, ok := n.Int("minlength"); !ok || min != 10 {
		t.Errorf("Expected minlength 10, got %d (ok=%v)", min, ok)
	}
	if _, ok := n.Int("maxlength"); ok {
		t.Error("Expected absent attribute to report !ok")
	}
}

func TestTextContent(t *testing.T) {
	n := Button(Type("submit"), "Submit")
	if got := n.TextContent(); got != "Submit" {
		t.Errorf("Expected 'Submit', got %q", got)
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("input") {
		t.Error("input should be void")
	}
	if IsVoidElement("textarea") {
		t.Error("textarea should not be void")
	}
}
