package dom

import (
	"strconv"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with the Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Form control attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Value sets the value attribute.
func Value(v string) Attr { return attr("value", v) }

// Placeholder sets the placeholder attribute.
func Placeholder(p string) Attr { return attr("placeholder", p) }

// Required sets the required attribute.
func Required() Attr { return attr("required", true) }

// MinLength sets the minlength attribute.
func MinLength(n int) Attr { return attr("minlength", strconv.Itoa(n)) }

// MaxLength sets the maxlength attribute.
func MaxLength(n int) Attr { return attr("maxlength", strconv.Itoa(n)) }

// Disabled sets the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// For sets the for attribute (label association).
func For(id string) Attr { return attr("for", id) }

// Rows sets the rows attribute (textarea).
func Rows(n int) Attr { return attr("rows", strconv.Itoa(n)) }

// Form attributes

// Action sets the action attribute (submission destination).
func Action(url string) Attr { return attr("action", url) }

// Method sets the method attribute (submission verb).
func Method(m string) Attr { return attr("method", m) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Data attributes

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }
