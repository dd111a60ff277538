package dom

// Event is a page event delivered to a node's handler.
type Event struct {
	Type   string // "blur", "input", "submit", "click", ...
	Target *Node  // Node the event was dispatched to
	Value  string // Current control value for input/change events
}

// HandlerFunc handles a dispatched event.
type HandlerFunc func(Event)

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler HandlerFunc) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler HandlerFunc) EventHandler { return event("click", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler HandlerFunc) EventHandler { return event("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler HandlerFunc) EventHandler { return event("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler HandlerFunc) EventHandler { return event("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler HandlerFunc) EventHandler { return event("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler HandlerFunc) EventHandler { return event("blur", handler) }

// OnReset handles form reset events.
func OnReset(handler HandlerFunc) EventHandler { return event("reset", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler HandlerFunc) EventHandler { return event("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler HandlerFunc) EventHandler { return event("keyup", handler) }

// Scroll events

// OnScroll handles scroll events.
func OnScroll(handler HandlerFunc) EventHandler { return event("scroll", handler) }
