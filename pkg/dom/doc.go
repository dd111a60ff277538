// Package dom provides the live document model for pagelift.
//
// Unlike a virtual DOM that is diffed against a previous render, this tree
// IS the document: the server holds one Document per attached page and
// mutates it directly (error annotations, notifications, attribute changes).
// Every mutation is reported to an optional Recorder so a transport layer
// can relay it to the page.
//
// # Core Types
//
// Node is the fundamental building block representing elements and text.
// Props holds attributes and event handlers. Attr and EventHandler are used
// to build Props.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Form(Action("/contact"), Method("post"),
//	    Input(Type("email"), Name("email"), Required()),
//	    Button(Type("submit"), Text("Submit")),
//	)
//
// # Events
//
// Dispatch delivers a page event (blur, input, submit, click) to the
// handler registered on the target node. Dispatch is synchronous and
// single-threaded per document: handlers run on the caller's goroutine in
// dispatch order.
package dom
