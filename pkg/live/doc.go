// Package live streams document mutations to attached pages over WebSocket
// and feeds page events back into the document.
//
// A Broker owns one Document and its event loop: every incoming page event
// and every server-side callback runs on a single goroutine, matching the
// document's single-threaded model. The broker installs itself as the
// document's dispatcher, so timer callbacks and submission continuations
// re-enter the loop through dom.Document.Do. Mutations recorded during one
// dispatch are batched into a single patch frame and fanned out to all
// attached sessions.
package live
