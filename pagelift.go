// Package pagelift is a server-driven enhancement layer for static pages:
// smooth in-page scrolling, client-side form validation with inline error
// annotations, and form submission with loading-state UI and notifications.
//
// The server owns a live document tree; Setup wires the enhancement
// behaviors into it, and the live package streams the resulting mutations
// to attached pages.
//
// Usage:
//
//	doc := dom.New(page())
//	enh, err := pagelift.Setup(doc)
//	if err != nil {
//	    return err
//	}
//	broker := live.NewBroker(doc)
//	broker.Start()
//
// The broker installs itself as the document's mutation recorder and
// dispatcher, so notification timers, scroll frames, and submission
// continuations all run on its event loop.
package pagelift

import (
	"github.com/pagelift-dev/pagelift/pkg/dom"
	"github.com/pagelift-dev/pagelift/pkg/form"
	"github.com/pagelift-dev/pagelift/pkg/notify"
	"github.com/pagelift-dev/pagelift/pkg/scroll"
	"github.com/pagelift-dev/pagelift/pkg/submit"
)

// =============================================================================
// Document model (re-export from pkg/dom)
// =============================================================================

// Document is a live node tree for one attached page.
type Document = dom.Document

// Node is a single document node.
type Node = dom.Node

// Event is a page event delivered to a node's handler.
type Event = dom.Event

// Mutation describes one change applied to a document.
type Mutation = dom.Mutation

// NewDocument creates a Document owning the given tree.
var NewDocument = dom.New

// =============================================================================
// Forms and validation (re-export from pkg/form)
// =============================================================================

// Form is a typed view over a form node.
type Form = form.Form

// Field is a typed view over a single form control.
type Field = form.Field

// Presenter owns the error annotations for a document's fields.
type Presenter = form.Presenter

// AsForm wraps a form node belonging to a document.
var AsForm = form.AsForm

// Validate checks one field and shows or clears its annotation.
var Validate = form.Validate

// =============================================================================
// Notifications (re-export from pkg/notify)
// =============================================================================

// Notifier creates and auto-dismisses notification widgets.
type Notifier = notify.Notifier

// Level is a notification severity.
type Level = notify.Level

const (
	LevelSuccess = notify.LevelSuccess
	LevelError   = notify.LevelError
	LevelWarning = notify.LevelWarning
	LevelInfo    = notify.LevelInfo
)

// =============================================================================
// Submission (re-export from pkg/submit)
// =============================================================================

// Controller orchestrates validation, submission, and outcome presentation.
type Controller = submit.Controller

// State identifies where a submission attempt is in its lifecycle.
type State = submit.State

// =============================================================================
// Scrolling (re-export from pkg/scroll)
// =============================================================================

// Animator animates the viewport offset of a document.
type Animator = scroll.Animator

// Position is the pure easing function driving scroll animations.
var Position = scroll.Position
