// Package form implements the field validation pipeline and the error
// presentation layer for pagelift.
//
// Field and Form are typed views over document nodes: they hold no state of
// their own, so validity is recomputed on every check. Validation rules run
// in a fixed order with the first failing rule winning; the Presenter keeps
// the invariant that a field has at most one visible error annotation.
//
// Example:
//
//	f := form.AsField(node)
//	if ok, msg := form.Check(f); !ok {
//	    presenter.Show(f, msg)
//	}
package form
