// Package control renders individual form controls.
//
// Every control shares the same chrome: an optional error block, an optional
// label, the input supplied by a Variant, an optional caption and a clearing
// marker, all wrapped in a container div. Variants only decide what the input
// looks like, which CSS class the container carries and, optionally, whether
// the control renders at all.
//
// Label and error text are always HTML escaped. Captions are inserted as-is so
// callers can pass links or other trusted markup; use SanitizeCaption when the
// caption comes from user input.
package control
