// Package form composes controls into a complete <form> fragment and builds
// controls from schema fields.
package form
