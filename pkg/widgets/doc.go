// Package widgets maps schema fields to the control kind used to render them.
package widgets
