// Package form holds the booking form controller. State is an explicit value
// advanced by the pure Reduce function; the validation result is a derived
// projection recomputed after every reducer step. Controller serializes
// events, gates submission on the schema and tracks the submitting flag until
// the submit handler reports completion through Actions.
package form
