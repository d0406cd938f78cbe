// Package model defines the static booking form description consumed by the
// controller and renderers. A FormModel is an ordered registry of Field
// descriptors; renderers must preserve registry order. RawValues carries the
// text each input currently holds, and Values is the typed record produced once
// the validation schema accepts the raw input.
package model
