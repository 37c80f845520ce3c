// Package mark converts encoded data into packed GPU vertex arrays.
//
// Each mark type (point, rect, rule, connection, text) has a builder that
// consumes data items through resolved encoders and accumulates flat
// float32 attribute arrays, ready for upload as interleaved or planar
// vertex buffers. Batches are keyed (typically by sample id) and each key's
// vertices occupy one contiguous range, so the draw stage can render a
// single sample's slice of the shared buffer.
package mark

import "github.com/genomevis/gv"

// Encoder supplies one channel's value per datum: a data accessor combined
// with a scale, or a constant. Encoders are produced by the view layer from
// resolved scale configuration; builders only consume them.
type Encoder struct {
	// Accessor extracts the raw channel value from a datum.
	// A nil Accessor makes the encoder constant.
	Accessor func(gv.Datum) any

	// Scale maps a raw numeric value into range space. Optional.
	Scale func(float64) float64

	// Constant is the channel value when Accessor is nil.
	Constant any
}

// Constant builds a constant encoder.
func Constant(value any) Encoder {
	return Encoder{Constant: value}
}

// Field builds an encoder reading the named datum field through an
// optional scale.
func Field(name string, scale func(float64) float64) Encoder {
	return Encoder{
		Accessor: func(d gv.Datum) any { return d.Field(name) },
		Scale:    scale,
	}
}

// IsConstant reports whether the encoder yields the same value for every
// datum. Constant channels are stored once instead of per vertex.
func (e Encoder) IsConstant() bool { return e.Accessor == nil }

// Value returns the raw channel value for d.
func (e Encoder) Value(d gv.Datum) any {
	if e.Accessor == nil {
		return e.Constant
	}
	return e.Accessor(d)
}

// Number returns the scaled numeric channel value for d. Non-numeric
// values report ok=false.
func (e Encoder) Number(d gv.Datum) (float64, bool) {
	v, ok := gv.AsNumber(e.Value(d))
	if !ok {
		return 0, false
	}
	if e.Scale != nil {
		v = e.Scale(v)
	}
	return v, true
}
