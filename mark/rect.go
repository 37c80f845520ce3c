package mark

import (
	"math"

	"github.com/genomevis/gv"
)

// Squeeze selects the degenerate form of a rect: "none" renders the full
// rectangle; the directional variants collapse it into a triangle pointing
// at the named edge, used for arrowhead-like interval endpoints.
type Squeeze string

// Squeeze variants.
const (
	SqueezeNone   Squeeze = "none"
	SqueezeTop    Squeeze = "top"
	SqueezeBottom Squeeze = "bottom"
	SqueezeLeft   Squeeze = "left"
	SqueezeRight  Squeeze = "right"
)

// RectChannels are the encoders feeding a rect batch.
type RectChannels struct {
	X       Encoder
	X2      Encoder
	Y       Encoder
	Y2      Encoder
	Color   Encoder
	Opacity Encoder
}

// RectOptions configure geometry policies that apply to a whole batch.
type RectOptions struct {
	// Squeeze collapses rects into directional triangles.
	Squeeze Squeeze

	// Lower and Upper bound the visible horizontal window, in the same
	// space as the x channel values the encoders produce. Rects fully
	// outside are skipped; partially outside are clamped. The zero value
	// disables clipping.
	Lower float64
	Upper float64

	// Tiles is the horizontal tessellation count. Reserved: subdividing
	// rects for non-linear coordinate warps is not implemented and the
	// count is pinned to one tile.
	Tiles int
}

// RectBuilder emits triangle-strip rectangles separated by degenerate
// triangles, so an entire batch renders as one strip draw.
//
// Each rect contributes a duplicate of its first vertex, its body, and a
// duplicate of its last vertex. The duplicates produce zero-area triangles
// between consecutive rects, separating them without ending the strip.
type RectBuilder struct {
	*builder
	pos   *stream
	ch    RectChannels
	opts  RectOptions
	clips bool
}

// NewRectBuilder creates a builder for rect marks.
func NewRectBuilder(ch RectChannels, opts RectOptions) *RectBuilder {
	if opts.Squeeze == "" {
		opts.Squeeze = SqueezeNone
	}
	opts.Tiles = 1 // tessellation hook, permanently one tile for now
	b := &RectBuilder{
		builder: newBuilder(),
		pos:     &stream{name: "pos", components: 2},
		ch:      ch,
		opts:    opts,
		clips:   opts.Lower != 0 || opts.Upper != 0,
	}
	b.addColorChannel("color", ch.Color)
	b.addNumberChannel("opacity", ch.Opacity)
	return b
}

// AddBatch appends rect geometry for data under key.
//
// Coordinates are normalized so x <= x2 and y <= y2; a datum given with
// swapped bounds renders identically to one with ordered bounds. Rects
// fully outside the visible window contribute no vertices.
func (b *RectBuilder) AddBatch(key string, data []gv.Datum) {
	for _, d := range data {
		x, okX := b.ch.X.Number(d)
		x2, okX2 := b.ch.X2.Number(d)
		y, okY := b.ch.Y.Number(d)
		y2, okY2 := b.ch.Y2.Number(d)
		if !okX || !okX2 || !okY || !okY2 {
			continue
		}

		if x > x2 {
			x, x2 = x2, x
		}
		if y > y2 {
			y, y2 = y2, y
		}

		if b.clips {
			if x2 < b.opts.Lower || x > b.opts.Upper {
				continue // fully outside the window
			}
			x = math.Max(x, b.opts.Lower)
			x2 = math.Min(x2, b.opts.Upper)
		}

		b.emitRect(d, float32(x), float32(y), float32(x2), float32(y2))
	}
	b.closeBatch(key)
}

// emitRect pushes one rect's strip vertices: start duplicate, body, end
// duplicate.
func (b *RectBuilder) emitRect(d gv.Datum, x, y, x2, y2 float32) {
	body := b.bodyVertices(x, y, x2, y2)

	b.pos.push(body[0], body[1]) // start duplicate
	b.pos.push(body...)
	n := len(body)
	b.pos.push(body[n-2], body[n-1]) // end duplicate

	b.emit(d, n/2+2)
}

// bodyVertices returns the strip body for one rect: four corners for the
// full rectangle, three for a squeezed triangle.
func (b *RectBuilder) bodyVertices(x, y, x2, y2 float32) []float32 {
	midX := (x + x2) / 2
	midY := (y + y2) / 2

	switch b.opts.Squeeze {
	case SqueezeBottom:
		return []float32{midX, y, x, y2, x2, y2}
	case SqueezeTop:
		return []float32{x, y, x2, y, midX, y2}
	case SqueezeLeft:
		return []float32{x, midY, x2, y, x2, y2}
	case SqueezeRight:
		return []float32{x, y, x, y2, x2, midY}
	default:
		return []float32{x, y, x2, y, x, y2, x2, y2}
	}
}

// ToArrays returns the packed attribute arrays.
func (b *RectBuilder) ToArrays() (*Arrays, error) {
	return b.toArrays(b.pos)
}
