package mark

import "github.com/genomevis/gv"

// shapeIndices maps shape names to the indices the point shader switches
// on. Unknown names fall back to circle; a typo in a spec degrades one
// batch's glyph, it does not fail the draw.
var shapeIndices = map[string]float32{
	"circle":         0,
	"square":         1,
	"triangle-up":    2,
	"cross":          3,
	"diamond":        4,
	"triangle-down":  5,
	"triangle-right": 6,
	"triangle-left":  7,
	"tick-up":        8,
	"tick-down":      9,
	"tick-right":     10,
	"tick-left":      11,
}

const defaultShape = "circle"

// PointChannels are the encoders feeding a point batch.
type PointChannels struct {
	X           Encoder
	Y           Encoder
	Size        Encoder
	Color       Encoder
	Opacity     Encoder
	Shape       Encoder
	StrokeWidth Encoder
}

// PointBuilder emits one vertex per datum; the draw stage expands each
// into a screen-space sprite.
type PointBuilder struct {
	*builder
	pos *stream
	ch  PointChannels
}

// NewPointBuilder creates a builder for point marks.
func NewPointBuilder(ch PointChannels) *PointBuilder {
	b := &PointBuilder{
		builder: newBuilder(),
		pos:     &stream{name: "pos", components: 2},
		ch:      ch,
	}
	b.addNumberChannel("size", ch.Size)
	b.addColorChannel("color", ch.Color)
	b.addNumberChannel("opacity", ch.Opacity)
	b.addChannel("shape", 1, ch.Shape, func(v any, dst []float32) {
		name, _ := v.(string)
		idx, known := shapeIndices[name]
		if !known {
			idx = shapeIndices[defaultShape]
		}
		dst[0] = idx
	})
	b.addNumberChannel("strokeWidth", ch.StrokeWidth)
	return b
}

// AddBatch appends one vertex per datum under key. Data items without
// numeric coordinates are skipped.
func (b *PointBuilder) AddBatch(key string, data []gv.Datum) {
	for _, d := range data {
		x, okX := b.ch.X.Number(d)
		y, okY := b.ch.Y.Number(d)
		if !okX || !okY {
			continue
		}
		b.pos.push(float32(x), float32(y))
		b.emit(d, 1)
	}
	b.closeBatch(key)
}

// ToArrays returns the packed attribute arrays.
func (b *PointBuilder) ToArrays() (*Arrays, error) {
	return b.toArrays(b.pos)
}
