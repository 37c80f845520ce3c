package mark

import "github.com/genomevis/gv"

// RuleChannels are the encoders feeding a rule batch. A rule is a line
// segment from (X, Y) to (X2, Y2) with a screen-space width.
type RuleChannels struct {
	X       Encoder
	Y       Encoder
	X2      Encoder
	Y2      Encoder
	Width   Encoder
	Color   Encoder
	Opacity Encoder
}

// RuleOptions configure batch-wide rule geometry.
type RuleOptions struct {
	// Tiles subdivides each rule longitudinally. Reserved like the rect
	// tessellation hook; pinned to one tile.
	Tiles int
}

// RuleBuilder emits rules as degenerate-separated triangle strips.
//
// Each vertex carries a longitudinal position "pos" in [0, 1] and a
// perpendicular "side" of ±0.5. The vertex stage places the vertex at
// mix(start, end, pos) and extrudes side × width along the screen-space
// normal, so width stays constant under zoom.
type RuleBuilder struct {
	*builder
	pos   *stream
	param *stream // pos, side per vertex
	ch    RuleChannels
	tiles int
}

// NewRuleBuilder creates a builder for rule marks.
func NewRuleBuilder(ch RuleChannels, opts RuleOptions) *RuleBuilder {
	b := &RuleBuilder{
		builder: newBuilder(),
		pos:     &stream{name: "pos", components: 2},
		param:   &stream{name: "param", components: 2},
		ch:      ch,
		tiles:   1, // tessellation hook, fixed for now
	}
	_ = opts
	b.addNumberChannel("width", ch.Width)
	b.addColorChannel("color", ch.Color)
	b.addNumberChannel("opacity", ch.Opacity)
	return b
}

// AddBatch appends rule geometry for data under key. Each rule emits a
// start duplicate, two vertices (side ±0.5) per tile boundary, and an end
// duplicate.
func (b *RuleBuilder) AddBatch(key string, data []gv.Datum) {
	for _, d := range data {
		x, okX := b.ch.X.Number(d)
		y, okY := b.ch.Y.Number(d)
		x2, okX2 := b.ch.X2.Number(d)
		y2, okY2 := b.ch.Y2.Number(d)
		if !okX || !okY || !okX2 || !okY2 {
			continue
		}

		sx, sy := float32(x), float32(y)
		ex, ey := float32(x2), float32(y2)

		// Start duplicate.
		b.pushRuleVertex(sx, sy, ex, ey, 0, -0.5)

		boundaries := b.tiles + 1
		for i := 0; i < boundaries; i++ {
			pos := float32(i) / float32(b.tiles)
			b.pushRuleVertex(sx, sy, ex, ey, pos, -0.5)
			b.pushRuleVertex(sx, sy, ex, ey, pos, 0.5)
		}

		// End duplicate.
		b.pushRuleVertex(sx, sy, ex, ey, 1, 0.5)

		b.emit(d, 2*boundaries+2)
	}
	b.closeBatch(key)
}

// pushRuleVertex interpolates the longitudinal position and records the
// extrusion parameters.
func (b *RuleBuilder) pushRuleVertex(sx, sy, ex, ey, pos, side float32) {
	b.pos.push(sx+(ex-sx)*pos, sy+(ey-sy)*pos)
	b.param.push(pos, side)
}

// ToArrays returns the packed attribute arrays.
func (b *RuleBuilder) ToArrays() (*Arrays, error) {
	return b.toArrays(b.pos, b.param)
}
