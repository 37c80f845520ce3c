package mark

import "github.com/genomevis/gv"

// ConnectionChannels are the encoders feeding a connection batch. A
// connection is an arc between two genomic loci with independently encoded
// endpoint sizes and colors; the draw stage interpolates between them
// along the arc.
type ConnectionChannels struct {
	X       Encoder
	Y       Encoder
	X2      Encoder
	Y2      Encoder
	Size    Encoder
	Size2   Encoder
	Color   Encoder
	Color2  Encoder
	Opacity Encoder
}

// ConnectionBuilder emits one instance record per datum. The draw stage
// renders connections as an instanced draw: a fixed arc-segment strip
// advanced once per instance, with the record supplying both endpoints and
// the paired size/color channels.
type ConnectionBuilder struct {
	*builder
	pos *stream // x, y, x2, y2 per instance
	ch  ConnectionChannels
}

// NewConnectionBuilder creates a builder for connection marks.
func NewConnectionBuilder(ch ConnectionChannels) *ConnectionBuilder {
	b := &ConnectionBuilder{
		builder: newBuilder(),
		pos:     &stream{name: "endpoints", components: 4},
		ch:      ch,
	}
	b.instanced = true
	b.addNumberChannel("size", ch.Size)
	b.addNumberChannel("size2", ch.Size2)
	b.addColorChannel("color", ch.Color)
	b.addColorChannel("color2", ch.Color2)
	b.addNumberChannel("opacity", ch.Opacity)
	return b
}

// AddBatch appends one instance record per datum under key.
func (b *ConnectionBuilder) AddBatch(key string, data []gv.Datum) {
	for _, d := range data {
		x, okX := b.ch.X.Number(d)
		y, okY := b.ch.Y.Number(d)
		x2, okX2 := b.ch.X2.Number(d)
		y2, okY2 := b.ch.Y2.Number(d)
		if !okX || !okY || !okX2 || !okY2 {
			continue
		}
		b.pos.push(float32(x), float32(y), float32(x2), float32(y2))
		b.emit(d, 1)
	}
	b.closeBatch(key)
}

// ToArrays returns the packed per-instance arrays. Instanced is set: the
// ranges count instances, not expanded vertices.
func (b *ConnectionBuilder) ToArrays() (*Arrays, error) {
	return b.toArrays(b.pos)
}
