package mark

import (
	"fmt"

	"github.com/genomevis/gv"
)

// Range is a contiguous half-open vertex range [Offset, Offset+Count)
// within a built buffer.
type Range struct {
	Offset int
	Count  int
}

// Array is one attribute's packed data.
type Array struct {
	// Data holds Components values per vertex, or a single entry when
	// Constant.
	Data []float32

	// Components is the attribute's component width (1-4), needed for
	// interleaving and vertex-layout declarations.
	Components int

	// Constant marks an attribute whose encoding does not vary with
	// data: Data holds one value instead of one per vertex.
	Constant bool
}

// Arrays is the output of a builder: everything the draw stage needs to
// upload and issue range draws.
type Arrays struct {
	// Arrays maps attribute names to their packed data.
	Arrays map[string]Array

	// VertexCount is the total number of vertices across all batches.
	VertexCount int

	// RangeMap maps batch keys to their vertex ranges. Ranges partition
	// [0, VertexCount) in insertion order without gaps.
	RangeMap map[string]Range

	// Instanced marks per-instance data: each "vertex" is one instance
	// record, advanced once per instance during an instanced draw.
	Instanced bool
}

// converter writes a channel value into dst. Implementations are chosen
// per channel kind (number, color, shape index).
type converter func(v any, dst []float32)

// channel is one registered attribute: an encoder plus its conversion into
// float components. Channels from constant encoders write the constant
// store once; the rest append per vertex.
type channel struct {
	name       string
	components int
	enc        Encoder
	conv       converter
	constant   bool

	data     []float32 // variable store, one entry set per vertex
	constVal []float32 // constant store, single entry
}

// builder accumulates vertices for keyed batches. Mark builders embed it
// and drive emit/synthetic streams from their per-datum geometry.
type builder struct {
	channels  []*channel
	colors    *colorCache
	scratch   [4]float32
	ranges    map[string]Range
	order     []string
	vertices  int
	instanced bool
}

func newBuilder() *builder {
	return &builder{
		colors: newColorCache(),
		ranges: make(map[string]Range),
	}
}

// addNumberChannel registers a scalar attribute fed by enc.
func (b *builder) addNumberChannel(name string, enc Encoder) {
	b.addChannel(name, 1, enc, func(v any, dst []float32) {
		n, _ := gv.AsNumber(v)
		if enc.Scale != nil {
			n = enc.Scale(n)
		}
		dst[0] = float32(n)
	})
}

// addColorChannel registers an RGB attribute fed by enc through the
// bounded color cache.
func (b *builder) addColorChannel(name string, enc Encoder) {
	b.addChannel(name, 3, enc, func(v any, dst []float32) {
		rgb := b.colors.convert(v)
		dst[0], dst[1], dst[2] = rgb[0], rgb[1], rgb[2]
	})
}

// addChannel registers an attribute with an explicit converter.
func (b *builder) addChannel(name string, components int, enc Encoder, conv converter) {
	ch := &channel{
		name:       name,
		components: components,
		enc:        enc,
		conv:       conv,
		constant:   enc.IsConstant(),
	}
	if ch.constant {
		// Computed once from the default (empty) datum.
		ch.constVal = make([]float32, components)
		conv(enc.Value(gv.Datum{}), ch.constVal)
	}
	b.channels = append(b.channels, ch)
}

// emit appends n vertices worth of channel values for datum d. Mark
// builders call it once per geometric vertex alongside their synthetic
// streams.
func (b *builder) emit(d gv.Datum, n int) {
	for _, ch := range b.channels {
		if ch.constant {
			continue
		}
		vals := b.scratch[:ch.components]
		ch.conv(ch.enc.Value(d), vals)
		for i := 0; i < n; i++ {
			ch.data = append(ch.data, vals...)
		}
	}
	b.vertices += n
}

// closeBatch records the range for key, covering every vertex emitted
// since the previous batch closed. Batches that produced no vertices are
// still recorded with a zero count so lookups stay total.
func (b *builder) closeBatch(key string) {
	offset := 0
	if n := len(b.order); n > 0 {
		prev := b.ranges[b.order[n-1]]
		offset = prev.Offset + prev.Count
	}
	b.ranges[key] = Range{Offset: offset, Count: b.vertices - offset}
	b.order = append(b.order, key)
}

// stream is a synthetic per-vertex attribute written directly by a mark
// builder: positions, strip parameters, texture coordinates.
type stream struct {
	name       string
	components int
	data       []float32
}

func (s *stream) push(vals ...float32) {
	s.data = append(s.data, vals...)
}

// toArrays merges the variable and constant stores with the given
// synthetic streams. Every variable array must cover exactly the emitted
// vertex count; a mismatch means a mark builder desynchronized its streams
// and is a bug, reported rather than silently drawn corrupt.
func (b *builder) toArrays(streams ...*stream) (*Arrays, error) {
	out := &Arrays{
		Arrays:      make(map[string]Array, len(b.channels)+len(streams)),
		VertexCount: b.vertices,
		RangeMap:    b.ranges,
		Instanced:   b.instanced,
	}
	for _, ch := range b.channels {
		if ch.constant {
			out.Arrays[ch.name] = Array{Data: ch.constVal, Components: ch.components, Constant: true}
			continue
		}
		if len(ch.data) != b.vertices*ch.components {
			return nil, fmt.Errorf("mark: channel %q has %d values for %d vertices",
				ch.name, len(ch.data), b.vertices)
		}
		out.Arrays[ch.name] = Array{Data: ch.data, Components: ch.components}
	}
	for _, s := range streams {
		if len(s.data) != b.vertices*s.components {
			return nil, fmt.Errorf("mark: stream %q has %d values for %d vertices",
				s.name, len(s.data), b.vertices)
		}
		out.Arrays[s.name] = Array{Data: s.data, Components: s.components}
	}
	return out, nil
}
