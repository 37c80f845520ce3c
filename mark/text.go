package mark

import (
	"golang.org/x/text/unicode/norm"

	"github.com/genomevis/gv"
	"github.com/genomevis/gv/font"
)

// Align is the horizontal anchoring of a text run.
type Align string

// Horizontal alignments.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Baseline is the vertical anchoring of a text run.
type Baseline string

// Vertical baselines.
const (
	BaselineAlphabetic Baseline = "alphabetic"
	BaselineTop        Baseline = "top"
	BaselineMiddle     Baseline = "middle"
	BaselineBottom     Baseline = "bottom"
)

// TextChannels are the encoders feeding a text batch.
type TextChannels struct {
	X       Encoder
	Y       Encoder
	Text    Encoder
	Size    Encoder
	Color   Encoder
	Opacity Encoder
}

// TextOptions configure batch-wide text layout.
type TextOptions struct {
	Align    Align
	Baseline Baseline
}

// TextBuilder emits six vertices (two triangles) per visible glyph.
//
// Layout runs in em units: glyph geometry from the metric table is
// normalized by the table's em size, and the draw stage multiplies by the
// size channel. The anchor point comes from the x/y channels; the whole
// run shifts by alignment and baseline offsets. Spaces advance the pen
// without vertices, and glyphs missing from the table render as the
// table's default glyph.
type TextBuilder struct {
	*builder
	pos    *stream // anchor x, y
	corner *stream // glyph-relative offset in em units
	uv     *stream // atlas texture coordinates
	ch     TextChannels
	table  *font.Table
	opts   TextOptions
}

// NewTextBuilder creates a builder for text marks over the given metric
// table.
func NewTextBuilder(ch TextChannels, table *font.Table, opts TextOptions) *TextBuilder {
	if opts.Align == "" {
		opts.Align = AlignLeft
	}
	if opts.Baseline == "" {
		opts.Baseline = BaselineAlphabetic
	}
	b := &TextBuilder{
		builder: newBuilder(),
		pos:     &stream{name: "pos", components: 2},
		corner:  &stream{name: "corner", components: 2},
		uv:      &stream{name: "uv", components: 2},
		ch:      ch,
		table:   table,
		opts:    opts,
	}
	b.addNumberChannel("size", ch.Size)
	b.addColorChannel("color", ch.Color)
	b.addNumberChannel("opacity", ch.Opacity)
	return b
}

// AddBatch appends glyph quads for data under key. A datum with a missing
// or empty string contributes no vertices.
func (b *TextBuilder) AddBatch(key string, data []gv.Datum) {
	for _, d := range data {
		text, _ := b.ch.Text.Value(d).(string)
		if text == "" {
			continue
		}
		text = norm.NFC.String(text)

		x, okX := b.ch.X.Number(d)
		y, okY := b.ch.Y.Number(d)
		if !okX || !okY {
			continue
		}

		b.emitRun(d, float32(x), float32(y), text)
	}
	b.closeBatch(key)
}

// emitRun lays out one text run and pushes its glyph quads.
func (b *TextBuilder) emitRun(d gv.Datum, x, y float32, text string) {
	em := b.table.Size
	penX := b.alignOffset(text) / em
	baseY := b.baselineOffset() / em

	emitted := 0
	for _, r := range text {
		g, ok := b.table.Glyph(r)
		if !ok {
			continue
		}
		if r != ' ' && g.Width > 0 && g.Height > 0 {
			b.pushGlyph(x, y, penX, baseY, g)
			emitted += 6
		}
		penX += g.XAdvance / em
	}
	if emitted > 0 {
		b.emit(d, emitted)
	}
}

// alignOffset returns the horizontal shift of the run start, in table
// pixels.
func (b *TextBuilder) alignOffset(text string) float64 {
	switch b.opts.Align {
	case AlignCenter:
		return -b.table.Advance(text) / 2
	case AlignRight:
		return -b.table.Advance(text)
	default:
		return 0
	}
}

// baselineOffset returns the vertical shift from the anchor to the
// alphabetic baseline, in table pixels. Top and middle hang the run from
// the cap height; bottom sits it on the descent.
func (b *TextBuilder) baselineOffset() float64 {
	switch b.opts.Baseline {
	case BaselineTop:
		return b.table.CapHeight
	case BaselineMiddle:
		return b.table.CapHeight / 2
	case BaselineBottom:
		return -(b.table.LineHeight - b.table.Base)
	default:
		return 0
	}
}

// pushGlyph emits the six vertices of one glyph quad.
func (b *TextBuilder) pushGlyph(x, y float32, penX, baseY float64, g font.Glyph) {
	em := b.table.Size

	left := float32(penX + g.XOffset/em)
	right := float32(penX + (g.XOffset+g.Width)/em)
	top := float32(baseY + (g.YOffset-b.table.Base)/em)
	bottom := float32(baseY + (g.YOffset-b.table.Base+g.Height)/em)

	aw := float32(b.table.AtlasWidth)
	ah := float32(b.table.AtlasHeight)
	u0 := float32(g.AtlasX) / aw
	v0 := float32(g.AtlasY) / ah
	u1 := (float32(g.AtlasX) + float32(g.Width)) / aw
	v1 := (float32(g.AtlasY) + float32(g.Height)) / ah

	// Two counterclockwise triangles.
	corners := [12]float32{
		left, top, right, top, left, bottom,
		right, top, right, bottom, left, bottom,
	}
	uvs := [12]float32{
		u0, v0, u1, v0, u0, v1,
		u1, v0, u1, v1, u0, v1,
	}
	for i := 0; i < 12; i += 2 {
		b.pos.push(x, y)
		b.corner.push(corners[i], corners[i+1])
		b.uv.push(uvs[i], uvs[i+1])
	}
}

// ToArrays returns the packed attribute arrays.
func (b *TextBuilder) ToArrays() (*Arrays, error) {
	return b.toArrays(b.pos, b.corner, b.uv)
}
