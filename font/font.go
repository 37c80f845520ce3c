// Package font provides bitmap-font metric tables for the text mark.
//
// A Table maps codepoints to glyph cells in a texture atlas: per-glyph
// geometry (size, bearing, advance) plus the cell's position in the atlas.
// Tables come from two sources: ParseBMFont reads the AngelCode BMFont text
// format that bitmap-font generators emit, and BuildTable derives a table
// from an OpenType font, packing glyph cells with a shelf allocator.
//
// All metrics are in pixels at the table's Size.
package font

// Glyph describes one glyph cell: its quad geometry relative to the pen
// position and its location in the atlas texture.
type Glyph struct {
	// Width and Height are the glyph quad size in pixels.
	Width  float64
	Height float64

	// XAdvance is how far the pen moves after this glyph.
	XAdvance float64

	// XOffset and YOffset position the quad relative to the pen;
	// YOffset is measured down from the cell top to the line top.
	XOffset float64
	YOffset float64

	// AtlasX and AtlasY are the cell's top-left corner in the atlas.
	AtlasX int
	AtlasY int
}

// Table is a bitmap-font metric table.
type Table struct {
	// Glyphs maps codepoints to their cells.
	Glyphs map[rune]Glyph

	// Default is the fallback codepoint for unknown characters.
	Default rune

	// Size is the em size the table was generated at.
	Size float64

	// Base is the baseline offset from the line top.
	Base float64

	// LineHeight is the distance between consecutive baselines.
	LineHeight float64

	// CapHeight and XHeight are the uppercase and lowercase letter
	// heights, used for baseline alignment.
	CapHeight float64
	XHeight   float64

	// AtlasWidth and AtlasHeight are the atlas texture dimensions,
	// needed to normalize cell positions into texture coordinates.
	AtlasWidth  int
	AtlasHeight int
}

// DefaultRune is the fallback codepoint used when a table does not declare
// its own.
const DefaultRune = '�'

// Glyph returns the cell for r, falling back to the table's default glyph
// for unknown codepoints. ok is false only when the fallback is missing
// too, in which case the character produces no geometry.
func (t *Table) Glyph(r rune) (Glyph, bool) {
	if g, found := t.Glyphs[r]; found {
		return g, true
	}
	fallback := t.Default
	if fallback == 0 {
		fallback = DefaultRune
	}
	if g, found := t.Glyphs[fallback]; found {
		return g, true
	}
	// Last resort: '?' is present in practically every bitmap font.
	g, found := t.Glyphs['?']
	return g, found
}

// Advance returns the pen advance of s: the sum of per-glyph advances,
// with spaces contributing their advance like any other glyph.
func (t *Table) Advance(s string) float64 {
	var width float64
	for _, r := range s {
		if g, ok := t.Glyph(r); ok {
			width += g.XAdvance
		}
	}
	return width
}
