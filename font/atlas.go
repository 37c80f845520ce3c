package font

import (
	"bytes"
	"errors"
	"fmt"

	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrAtlasFull is returned when the charset does not fit the atlas texture.
var ErrAtlasFull = errors.New("font: charset does not fit atlas")

// BuildOptions configures BuildTable.
type BuildOptions struct {
	// Size is the em size in pixels. Default: 32.
	Size float64

	// AtlasSize is the width and height of the atlas texture. Default: 512.
	AtlasSize int

	// Padding is the gap between cells, preventing sampling bleed.
	// Default: 2.
	Padding int

	// Charset lists the codepoints to include. Default: printable ASCII
	// plus the replacement character.
	Charset []rune
}

func (o *BuildOptions) fillDefaults() {
	if o.Size == 0 {
		o.Size = 32
	}
	if o.AtlasSize == 0 {
		o.AtlasSize = 512
	}
	if o.Padding == 0 {
		o.Padding = 2
	}
	if len(o.Charset) == 0 {
		charset := make([]rune, 0, 96)
		for r := rune(' '); r <= '~'; r++ {
			charset = append(charset, r)
		}
		o.Charset = append(charset, DefaultRune)
	}
}

// BuildTable derives a bitmap-font metric table from an OpenType font.
//
// Glyph bounds and font metrics come from the x/image sfnt tables; pen
// advances come from HarfBuzz shaping via go-text/typesetting, so the table
// advances match what a shaping text renderer would produce. Atlas cell
// positions are assigned by shelf packing; rasterizing the glyphs into the
// atlas texture is the caller's concern (the table records where each cell
// goes).
func BuildTable(data []byte, opts BuildOptions) (*Table, error) {
	opts.fillDefaults()

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parsing font: %w", err)
	}

	gtFace, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("font: parsing font for shaping: %w", err)
	}

	var buf sfnt.Buffer
	ppem := fixed.Int26_6(opts.Size * 64)
	metrics, err := parsed.Metrics(&buf, ppem, font.HintingFull)
	if err != nil {
		return nil, fmt.Errorf("font: reading metrics: %w", err)
	}
	ascent := fixedToFloat(metrics.Ascent)

	t := &Table{
		Glyphs:      make(map[rune]Glyph, len(opts.Charset)),
		Default:     DefaultRune,
		Size:        opts.Size,
		Base:        ascent,
		LineHeight:  fixedToFloat(metrics.Height),
		CapHeight:   fixedToFloat(metrics.CapHeight),
		XHeight:     fixedToFloat(metrics.XHeight),
		AtlasWidth:  opts.AtlasSize,
		AtlasHeight: opts.AtlasSize,
	}

	var shaper shaping.HarfbuzzShaper
	alloc := newShelfAllocator(opts.AtlasSize, opts.AtlasSize, opts.Padding)

	for _, r := range opts.Charset {
		gid, err := parsed.GlyphIndex(&buf, r)
		if err != nil || gid == 0 {
			continue
		}

		bounds, _, err := parsed.GlyphBounds(&buf, gid, ppem, font.HintingFull)
		if err != nil {
			continue
		}
		width := fixedToFloat(bounds.Max.X - bounds.Min.X)
		height := fixedToFloat(bounds.Max.Y - bounds.Min.Y)

		g := Glyph{
			Width:    width,
			Height:   height,
			XAdvance: shapeAdvance(&shaper, gtFace, r, opts.Size),
			XOffset:  fixedToFloat(bounds.Min.X),
			YOffset:  ascent + fixedToFloat(bounds.Min.Y),
		}

		// Whitespace and other blank glyphs keep their advance but need
		// no atlas cell.
		if width > 0 && height > 0 {
			x, y, ok := alloc.allocate(ceilInt(width), ceilInt(height))
			if !ok {
				return nil, fmt.Errorf("%w: %dx%d at %q", ErrAtlasFull, opts.AtlasSize, opts.AtlasSize, r)
			}
			g.AtlasX, g.AtlasY = x, y
		}
		t.Glyphs[r] = g
	}

	if len(t.Glyphs) == 0 {
		return nil, ErrNoGlyphs
	}
	return t, nil
}

// shapeAdvance shapes a single codepoint and returns its pen advance.
func shapeAdvance(shaper *shaping.HarfbuzzShaper, face *gtfont.Face, r rune, size float64) float64 {
	input := shaping.Input{
		Text:     []rune{r},
		RunStart: 0,
		RunEnd:   1,
		Face:     face,
		Size:     fixed.Int26_6(size * 64),
		Script:   language.LookupScript(r),
		Language: language.NewLanguage("en"),
	}
	output := shaper.Shape(input)
	var advance fixed.Int26_6
	for _, g := range output.Glyphs {
		advance += g.Advance
	}
	return fixedToFloat(advance)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func ceilInt(v float64) int {
	n := int(v)
	if float64(n) < v {
		n++
	}
	return n
}
