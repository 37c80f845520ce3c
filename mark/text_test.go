package mark

import (
	"testing"

	"github.com/genomevis/gv"
	"github.com/genomevis/gv/font"
)

func testTable() *font.Table {
	return &font.Table{
		Glyphs: map[rune]font.Glyph{
			'A': {Width: 10, Height: 12, XAdvance: 12, XOffset: 1, YOffset: 2, AtlasX: 0, AtlasY: 0},
			'B': {Width: 10, Height: 12, XAdvance: 12, XOffset: 1, YOffset: 2, AtlasX: 16, AtlasY: 0},
			' ': {XAdvance: 6},
			'�': {Width: 10, Height: 12, XAdvance: 12, XOffset: 1, YOffset: 2, AtlasX: 32, AtlasY: 0},
		},
		Default:     '�',
		Size:        16,
		Base:        14,
		LineHeight:  20,
		CapHeight:   12,
		XHeight:     8,
		AtlasWidth:  64,
		AtlasHeight: 64,
	}
}

func textChannels() TextChannels {
	return TextChannels{
		X:       Field("x", nil),
		Y:       Field("y", nil),
		Text:    Field("label", nil),
		Size:    Constant(16.0),
		Color:   Constant("black"),
		Opacity: Constant(1.0),
	}
}

func buildText(t *testing.T, opts TextOptions, data []gv.Datum) *Arrays {
	t.Helper()
	b := NewTextBuilder(textChannels(), testTable(), opts)
	b.AddBatch("a", data)
	arrays, err := b.ToArrays()
	if err != nil {
		t.Fatal(err)
	}
	return arrays
}

func TestTextSixVerticesPerVisibleGlyph(t *testing.T) {
	// "AB A" has four glyphs, one of them a space.
	arrays := buildText(t, TextOptions{}, []gv.Datum{
		{"x": 0.0, "y": 0.0, "label": "AB A"},
	})
	if arrays.VertexCount != 6*3 {
		t.Errorf("VertexCount = %d, want 18", arrays.VertexCount)
	}
	if got := arrays.RangeMap["a"]; got != (Range{0, 18}) {
		t.Errorf("range = %+v, want {0 18}", got)
	}
}

func TestTextEmptyAndMissingStrings(t *testing.T) {
	arrays := buildText(t, TextOptions{}, []gv.Datum{
		{"x": 0.0, "y": 0.0, "label": ""},
		{"x": 0.0, "y": 0.0},
		{"x": 0.0, "y": 0.0, "label": " "},
	})
	if arrays.VertexCount != 0 {
		t.Errorf("VertexCount = %d, want 0", arrays.VertexCount)
	}
	if got := arrays.RangeMap["a"]; got != (Range{0, 0}) {
		t.Errorf("range = %+v, want {0 0}", got)
	}
}

func TestTextSpaceAdvancesPen(t *testing.T) {
	solid := buildText(t, TextOptions{}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "AB"}})
	spaced := buildText(t, TextOptions{}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "A B"}})
	if solid.VertexCount != spaced.VertexCount {
		t.Fatalf("vertex counts differ: %d vs %d", solid.VertexCount, spaced.VertexCount)
	}

	// The second glyph starts further right when a space separates them.
	secondLeft := func(a *Arrays) float32 { return a.Arrays["corner"].Data[12] }
	if secondLeft(spaced) <= secondLeft(solid) {
		t.Errorf("spaced second glyph at %v, solid at %v", secondLeft(spaced), secondLeft(solid))
	}
}

func TestTextAlignment(t *testing.T) {
	left := buildText(t, TextOptions{Align: AlignLeft}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "AB"}})
	center := buildText(t, TextOptions{Align: AlignCenter}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "AB"}})
	right := buildText(t, TextOptions{Align: AlignRight}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "AB"}})

	firstLeft := func(a *Arrays) float32 { return a.Arrays["corner"].Data[0] }
	// Run advance is 24 table pixels = 1.5 em.
	if got, want := firstLeft(center)-firstLeft(left), float32(-0.75); got != want {
		t.Errorf("center shift = %v, want %v", got, want)
	}
	if got, want := firstLeft(right)-firstLeft(left), float32(-1.5); got != want {
		t.Errorf("right shift = %v, want %v", got, want)
	}
}

func TestTextBaseline(t *testing.T) {
	alpha := buildText(t, TextOptions{}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "A"}})
	top := buildText(t, TextOptions{Baseline: BaselineTop}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "A"}})
	bottom := buildText(t, TextOptions{Baseline: BaselineBottom}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "A"}})

	firstTop := func(a *Arrays) float32 { return a.Arrays["corner"].Data[1] }
	// Cap height is 12 table pixels = 0.75 em below the anchor in y-down
	// coordinates.
	if got, want := firstTop(top)-firstTop(alpha), float32(0.75); got != want {
		t.Errorf("top shift = %v, want %v", got, want)
	}
	// Descent is lineHeight - base = 6 table pixels = 0.375 em.
	if got, want := firstTop(bottom)-firstTop(alpha), float32(-0.375); got != want {
		t.Errorf("bottom shift = %v, want %v", got, want)
	}
}

func TestTextUnknownRuneUsesDefaultGlyph(t *testing.T) {
	arrays := buildText(t, TextOptions{}, []gv.Datum{{"x": 0.0, "y": 0.0, "label": "世"}})
	if arrays.VertexCount != 6 {
		t.Fatalf("VertexCount = %d, want 6", arrays.VertexCount)
	}
	// The default glyph's atlas cell starts at u = 32/64.
	uv := arrays.Arrays["uv"].Data
	if uv[0] != 0.5 {
		t.Errorf("u0 = %v, want 0.5", uv[0])
	}
}
