package mark

import (
	"testing"

	"github.com/genomevis/gv"
)

func rectChannels() RectChannels {
	return RectChannels{
		X:       Field("x", nil),
		X2:      Field("x2", nil),
		Y:       Field("y", nil),
		Y2:      Field("y2", nil),
		Color:   Constant("black"),
		Opacity: Constant(1.0),
	}
}

func TestRectSixVerticesPerRect(t *testing.T) {
	b := NewRectBuilder(rectChannels(), RectOptions{})
	b.AddBatch("sampleA", []gv.Datum{{"x": 0.0, "x2": 10.0, "y": 0.0, "y2": 1.0}})
	arrays, err := b.ToArrays()
	if err != nil {
		t.Fatal(err)
	}
	if arrays.VertexCount != 6 {
		t.Errorf("VertexCount = %d, want 6", arrays.VertexCount)
	}
	if got := arrays.RangeMap["sampleA"]; got != (Range{0, 6}) {
		t.Errorf("range = %+v, want {0 6}", got)
	}

	// Start duplicate, four corners, end duplicate.
	want := []float32{
		0, 0,
		0, 0, 10, 0, 0, 1, 10, 1,
		10, 1,
	}
	pos := arrays.Arrays["pos"].Data
	if len(pos) != len(want) {
		t.Fatalf("pos = %v, want %v", pos, want)
	}
	for i := range want {
		if pos[i] != want[i] {
			t.Fatalf("pos = %v, want %v", pos, want)
		}
	}
}

func TestRectSwappedBoundsEquivalent(t *testing.T) {
	build := func(d gv.Datum) []float32 {
		b := NewRectBuilder(rectChannels(), RectOptions{})
		b.AddBatch("a", []gv.Datum{d})
		arrays, err := b.ToArrays()
		if err != nil {
			t.Fatal(err)
		}
		return arrays.Arrays["pos"].Data
	}

	ordered := build(gv.Datum{"x": 2.0, "x2": 8.0, "y": 1.0, "y2": 3.0})
	swapped := build(gv.Datum{"x": 8.0, "x2": 2.0, "y": 3.0, "y2": 1.0})
	if len(ordered) != len(swapped) {
		t.Fatalf("lengths differ: %d vs %d", len(ordered), len(swapped))
	}
	for i := range ordered {
		if ordered[i] != swapped[i] {
			t.Fatalf("swapped bounds diverge at %d: %v vs %v", i, ordered, swapped)
		}
	}
}

func TestRectClipping(t *testing.T) {
	opts := RectOptions{Lower: 0, Upper: 100}
	// Zero lower bound alone would disable clipping, so use a window
	// starting above zero as well.
	t.Run("fully outside", func(t *testing.T) {
		b := NewRectBuilder(rectChannels(), RectOptions{Lower: 10, Upper: 100})
		b.AddBatch("a", []gv.Datum{{"x": 0.0, "x2": 5.0, "y": 0.0, "y2": 1.0}})
		arrays, err := b.ToArrays()
		if err != nil {
			t.Fatal(err)
		}
		if arrays.VertexCount != 0 {
			t.Errorf("VertexCount = %d, want 0", arrays.VertexCount)
		}
		if got := arrays.RangeMap["a"]; got != (Range{0, 0}) {
			t.Errorf("range = %+v, want {0 0}", got)
		}
	})

	t.Run("partially outside clamps", func(t *testing.T) {
		b := NewRectBuilder(rectChannels(), opts)
		b.AddBatch("a", []gv.Datum{{"x": -20.0, "x2": 150.0, "y": 0.0, "y2": 1.0}})
		arrays, err := b.ToArrays()
		if err != nil {
			t.Fatal(err)
		}
		pos := arrays.Arrays["pos"].Data
		for i := 0; i < len(pos); i += 2 {
			if pos[i] < 0 || pos[i] > 100 {
				t.Fatalf("x = %v outside [0, 100]", pos[i])
			}
		}
	})
}

func TestRectSqueezeEmitsTriangle(t *testing.T) {
	// For the rect [0, 4] x [0, 2] each variant collapses into three
	// corners with the apex on the named edge, bounded by duplicates.
	cases := []struct {
		squeeze Squeeze
		want    []float32
	}{
		{SqueezeBottom, []float32{2, 0, 2, 0, 0, 2, 4, 2, 4, 2}},
		{SqueezeTop, []float32{0, 0, 0, 0, 4, 0, 2, 2, 2, 2}},
		{SqueezeLeft, []float32{0, 1, 0, 1, 4, 0, 4, 2, 4, 2}},
		{SqueezeRight, []float32{0, 0, 0, 0, 0, 2, 4, 1, 4, 1}},
	}
	for _, c := range cases {
		t.Run(string(c.squeeze), func(t *testing.T) {
			b := NewRectBuilder(rectChannels(), RectOptions{Squeeze: c.squeeze})
			b.AddBatch("a", []gv.Datum{{"x": 0.0, "x2": 4.0, "y": 0.0, "y2": 2.0}})
			arrays, err := b.ToArrays()
			if err != nil {
				t.Fatal(err)
			}
			if arrays.VertexCount != 5 {
				t.Fatalf("VertexCount = %d, want 5", arrays.VertexCount)
			}
			pos := arrays.Arrays["pos"].Data
			if len(pos) != len(c.want) {
				t.Fatalf("pos = %v, want %v", pos, c.want)
			}
			for i := range c.want {
				if pos[i] != c.want[i] {
					t.Fatalf("pos = %v, want %v", pos, c.want)
				}
			}
		})
	}
}

func TestRectSkipsIncompleteData(t *testing.T) {
	b := NewRectBuilder(rectChannels(), RectOptions{})
	b.AddBatch("a", []gv.Datum{
		{"x": 0.0, "x2": 1.0, "y": 0.0}, // y2 missing
		{"x": 0.0, "x2": 1.0, "y": 0.0, "y2": 1.0},
	})
	arrays, err := b.ToArrays()
	if err != nil {
		t.Fatal(err)
	}
	if arrays.VertexCount != 6 {
		t.Errorf("VertexCount = %d, want 6", arrays.VertexCount)
	}
}
