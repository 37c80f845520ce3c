package mark

import (
	"testing"

	"github.com/genomevis/gv"
)

func TestConnectionInstanced(t *testing.T) {
	ch := ConnectionChannels{
		X:       Field("x", nil),
		Y:       Field("y", nil),
		X2:      Field("x2", nil),
		Y2:      Field("y2", nil),
		Size:    Constant(1.0),
		Size2:   Constant(1.0),
		Color:   Constant("black"),
		Color2:  Constant("black"),
		Opacity: Constant(1.0),
	}
	b := NewConnectionBuilder(ch)
	b.AddBatch("a", []gv.Datum{
		{"x": 0.0, "y": 0.0, "x2": 100.0, "y2": 0.0},
		{"x": 5.0, "y": 1.0, "x2": 50.0, "y2": 1.0},
	})
	arrays, err := b.ToArrays()
	if err != nil {
		t.Fatal(err)
	}
	if !arrays.Instanced {
		t.Error("connection arrays not flagged instanced")
	}
	if arrays.VertexCount != 2 {
		t.Errorf("instance count = %d, want 2", arrays.VertexCount)
	}

	endpoints := arrays.Arrays["endpoints"]
	if endpoints.Components != 4 {
		t.Fatalf("endpoints components = %d, want 4", endpoints.Components)
	}
	want := []float32{0, 0, 100, 0, 5, 1, 50, 1}
	for i := range want {
		if endpoints.Data[i] != want[i] {
			t.Fatalf("endpoints = %v, want %v", endpoints.Data, want)
		}
	}
}

func TestConnectionSkipsIncompleteData(t *testing.T) {
	ch := ConnectionChannels{
		X:       Field("x", nil),
		Y:       Field("y", nil),
		X2:      Field("x2", nil),
		Y2:      Field("y2", nil),
		Size:    Constant(1.0),
		Size2:   Constant(1.0),
		Color:   Constant("black"),
		Color2:  Constant("black"),
		Opacity: Constant(1.0),
	}
	b := NewConnectionBuilder(ch)
	b.AddBatch("a", []gv.Datum{
		{"x": 0.0, "y": 0.0, "x2": 1.0}, // y2 missing
		{"x": 0.0, "y": 0.0, "x2": 1.0, "y2": 1.0},
	})
	arrays, err := b.ToArrays()
	if err != nil {
		t.Fatal(err)
	}
	if arrays.VertexCount != 1 {
		t.Errorf("instance count = %d, want 1", arrays.VertexCount)
	}
}
