package mark

import (
	"testing"

	"github.com/genomevis/gv"
)

func TestRuleStripVertices(t *testing.T) {
	ch := RuleChannels{
		X:       Field("x", nil),
		Y:       Field("y", nil),
		X2:      Field("x2", nil),
		Y2:      Field("y2", nil),
		Width:   Constant(1.0),
		Color:   Constant("black"),
		Opacity: Constant(1.0),
	}
	b := NewRuleBuilder(ch, RuleOptions{})
	b.AddBatch("a", []gv.Datum{{"x": 0.0, "y": 0.0, "x2": 10.0, "y2": 0.0}})
	arrays, err := b.ToArrays()
	if err != nil {
		t.Fatal(err)
	}
	// Duplicate + two vertices at each of two tile boundaries + duplicate.
	if arrays.VertexCount != 6 {
		t.Fatalf("VertexCount = %d, want 6", arrays.VertexCount)
	}

	param := arrays.Arrays["param"]
	if param.Components != 2 {
		t.Fatalf("param components = %d, want 2", param.Components)
	}
	want := []float32{
		0, -0.5, // start duplicate
		0, -0.5, 0, 0.5,
		1, -0.5, 1, 0.5,
		1, 0.5, // end duplicate
	}
	for i := range want {
		if param.Data[i] != want[i] {
			t.Fatalf("param = %v, want %v", param.Data, want)
		}
	}

	pos := arrays.Arrays["pos"].Data
	// pos interpolates along the rule: x is 0 at pos=0 and 10 at pos=1.
	if pos[0] != 0 || pos[len(pos)-2] != 10 {
		t.Errorf("pos endpoints = %v and %v, want 0 and 10", pos[0], pos[len(pos)-2])
	}
}
