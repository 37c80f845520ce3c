package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/genomevis/gv"
	"github.com/genomevis/gv/mark"
)

func TestFloatBytesLittleEndian(t *testing.T) {
	got := floatBytes([]float32{1.0})
	want := []byte{0x00, 0x00, 0x80, 0x3f}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bytes = %v, want %v", got, want)
		}
	}
}

func TestVertexFormat(t *testing.T) {
	cases := []struct {
		components int
		want       gputypes.VertexFormat
	}{
		{1, gputypes.VertexFormatFloat32},
		{2, gputypes.VertexFormatFloat32x2},
		{3, gputypes.VertexFormatFloat32x3},
		{4, gputypes.VertexFormatFloat32x4},
	}
	for _, c := range cases {
		got, err := vertexFormat(c.components)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("vertexFormat(%d) = %v, want %v", c.components, got, c.want)
		}
	}
	if _, err := vertexFormat(5); err == nil {
		t.Error("vertexFormat(5) succeeded")
	}
}

func TestBatchLayouts(t *testing.T) {
	arrays := &mark.Arrays{
		Arrays: map[string]mark.Array{
			"pos":     {Data: []float32{0, 0}, Components: 2},
			"color":   {Data: []float32{1, 0, 0}, Components: 3},
			"opacity": {Data: []float32{1}, Components: 1, Constant: true},
		},
		VertexCount: 1,
	}
	layouts, err := batchLayouts(arrays)
	if err != nil {
		t.Fatal(err)
	}

	// Constant attributes get no buffer; the rest follow sorted-name
	// order with consecutive shader locations.
	if len(layouts) != 2 {
		t.Fatalf("len = %d, want 2", len(layouts))
	}
	if layouts[0].ArrayStride != 12 || layouts[0].Attributes[0].ShaderLocation != 0 {
		t.Errorf("color layout = %+v", layouts[0])
	}
	if layouts[1].ArrayStride != 8 || layouts[1].Attributes[0].ShaderLocation != 1 {
		t.Errorf("pos layout = %+v", layouts[1])
	}
	for _, l := range layouts {
		if l.StepMode != gputypes.VertexStepModeVertex {
			t.Errorf("step mode = %v, want per-vertex", l.StepMode)
		}
	}
}

func TestBatchLayoutsInstanced(t *testing.T) {
	arrays := &mark.Arrays{
		Arrays: map[string]mark.Array{
			"endpoints": {Data: []float32{0, 0, 1, 1}, Components: 4},
		},
		VertexCount: 1,
		Instanced:   true,
	}
	layouts, err := batchLayouts(arrays)
	if err != nil {
		t.Fatal(err)
	}
	if layouts[0].StepMode != gputypes.VertexStepModeInstance {
		t.Errorf("step mode = %v, want per-instance", layouts[0].StepMode)
	}
}

// pointArrays builds a point batch where only x and y are field-encoded,
// leaving every other channel constant.
func pointArrays(t *testing.T) *mark.Arrays {
	t.Helper()
	b := mark.NewPointBuilder(mark.PointChannels{
		X:           mark.Field("x", nil),
		Y:           mark.Field("y", nil),
		Size:        mark.Constant(5.0),
		Color:       mark.Constant("black"),
		Opacity:     mark.Constant(1.0),
		Shape:       mark.Constant("circle"),
		StrokeWidth: mark.Constant(0.0),
	})
	b.AddBatch("a", []gv.Datum{{"x": 0.5, "y": 0.5}})
	arrays, err := b.ToArrays()
	if err != nil {
		t.Fatal(err)
	}
	return arrays
}

func TestShaderInputsMatchLayouts(t *testing.T) {
	arrays := pointArrays(t)

	layouts, err := batchLayouts(arrays)
	if err != nil {
		t.Fatal(err)
	}
	// pos is the only variable attribute, so it owns location 0.
	if len(layouts) != 1 {
		t.Fatalf("layouts = %d, want 1", len(layouts))
	}
	if loc := layouts[0].Attributes[0].ShaderLocation; loc != 0 {
		t.Fatalf("pos location = %d, want 0", loc)
	}

	src, err := ShaderSource("point", arrays)
	if err != nil {
		t.Fatal(err)
	}
	// The generated vertex input reads pos at the same location the
	// layout feeds it.
	if !strings.Contains(src, "@location(0) pos: vec2<f32>") {
		t.Error("shader does not read pos at location 0")
	}
	// Constant channels come from the uniform block instead of vertex
	// inputs.
	for _, want := range []string{"u_const.color.xyz", "u_const.shape.x", "u_const.opacity.x"} {
		if !strings.Contains(src, want) {
			t.Errorf("shader missing constant reference %q", want)
		}
	}
	// Scope to the vertex stage: the fragment stage legitimately reads
	// in.color from VertexOut.
	vertexStage := src[:strings.Index(src, "@fragment")]
	if strings.Contains(vertexStage, "in.color") {
		t.Error("shader reads constant color as a vertex input")
	}
}

func TestShaderAllVariableChannels(t *testing.T) {
	b := mark.NewPointBuilder(mark.PointChannels{
		X:           mark.Field("x", nil),
		Y:           mark.Field("y", nil),
		Size:        mark.Field("size", nil),
		Color:       mark.Field("color", nil),
		Opacity:     mark.Field("opacity", nil),
		Shape:       mark.Field("shape", nil),
		StrokeWidth: mark.Field("sw", nil),
	})
	b.AddBatch("a", []gv.Datum{{
		"x": 0.0, "y": 0.0, "size": 1.0, "color": "red",
		"opacity": 1.0, "shape": "circle", "sw": 0.0,
	}})
	arrays, err := b.ToArrays()
	if err != nil {
		t.Fatal(err)
	}

	src, err := ShaderSource("point", arrays)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(src, "MarkConstants") {
		t.Error("fully variable batch declared a constants uniform")
	}

	// Inputs follow sorted-name order, matching batchLayouts.
	layouts, err := batchLayouts(arrays)
	if err != nil {
		t.Fatal(err)
	}
	if len(layouts) != 6 {
		t.Fatalf("layouts = %d, want 6", len(layouts))
	}
	if !strings.Contains(src, "@location(2) pos: vec2<f32>") {
		t.Error("pos not at location 2 in sorted channel order")
	}
	for i := 0; i < 6; i++ {
		if !strings.Contains(src, fmt.Sprintf("@location(%d) ", i)) {
			t.Errorf("no vertex input at location %d", i)
		}
	}
}

func TestShaderSourcePerKind(t *testing.T) {
	builders := map[string]func() (*mark.Arrays, error){
		"rect": func() (*mark.Arrays, error) {
			b := mark.NewRectBuilder(mark.RectChannels{
				X: mark.Field("x", nil), X2: mark.Field("x2", nil),
				Y: mark.Field("y", nil), Y2: mark.Field("y2", nil),
				Color: mark.Constant("black"), Opacity: mark.Constant(1.0),
			}, mark.RectOptions{})
			b.AddBatch("a", []gv.Datum{{"x": 0.0, "x2": 1.0, "y": 0.0, "y2": 1.0}})
			return b.ToArrays()
		},
		"rule": func() (*mark.Arrays, error) {
			b := mark.NewRuleBuilder(mark.RuleChannels{
				X: mark.Field("x", nil), Y: mark.Field("y", nil),
				X2: mark.Field("x2", nil), Y2: mark.Field("y2", nil),
				Width: mark.Constant(1.0), Color: mark.Constant("black"),
				Opacity: mark.Constant(1.0),
			}, mark.RuleOptions{})
			b.AddBatch("a", []gv.Datum{{"x": 0.0, "y": 0.0, "x2": 1.0, "y2": 1.0}})
			return b.ToArrays()
		},
		"connection": func() (*mark.Arrays, error) {
			b := mark.NewConnectionBuilder(mark.ConnectionChannels{
				X: mark.Field("x", nil), Y: mark.Field("y", nil),
				X2: mark.Field("x2", nil), Y2: mark.Field("y2", nil),
				Size: mark.Constant(1.0), Size2: mark.Constant(1.0),
				Color: mark.Constant("black"), Color2: mark.Constant("black"),
				Opacity: mark.Constant(1.0),
			})
			b.AddBatch("a", []gv.Datum{{"x": 0.0, "y": 0.0, "x2": 1.0, "y2": 1.0}})
			return b.ToArrays()
		},
	}
	for kind, build := range builders {
		arrays, err := build()
		if err != nil {
			t.Fatal(err)
		}
		src, err := ShaderSource(kind, arrays)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if strings.Contains(src, "{{") {
			t.Errorf("%s shader has unsubstituted channel tokens", kind)
		}
	}

	if _, err := ShaderSource("banana", pointArrays(t)); err == nil {
		t.Error("unknown kind succeeded")
	}
}

func TestShaderSourceMissingChannel(t *testing.T) {
	arrays := &mark.Arrays{
		Arrays: map[string]mark.Array{
			"pos": {Data: []float32{0, 0}, Components: 2},
		},
		VertexCount: 1,
	}
	if _, err := ShaderSource("point", arrays); err == nil {
		t.Error("shader generated despite missing channels")
	}
}

func TestConstantsData(t *testing.T) {
	arrays := &mark.Arrays{
		Arrays: map[string]mark.Array{
			"pos":     {Data: []float32{0, 0}, Components: 2},
			"color":   {Data: []float32{1, 0, 0.5}, Components: 3, Constant: true},
			"opacity": {Data: []float32{0.25}, Components: 1, Constant: true},
		},
		VertexCount: 1,
	}
	data := ConstantsData(arrays)
	// One padded vec4 slot per constant, sorted: color then opacity.
	want := []float32{1, 0, 0.5, 0, 0.25, 0, 0, 0}
	if len(data) != len(want) {
		t.Fatalf("data = %v, want %v", data, want)
	}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("data = %v, want %v", data, want)
		}
	}
}

func TestConstantsDataEmpty(t *testing.T) {
	arrays := &mark.Arrays{
		Arrays:      map[string]mark.Array{"pos": {Data: []float32{0, 0}, Components: 2}},
		VertexCount: 1,
	}
	if data := ConstantsData(arrays); len(data) != 0 {
		t.Errorf("data = %v, want empty", data)
	}
}
