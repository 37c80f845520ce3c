package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/genomevis/gv/mark"
)

// facetWGSL is the sample-facet placement function shared by every mark
// shader. The uniform carries the transition endpoints as a vec4
// (leftPos, leftHeight, rightPos, rightHeight) plus the horizontal
// transition offset; the function mirrors the CPU-side placement so both
// sides agree on band geometry during transitions.
const facetWGSL = `
struct FacetUniform {
    facet: vec4<f32>,
    offset: f32,
    _pad0: f32,
    _pad1: f32,
    _pad2: f32,
};

@group(0) @binding(0) var<uniform> u_facet: FacetUniform;

fn facet_place(x: f32, y: f32) -> f32 {
    let f = u_facet.facet;
    if (all(f == vec4<f32>(0.0, 1.0, 0.0, 1.0))) {
        return y;
    }
    var pos = f.x;
    var height = f.y;
    if (any(f.xy != f.zw)) {
        let fraction = smoothstep(0.0, 0.7 + u_facet.offset, (x - u_facet.offset) * 2.0);
        pos = mix(f.x, f.z, fraction);
        height = mix(f.y, f.w, fraction);
    }
    return pos + y * height;
}
`

// channelInfo is one attribute of a built mark, with the vertex-input
// location the layouts assign it. Locations cover variable channels only,
// in sorted-name order, so generated shaders and batchLayouts always
// agree.
type channelInfo struct {
	name       string
	components int
	constant   bool
	location   int
}

func channelInfos(arrays *mark.Arrays) []channelInfo {
	names := make([]string, 0, len(arrays.Arrays))
	for name := range arrays.Arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]channelInfo, 0, len(names))
	location := 0
	for _, name := range names {
		a := arrays.Arrays[name]
		info := channelInfo{name: name, components: a.Components, constant: a.Constant}
		if !a.Constant {
			info.location = location
			location++
		}
		infos = append(infos, info)
	}
	return infos
}

func wgslType(components int) string {
	switch components {
	case 1:
		return "f32"
	case 2:
		return "vec2<f32>"
	case 3:
		return "vec3<f32>"
	case 4:
		return "vec4<f32>"
	default:
		return ""
	}
}

// inputStruct declares the vertex inputs: one member per variable channel
// at its layout location.
func inputStruct(infos []channelInfo) string {
	var b strings.Builder
	b.WriteString("struct VertexIn {\n")
	for _, c := range infos {
		if c.constant {
			continue
		}
		fmt.Fprintf(&b, "    @location(%d) %s: %s,\n", c.location, c.name, wgslType(c.components))
	}
	b.WriteString("};\n")
	return b.String()
}

// constStruct declares the MarkConstants uniform holding the constant
// channels, one 16-byte vec4 slot per channel in sorted order, matching
// ConstantsData's packing. Empty when every channel is variable.
func constStruct(infos []channelInfo) string {
	any := false
	var b strings.Builder
	b.WriteString("struct MarkConstants {\n")
	for _, c := range infos {
		if !c.constant {
			continue
		}
		fmt.Fprintf(&b, "    %s: vec4<f32>,\n", c.name)
		any = true
	}
	b.WriteString("};\n\n@group(0) @binding(3) var<uniform> u_const: MarkConstants;\n")
	if !any {
		return ""
	}
	return b.String()
}

// channelRef returns the WGSL expression reading a channel's value inside
// the vertex stage: the vertex input for variable channels, a swizzle of
// the padded uniform slot for constant ones.
func channelRef(c channelInfo) string {
	if !c.constant {
		return "in." + c.name
	}
	switch c.components {
	case 1:
		return "u_const." + c.name + ".x"
	case 2:
		return "u_const." + c.name + ".xy"
	case 3:
		return "u_const." + c.name + ".xyz"
	default:
		return "u_const." + c.name
	}
}

// markShaderDef is one mark kind's shader skeleton. The vertex body reads
// channels through {{name}} tokens, substituted per batch with the input
// or uniform reference.
type markShaderDef struct {
	// decls are extra resource bindings (the text atlas).
	decls string

	// vertexIndex adds the builtin vertex index parameter.
	vertexIndex bool

	// out is the VertexOut struct shared by both stages.
	out string

	// body is the vs_main body with {{channel}} tokens.
	body string

	// fragment is the complete fragment stage.
	fragment string
}

const flatFragmentWGSL = `
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color * in.opacity, in.opacity);
}
`

var markShaderDefs = map[string]markShaderDef{
	"point": {
		out: `
struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec3<f32>,
    @location(1) opacity: f32,
    @location(2) shape: f32,
    @location(3) strokeWidth: f32,
};
`,
		body: `
    var out: VertexOut;
    let pos = {{pos}};
    let y = facet_place(pos.x, pos.y);
    out.position = vec4<f32>(pos.x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
    out.color = {{color}};
    out.opacity = {{opacity}};
    out.shape = {{shape}};
    out.strokeWidth = {{strokeWidth}};
    return out;
`,
		fragment: flatFragmentWGSL,
	},

	"rect": {
		out: `
struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec3<f32>,
    @location(1) opacity: f32,
};
`,
		body: `
    var out: VertexOut;
    let pos = {{pos}};
    let y = facet_place(pos.x, pos.y);
    out.position = vec4<f32>(pos.x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
    out.color = {{color}};
    out.opacity = {{opacity}};
    return out;
`,
		fragment: flatFragmentWGSL,
	},

	"rule": {
		out: `
struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec3<f32>,
    @location(1) opacity: f32,
};
`,
		// param.y is the perpendicular side, extruded in clip space so
		// the stroke width stays constant under zoom.
		body: `
    var out: VertexOut;
    let pos = {{pos}};
    let strip = {{param}};
    let width = {{width}};
    let y = facet_place(pos.x, pos.y);
    let clip_y = 1.0 - y * 2.0 + strip.y * width * 0.002;
    out.position = vec4<f32>(pos.x * 2.0 - 1.0, clip_y, 0.0, 1.0);
    out.color = {{color}};
    out.opacity = {{opacity}};
    return out;
`,
		fragment: flatFragmentWGSL,
	},

	"connection": {
		vertexIndex: true,
		out: `
struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec3<f32>,
    @location(1) opacity: f32,
};
`,
		// Instanced: the endpoint record advances once per instance
		// while the arc parameter t comes from the vertex index. The
		// quadratic lift arches the connection above its chord.
		body: `
    let endpoints = {{endpoints}};
    let t = f32(vertex_index) / 31.0;
    let x = mix(endpoints.x, endpoints.z, t);
    let base_y = mix(endpoints.y, endpoints.w, t);
    let lift = t * (1.0 - t);
    let y = facet_place(x, base_y - lift * 0.25);
    var out: VertexOut;
    out.position = vec4<f32>(x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
    out.color = mix({{color}}, {{color2}}, t);
    out.opacity = {{opacity}};
    return out;
`,
		fragment: flatFragmentWGSL,
	},

	"text": {
		decls: `
@group(0) @binding(1) var t_atlas: texture_2d<f32>;
@group(0) @binding(2) var s_atlas: sampler;
`,
		out: `
struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec3<f32>,
    @location(2) opacity: f32,
};
`,
		body: `
    var out: VertexOut;
    let pos = {{pos}};
    let corner = {{corner}};
    let size = {{size}};
    let x = pos.x + corner.x * size * 0.001;
    let y = facet_place(pos.x, pos.y + corner.y * size * 0.001);
    out.position = vec4<f32>(x * 2.0 - 1.0, 1.0 - y * 2.0, 0.0, 1.0);
    out.uv = {{uv}};
    out.color = {{color}};
    out.opacity = {{opacity}};
    return out;
`,
		fragment: `
@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let alpha = textureSample(t_atlas, s_atlas, in.uv).r * in.opacity;
    return vec4<f32>(in.color * alpha, alpha);
}
`,
	},
}

// ShaderSource generates the WGSL for a mark kind and its built arrays.
// Vertex inputs are declared only for the batch's variable attributes, at
// the locations batchLayouts assigns; constant channels are read from the
// MarkConstants uniform instead.
func ShaderSource(kind string, arrays *mark.Arrays) (string, error) {
	def, found := markShaderDefs[kind]
	if !found {
		return "", fmt.Errorf("render: no shader for mark kind %q", kind)
	}

	infos := channelInfos(arrays)
	body := def.body
	for _, c := range infos {
		body = strings.ReplaceAll(body, "{{"+c.name+"}}", channelRef(c))
	}
	if i := strings.Index(body, "{{"); i >= 0 {
		end := strings.Index(body[i:], "}}")
		return "", fmt.Errorf("render: %s shader reads channel %q missing from arrays",
			kind, body[i+2:i+end])
	}

	signature := "fn vs_main(in: VertexIn) -> VertexOut {"
	if def.vertexIndex {
		signature = "fn vs_main(@builtin(vertex_index) vertex_index: u32, in: VertexIn) -> VertexOut {"
	}

	var b strings.Builder
	b.WriteString(facetWGSL)
	b.WriteString(constStruct(infos))
	b.WriteString(def.decls)
	b.WriteString(inputStruct(infos))
	b.WriteString(def.out)
	b.WriteString("\n@vertex\n")
	b.WriteString(signature)
	b.WriteString(body)
	b.WriteString("}\n")
	b.WriteString(def.fragment)
	return b.String(), nil
}
