// Package view builds and orchestrates the visualization hierarchy.
//
// A Spec tree describes the visualization declaratively: data sources,
// transform pipelines, channel encodings, scale resolution policies,
// parameters and marks. Build turns it into a Node tree where every node
// owns a parameter mediator chained to its parent's, and Initialize drives
// the load, transform, scale resolution and vertex construction passes
// over the whole tree.
package view

import (
	"github.com/genomevis/gv"
	"github.com/genomevis/gv/font"
	"github.com/genomevis/gv/mark"
	"github.com/genomevis/gv/param"
)

// Spec is one fragment of the visualization hierarchy.
type Spec struct {
	// Name identifies the node in paths and error messages.
	Name string

	// Data declares this node's data source. Nodes without one read
	// data from the nearest ancestor.
	Data *DataSpec

	// Transforms run in declared order over the node's data.
	Transforms []TransformSpec

	// Encoding maps channel names to their specs. The effective encoding
	// overlays the parent's, child winning per channel.
	Encoding map[string]ChannelSpec

	// RenderConfig holds shallow rendering properties, overlaid the same
	// way as Encoding.
	RenderConfig map[string]any

	// Resolve maps channel names to scale resolution policies.
	Resolve map[string]ResolvePolicy

	// Params are registered into the node's mediator at build time.
	Params []param.Spec

	// Mark declares the geometry this node renders, if any.
	Mark *MarkSpec

	Children []*Spec
}

// DataSpec declares a data source: inline values or a generated sequence,
// never both.
type DataSpec struct {
	// Values is an inline dataset.
	Values []gv.Datum

	// Sequence generates a numeric sequence dataset.
	Sequence *SequenceSpec
}

// SequenceSpec generates one datum per step over the half-open interval
// [Start, Stop).
type SequenceSpec struct {
	Start float64
	Stop  float64

	// Step defaults to 1.
	Step float64

	// As is the field name the value is stored under, "data" by default.
	As string
}

// TransformKind selects a transform.
type TransformKind string

// Transform kinds.
const (
	// TransformFilter keeps data items whose expression is truthy.
	TransformFilter TransformKind = "filter"

	// TransformFormula computes a new field from an expression.
	TransformFormula TransformKind = "formula"
)

// TransformSpec is one step of a node's transform pipeline. Expressions
// reference datum fields as "datum.<field>" and parameters by name.
type TransformSpec struct {
	Kind TransformKind
	Expr string

	// As is the destination field of a formula transform.
	As string
}

// ChannelSpec encodes one channel: a field accessor with optional scale
// domain, or a constant value.
type ChannelSpec struct {
	// Field names the datum field driving the channel.
	Field string

	// Value is a constant channel value. Set either Field or Value.
	Value any

	// Domain overrides the data-derived scale domain.
	Domain *[2]float64
}

// ResolvePolicy controls how a channel's scale is shared across the tree.
type ResolvePolicy string

// Resolution policies.
const (
	// ResolveShared pulls the scale to the nearest ancestor that also
	// shares the channel. The zero value defaults to shared.
	ResolveShared ResolvePolicy = "shared"

	// ResolveIndependent keeps the scale on the declaring node.
	ResolveIndependent ResolvePolicy = "independent"

	// ResolveExcluded shares within the declaring node's subtree but
	// never bubbles past it.
	ResolveExcluded ResolvePolicy = "excluded"

	// ResolveForced bubbles to the overall root even through independent
	// ancestors.
	ResolveForced ResolvePolicy = "forced"
)

// MarkKind selects a mark geometry.
type MarkKind string

// Mark kinds.
const (
	MarkPoint      MarkKind = "point"
	MarkRect       MarkKind = "rect"
	MarkRule       MarkKind = "rule"
	MarkConnection MarkKind = "connection"
	MarkText       MarkKind = "text"
)

// MarkSpec declares a node's mark and its geometry policies.
type MarkSpec struct {
	Kind MarkKind

	// SampleField groups data into keyed batches, one vertex range per
	// distinct value. Empty puts everything in one batch.
	SampleField string

	// Squeeze, Lower and Upper apply to rect marks. The window is in x
	// domain units; it is mapped through the resolved x scale before
	// clipping. The zero value disables clipping.
	Squeeze mark.Squeeze
	Lower   float64
	Upper   float64

	// Align, Baseline and Font apply to text marks.
	Align    mark.Align
	Baseline mark.Baseline
	Font     *font.Table
}
