package view

import (
	"errors"

	"github.com/genomevis/gv"
	"github.com/genomevis/gv/mark"
	"github.com/genomevis/gv/param"
)

// ErrNoData is returned when neither a node nor any of its ancestors has a
// materialized dataset.
var ErrNoData = errors.New("view: no data in hierarchy")

// Node is one built view in the hierarchy. It owns its children and its
// parameter mediator; the parent reference is non-owning and used only for
// ascent.
type Node struct {
	spec     *Spec
	parent   *Node
	children []*Node
	path     string

	params *param.Mediator

	// data is this node's own materialized dataset, nil until loaded or
	// transformed.
	data []gv.Datum

	// resolutions are the scales resolved AT this node; lookups ascend.
	resolutions map[string]*Resolution

	// markData is the packed vertex output of the node's mark.
	markData *mark.Arrays

	// gen counts configuration mutations on this node. Effective-config
	// caches snapshot the chain sum and recompute on mismatch.
	gen            uint64
	encCache       map[string]ChannelSpec
	encCacheGen    uint64
	encCachePrimed bool
	rcCache        map[string]any
	rcCacheGen     uint64
	rcCachePrimed  bool
}

// Build turns a spec tree into a node tree. Every node gets a mediator
// chained to its parent's, with the node's parameters registered into it.
func Build(spec *Spec) (*Node, error) {
	return buildNode(spec, nil)
}

func buildNode(spec *Spec, parent *Node) (*Node, error) {
	n := &Node{
		spec:        spec,
		parent:      parent,
		resolutions: make(map[string]*Resolution),
	}
	if parent == nil {
		n.path = spec.Name
		n.params = param.New()
	} else {
		n.path = parent.path + "/" + spec.Name
		n.params = param.NewChild(parent.params)
	}

	for _, p := range spec.Params {
		if _, err := n.params.RegisterParam(p); err != nil {
			return nil, err
		}
	}

	if spec.Data != nil && spec.Data.Values != nil && spec.Data.Sequence != nil {
		return nil, gv.Configf("build", n.path, "values and sequence are mutually exclusive")
	}
	if spec.Mark != nil && spec.Mark.Kind == MarkText && spec.Mark.Font == nil {
		return nil, gv.Configf("build", n.path, "text mark requires a font table")
	}

	for _, child := range spec.Children {
		c, err := buildNode(child, n)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, c)
	}
	return n, nil
}

// Path returns the node's slash-separated name path from the root.
func (n *Node) Path() string { return n.path }

// Params returns the node's parameter mediator.
func (n *Node) Params() *param.Mediator { return n.params }

// Children returns the node's child views.
func (n *Node) Children() []*Node { return n.children }

// Root returns the tree's root node.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Flatten returns the subtree in top-down (preorder) order.
func (n *Node) Flatten() []*Node {
	nodes := []*Node{n}
	for _, c := range n.children {
		nodes = append(nodes, c.Flatten()...)
	}
	return nodes
}

// MarkData returns the node's built vertex arrays, nil before
// initialization or for nodes without a mark.
func (n *Node) MarkData() *mark.Arrays { return n.markData }

// chainGen sums the configuration generations from this node to the root.
// Any ancestor mutation changes the sum and invalidates effective-config
// caches below it.
func (n *Node) chainGen() uint64 {
	var sum uint64
	for cur := n; cur != nil; cur = cur.parent {
		sum += cur.gen
	}
	return sum
}

// SetRenderProperty mutates one of the node's own rendering properties and
// invalidates effective configurations in its subtree.
func (n *Node) SetRenderProperty(key string, value any) {
	if n.spec.RenderConfig == nil {
		n.spec.RenderConfig = make(map[string]any)
	}
	n.spec.RenderConfig[key] = value
	n.gen++
}

// GetEncoding returns the effective encoding: the parent's effective
// encoding overlaid by this node's own, child winning per channel. The
// result is memoized until a configuration on the ancestor chain changes.
// Callers must not mutate the returned map.
func (n *Node) GetEncoding() map[string]ChannelSpec {
	if gen := n.chainGen(); !n.encCachePrimed || n.encCacheGen != gen {
		merged := make(map[string]ChannelSpec)
		if n.parent != nil {
			for k, v := range n.parent.GetEncoding() {
				merged[k] = v
			}
		}
		for k, v := range n.spec.Encoding {
			merged[k] = v
		}
		n.encCache = merged
		n.encCacheGen = gen
		n.encCachePrimed = true
	}
	return n.encCache
}

// GetRenderConfig returns the effective rendering configuration, overlaid
// and memoized like GetEncoding. Callers must not mutate the returned map.
func (n *Node) GetRenderConfig() map[string]any {
	if gen := n.chainGen(); !n.rcCachePrimed || n.rcCacheGen != gen {
		merged := make(map[string]any)
		if n.parent != nil {
			for k, v := range n.parent.GetRenderConfig() {
				merged[k] = v
			}
		}
		for k, v := range n.spec.RenderConfig {
			merged[k] = v
		}
		n.rcCache = merged
		n.rcCacheGen = gen
		n.rcCachePrimed = true
	}
	return n.rcCache
}

// GetResolution returns the resolved scale for channel from this node or
// the nearest ancestor holding one. ok is false when no ancestor resolves
// the channel.
func (n *Node) GetResolution(channel string) (*Resolution, bool) {
	for cur := n; cur != nil; cur = cur.parent {
		if r, found := cur.resolutions[channel]; found {
			return r, true
		}
	}
	return nil, false
}

// GetData returns this node's dataset, ascending to the nearest ancestor
// with one. Returns ErrNoData when the whole path is dataless.
func (n *Node) GetData() ([]gv.Datum, error) {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.data != nil {
			return cur.data, nil
		}
	}
	return nil, ErrNoData
}
