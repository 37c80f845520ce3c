package view

import (
	"math"

	"github.com/genomevis/gv"
)

// Resolution is a scale resolved at some node for one channel. Members are
// the views whose data extents contribute to its domain; the scale maps
// the unioned domain linearly onto [0, 1].
type Resolution struct {
	Channel string

	members []*Node
	lo, hi  float64
	bounded bool
}

// Domain returns the unioned domain. ok is false when no member
// contributed an extent.
func (r *Resolution) Domain() (lo, hi float64, ok bool) {
	return r.lo, r.hi, r.bounded
}

// Members returns the views sharing this scale.
func (r *Resolution) Members() []*Node { return r.members }

// Scale returns the linear mapping from the domain onto [0, 1]. A
// degenerate or unbounded domain maps everything to 0.
func (r *Resolution) Scale() func(float64) float64 {
	lo, hi := r.lo, r.hi
	if !r.bounded || lo == hi {
		return func(float64) float64 { return 0 }
	}
	return func(v float64) float64 { return (v - lo) / (hi - lo) }
}

func (r *Resolution) extend(lo, hi float64) {
	if !r.bounded {
		r.lo, r.hi = lo, hi
		r.bounded = true
		return
	}
	r.lo = math.Min(r.lo, lo)
	r.hi = math.Max(r.hi, hi)
}

// policy returns the node's declared resolution policy for channel,
// defaulting to shared.
func (n *Node) policy(channel string) ResolvePolicy {
	if p, found := n.spec.Resolve[channel]; found && p != "" {
		return p
	}
	return ResolveShared
}

// resolutionTarget picks the node a channel's scale resolves at.
//
// Independent stays put. Forced climbs to the overall root regardless of
// what the ancestors declare. Shared climbs while the parent participates,
// stopping below independent ancestors, and an excluded node caps the
// climb at itself: its descendants share within its subtree only.
func (n *Node) resolutionTarget(channel string) *Node {
	switch n.policy(channel) {
	case ResolveIndependent:
		return n
	case ResolveForced:
		return n.Root()
	}

	cur := n
	for cur.parent != nil {
		if cur.policy(channel) == ResolveExcluded {
			break
		}
		if cur.parent.policy(channel) == ResolveIndependent {
			break
		}
		cur = cur.parent
	}
	return cur
}

// resolveScales runs the top-down resolution pass: every mark node's
// field-driven channels register with a resolution at their target node,
// contributing their data extent to its domain.
func resolveScales(nodes []*Node) error {
	for _, n := range nodes {
		if n.spec.Mark == nil {
			continue
		}
		data, err := n.GetData()
		if err != nil {
			return err
		}
		for channel, enc := range n.GetEncoding() {
			if enc.Field == "" {
				continue
			}
			target := n.resolutionTarget(channel)
			r, found := target.resolutions[channel]
			if !found {
				r = &Resolution{Channel: channel}
				target.resolutions[channel] = r
			}
			r.members = append(r.members, n)

			if enc.Domain != nil {
				r.extend(enc.Domain[0], enc.Domain[1])
			} else if lo, hi, ok := extent(data, enc.Field); ok {
				r.extend(lo, hi)
			}
		}
	}
	return nil
}

// extent returns the numeric min and max of field over data. ok is false
// when no datum has a numeric value for the field.
func extent(data []gv.Datum, field string) (lo, hi float64, ok bool) {
	for _, d := range data {
		v, numeric := d.Number(field)
		if !numeric {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, ok
}
