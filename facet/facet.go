// Package facet computes the vertical placement of per-sample bands.
//
// When a visualization is faceted by sample, every sample gets its own
// horizontal band and marks are squeezed into it at draw time. Band
// positions animate: a transition interpolates each sample from its previous
// band to its next one, staggered along the horizontal axis so bands peel
// from one arrangement to the other instead of jumping.
//
// Place runs once per rendered vertex per frame, so everything here is O(1)
// and allocation-free.
package facet

// Facet holds the transition endpoints of one sample's vertical band: the
// band it is leaving on the left and the band it is entering on the right.
// Positions and heights are in normalized [0, 1] viewport coordinates.
type Facet struct {
	LeftPos     float32
	LeftHeight  float32
	RightPos    float32
	RightHeight float32
}

// Identity is the unfaceted placement: full height, no offset.
var Identity = Facet{0, 1, 0, 1}

// Faceted reports whether the sample has its own band. The identity tuple
// (0,1,0,1) means unfaceted, full-height rendering.
func (f Facet) Faceted() bool {
	return f != Identity
}

// InTransit reports whether the band is moving: the left and right
// endpoints differ.
func (f Facet) InTransit() bool {
	return f.LeftPos != f.RightPos || f.LeftHeight != f.RightHeight
}

// Place maps a normalized vertical coordinate y into the sample's band.
//
// x is the vertex's normalized horizontal coordinate and offset staggers
// the transition front across samples. Unfaceted placement is the identity.
// A settled facet applies the affine band mapping directly; a facet in
// transit interpolates position and height between its endpoints by a
// smoothstepped fraction of the horizontal coordinate first.
func (f Facet) Place(x, y, offset float32) float32 {
	if !f.Faceted() {
		return y
	}
	pos, height := f.LeftPos, f.LeftHeight
	if f.InTransit() {
		fraction := smoothstep(0, 0.7+offset, (x-offset)*2)
		pos += (f.RightPos - pos) * fraction
		height += (f.RightHeight - height) * fraction
	}
	return pos + y*height
}

// Interp returns the facet interpolated toward other by t in [0, 1].
// Renderers use it to advance a transition between frames.
func (f Facet) Interp(other Facet, t float32) Facet {
	return Facet{
		LeftPos:     f.LeftPos + (other.LeftPos-f.LeftPos)*t,
		LeftHeight:  f.LeftHeight + (other.LeftHeight-f.LeftHeight)*t,
		RightPos:    f.RightPos + (other.RightPos-f.RightPos)*t,
		RightHeight: f.RightHeight + (other.RightHeight-f.RightHeight)*t,
	}
}

// Settle returns the facet with both endpoints at the right-hand band,
// ending any transition.
func (f Facet) Settle() Facet {
	return Facet{f.RightPos, f.RightHeight, f.RightPos, f.RightHeight}
}

// Retarget returns a facet transitioning from this facet's right-hand band
// to the given one.
func (f Facet) Retarget(pos, height float32) Facet {
	return Facet{f.RightPos, f.RightHeight, pos, height}
}

// smoothstep is the Hermite interpolation 3t^2 - 2t^3 of x clamped between
// edge0 and edge1.
func smoothstep(edge0, edge1, x float32) float32 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
