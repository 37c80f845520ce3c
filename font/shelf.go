package font

// shelfAllocator packs glyph cells into an atlas using shelf-based
// rectangle packing: cells fill a horizontal shelf left to right, and a new
// shelf opens below when the current one runs out of width. Simple and fast,
// and close to optimal for the near-uniform cell heights of a single font
// size.
type shelfAllocator struct {
	width   int
	height  int
	padding int
	shelves []shelf
}

// shelf is one horizontal strip of the atlas.
type shelf struct {
	y      int // top of the strip
	height int // tallest cell placed so far
	x      int // next free x position
}

func newShelfAllocator(width, height, padding int) *shelfAllocator {
	return &shelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
	}
}

// allocate finds space for a w x h cell. Reports the cell's top-left
// corner, or ok=false when the atlas is full.
func (a *shelfAllocator) allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + a.padding
	paddedH := h + a.padding

	// Prefer an existing shelf tall enough for the cell.
	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+paddedW > a.width || h > s.height {
			continue
		}
		x = s.x
		s.x += paddedW
		return x, s.y, true
	}

	// Open a new shelf below the last one.
	bottom := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		bottom = last.y + last.height + a.padding
	}
	if bottom+paddedH > a.height || paddedW > a.width {
		return -1, -1, false
	}
	a.shelves = append(a.shelves, shelf{y: bottom, height: h, x: paddedW})
	return 0, bottom, true
}
