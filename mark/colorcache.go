package mark

import (
	"github.com/genomevis/gv"
	"github.com/genomevis/gv/internal/cache"
)

// colorCacheCapacity bounds the color-conversion cache. Colors may be
// computed per datum by expressions, so conversions must not accumulate
// one cache entry per distinct datum; a small LRU keeps the hot palette
// resident.
const colorCacheCapacity = 64

// black is the fallback for unparseable color values.
var black = [3]float32{0, 0, 0}

// colorCache converts dynamically typed color values to normalized float
// triples, memoizing string parses in a fixed-capacity LRU.
type colorCache struct {
	parsed *cache.Cache[string, [3]float32]
}

func newColorCache() *colorCache {
	return &colorCache{
		parsed: cache.New[string, [3]float32](colorCacheCapacity),
	}
}

// convert turns a channel value into a normalized RGB triple. Unparseable
// values fall back to black: a bad color on one datum must not abort the
// batch.
func (c *colorCache) convert(v any) [3]float32 {
	switch t := v.(type) {
	case gv.RGB:
		return t.Components()
	case [3]float32:
		return t
	case string:
		return c.parsed.GetOrCreate(t, func() [3]float32 {
			rgb, ok := gv.ParseColor(t)
			if !ok {
				gv.Logger().Warn("unparseable color", "value", t)
				return black
			}
			return rgb.Components()
		})
	case nil:
		return black
	default:
		gv.Logger().Warn("unsupported color type", "value", v)
		return black
	}
}
