package gv

import (
	"image/color"
	"strings"
)

// RGB represents an opaque color with components in the range [0, 1].
// Mark builders pack these straight into vertex attributes, so the
// normalized-float representation is the native one.
type RGB struct {
	R, G, B float64
}

// Color converts RGB to the standard color.Color interface.
func (c RGB) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: 255,
	}
}

// Components returns the color as a normalized float32 triple.
func (c RGB) Components() [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

// namedColors is the subset of CSS color names that show up in
// visualization specs. Unknown names fall back to black.
var namedColors = map[string]RGB{
	"black":   {0, 0, 0},
	"white":   {1, 1, 1},
	"red":     {1, 0, 0},
	"green":   {0, 0.502, 0},
	"blue":    {0, 0, 1},
	"yellow":  {1, 1, 0},
	"cyan":    {0, 1, 1},
	"magenta": {1, 0, 1},
	"gray":    {0.502, 0.502, 0.502},
	"grey":    {0.502, 0.502, 0.502},
	"orange":  {1, 0.647, 0},
	"purple":  {0.502, 0, 0.502},
	"brown":   {0.647, 0.165, 0.165},
	"pink":    {1, 0.753, 0.796},
	"teal":    {0, 0.502, 0.502},
	"navy":    {0, 0, 0.502},
	"olive":   {0.502, 0.502, 0},
	"maroon":  {0.502, 0, 0},
	"silver":  {0.753, 0.753, 0.753},
	"lime":    {0, 1, 0},
}

// ParseColor parses a color specification string: "#RGB", "#RRGGBB", or a
// CSS color name. Unrecognized input reports ok=false; callers fall back to
// their channel default rather than failing the batch.
func ParseColor(s string) (RGB, bool) {
	if s == "" {
		return RGB{}, false
	}
	if s[0] == '#' {
		return parseHexColor(s[1:])
	}
	c, found := namedColors[strings.ToLower(s)]
	return c, found
}

// parseHexColor parses "RGB" or "RRGGBB" (without the leading '#').
func parseHexColor(hex string) (RGB, bool) {
	var r, g, b uint32
	switch len(hex) {
	case 3:
		if !parseHex(hex[0:1], &r) || !parseHex(hex[1:2], &g) || !parseHex(hex[2:3], &b) {
			return RGB{}, false
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		if !parseHex(hex[0:2], &r) || !parseHex(hex[2:4], &g) || !parseHex(hex[4:6], &b) {
			return RGB{}, false
		}
	default:
		return RGB{}, false
	}
	return RGB{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}, true
}

// parseHex parses a 1-2 digit hex string into val.
func parseHex(s string, val *uint32) bool {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | uint32(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | uint32(c-'A'+10)
		default:
			return false
		}
	}
	*val = v
	return true
}

func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
