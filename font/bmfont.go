package font

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoGlyphs is returned when a BMFont file declares no characters.
var ErrNoGlyphs = errors.New("font: no char entries in BMFont data")

// ParseBMFont parses the AngelCode BMFont text format: one record per line,
// a tag followed by key=value fields.
//
//	info face="Lato" size=32 ...
//	common lineHeight=38 base=30 scaleW=512 scaleH=512 ...
//	char id=65 x=0 y=0 width=20 height=24 xoffset=1 yoffset=6 xadvance=21 ...
//
// Only the tags the renderer needs are read; kerning pairs and page records
// are ignored. Cap height and x-height are not part of the format, so they
// are measured from the 'H' and 'x' glyph cells when present.
func ParseBMFont(data string) (*Table, error) {
	t := &Table{
		Glyphs:  make(map[rune]Glyph),
		Default: DefaultRune,
	}

	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tag, fields := splitRecord(line)
		switch tag {
		case "info":
			t.Size = fields.number("size")
		case "common":
			t.LineHeight = fields.number("lineHeight")
			t.Base = fields.number("base")
			t.AtlasWidth = int(fields.number("scaleW"))
			t.AtlasHeight = int(fields.number("scaleH"))
		case "char":
			id := rune(fields.number("id"))
			t.Glyphs[id] = Glyph{
				Width:    fields.number("width"),
				Height:   fields.number("height"),
				XAdvance: fields.number("xadvance"),
				XOffset:  fields.number("xoffset"),
				YOffset:  fields.number("yoffset"),
				AtlasX:   int(fields.number("x")),
				AtlasY:   int(fields.number("y")),
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("font: reading BMFont data: %w", err)
	}
	if len(t.Glyphs) == 0 {
		return nil, ErrNoGlyphs
	}

	measureHeights(t)
	return t, nil
}

// measureHeights derives cap height and x-height from reference glyph
// cells. A capital-less icon font ends up with zeros, which the text
// builder treats as "center on the cell".
func measureHeights(t *Table) {
	if g, found := t.Glyphs['H']; found {
		t.CapHeight = g.Height
	}
	if g, found := t.Glyphs['x']; found {
		t.XHeight = g.Height
	}
}

// record is the parsed key=value fields of one BMFont line.
type record map[string]string

// number returns the named field as a float, or 0 when absent or
// malformed. BMFont files from the wild are forgiving about fields, so the
// parser is too.
func (r record) number(key string) float64 {
	v, err := strconv.ParseFloat(r[key], 64)
	if err != nil {
		return 0
	}
	return v
}

// splitRecord splits a BMFont line into its tag and key=value fields.
// Quoted values may contain spaces ("DejaVu Sans"), so a plain
// strings.Fields is not enough.
func splitRecord(line string) (string, record) {
	fields := make(record)
	parts := tokenize(line)
	if len(parts) == 0 {
		return "", fields
	}
	for _, part := range parts[1:] {
		k, v, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		fields[k] = strings.Trim(v, `"`)
	}
	return parts[0], fields
}

// tokenize splits on spaces outside double quotes.
func tokenize(line string) []string {
	var parts []string
	var current strings.Builder
	quoted := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			quoted = !quoted
			current.WriteByte(c)
		case c == ' ' && !quoted:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
