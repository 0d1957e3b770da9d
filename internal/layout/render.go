package layout

import (
	"fmt"
	"io"
	"strings"
)

// Glyphs shown for cells without a tile
const (
	GlyphUnresolved    = '?'
	GlyphContradiction = 'x'
)

// glyphs are handed out to tiles by catalog position; x is reserved
const glyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwyz0123456789"

// Glyph returns the character drawn for Tiles[i]
func Glyph(i int) byte {
	return glyphs[i%len(glyphs)]
}

// RenderASCII draws the layout one row per line, row 0 first.
func RenderASCII(w io.Writer, l *Layout, legend bool) error {
	var out strings.Builder

	contradicted := make(map[Position]bool, len(l.Contradictions))
	for _, p := range l.Contradictions {
		contradicted[p] = true
	}

	border := "+" + strings.Repeat("-", l.Size) + "+\n"
	out.WriteString(border)
	for y, row := range l.Grid() {
		out.WriteByte('|')
		for x, tile := range row {
			switch {
			case tile >= 0:
				out.WriteByte(Glyph(tile))
			case contradicted[Position{X: x, Y: y}]:
				out.WriteByte(GlyphContradiction)
			default:
				out.WriteByte(GlyphUnresolved)
			}
		}
		out.WriteString("|\n")
	}
	out.WriteString(border)

	if legend {
		out.WriteString("\nLegend:\n")
		for i, t := range l.Tiles {
			fmt.Fprintf(&out, "  %c  %s\n", Glyph(i), t.Name)
		}
		fmt.Fprintf(&out, "  %c  unresolved\n", GlyphUnresolved)
		fmt.Fprintf(&out, "  %c  contradiction\n", GlyphContradiction)
	}

	_, err := io.WriteString(w, out.String())
	return err
}
