package line

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Width is the number of terminal columns a grapheme occupies.
type Width uint8

const (
	Half Width = 1
	Full Width = 2
)

// Columns returns the width in display columns.
func (w Width) Columns() int {
	return int(w)
}

// Fragment is one grapheme cluster of a line.
type Fragment struct {
	Grapheme    string
	Width       Width
	Replacement rune // 0 when the grapheme renders as itself
	Start       int  // byte offset inside the line
}

// End returns the byte offset just past the grapheme.
func (f Fragment) End() int {
	return f.Start + len(f.Grapheme)
}

func fragmentsOf(text string) []Fragment {
	if text == "" {
		return nil
	}
	out := make([]Fragment, 0, utf8.RuneCountInString(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		start, _ := g.Positions()
		cluster := g.Str()
		cols := runewidth.StringWidth(cluster)
		width := Half
		if cols > 1 {
			width = Full
		}
		out = append(out, Fragment{
			Grapheme:    cluster,
			Width:       width,
			Replacement: replacementFor(cluster, cols),
			Start:       start,
		})
	}
	return out
}

const (
	visibleSpace     = '␣'
	controlMarker    = '▯'
	zeroWidthMarker  = '·'
	truncationMarker = "⋯"
)

// replacementFor picks the glyph drawn instead of graphemes that would
// otherwise be invisible or move the cursor.
func replacementFor(g string, cols int) rune {
	switch {
	case g == "\t":
		return ' '
	case g == " ":
		return 0
	case cols > 0 && strings.TrimSpace(g) == "":
		return visibleSpace
	case cols == 0:
		r, size := utf8.DecodeRuneInString(g)
		if size == len(g) && unicode.IsControl(r) {
			return controlMarker
		}
		return zeroWidthMarker
	}
	return 0
}
