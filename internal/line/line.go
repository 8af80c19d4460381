// Package line models a single line of text as a sequence of grapheme
// clusters.
//
// Three coordinate systems meet here: byte offsets into the UTF-8 text,
// grapheme indexes (what callers address), and display columns (what the
// terminal shows). Grapheme indexes run from 0 to GraphemeCount, the last
// value meaning "append position".
package line

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/kobzarvs/qtext/internal/logger"
)

// Line is a line of text without its terminator.
// Every mutation rebuilds the fragments from the new text.
type Line struct {
	fragments []Fragment
	text      string
}

// New splits text into fragments.
func New(text string) *Line {
	return &Line{fragments: fragmentsOf(text), text: text}
}

func (l *Line) rebuild() {
	l.fragments = fragmentsOf(l.text)
}

func (l *Line) String() string {
	return l.text
}

// Len returns the length of the text in bytes.
func (l *Line) Len() int {
	return len(l.text)
}

// GraphemeCount returns the number of grapheme clusters.
func (l *Line) GraphemeCount() int {
	return len(l.fragments)
}

// WidthUntil sums the display width of the first idx graphemes.
func (l *Line) WidthUntil(idx int) int {
	if idx > len(l.fragments) {
		idx = len(l.fragments)
	}
	cols := 0
	for _, f := range l.fragments[:max(idx, 0)] {
		cols += f.Width.Columns()
	}
	return cols
}

// Width returns the display width of the whole line.
func (l *Line) Width() int {
	return l.WidthUntil(len(l.fragments))
}

// InsertChar inserts ch before grapheme at, or appends it when at is the
// grapheme count.
func (l *Line) InsertChar(ch rune, at int) {
	if at < 0 || at > len(l.fragments)+1 {
		violation("insert past end of line", "at", at, "count", len(l.fragments))
		return
	}
	s := string(ch)
	if at < len(l.fragments) {
		pos := l.fragments[at].Start
		l.text = l.text[:pos] + s + l.text[pos:]
	} else {
		l.text += s
	}
	l.rebuild()
}

// AppendChar adds ch at the end of the line.
func (l *Line) AppendChar(ch rune) {
	l.InsertChar(ch, len(l.fragments))
}

// Delete removes grapheme at. Deleting at the grapheme count is a no-op.
func (l *Line) Delete(at int) {
	if at < 0 || at > len(l.fragments) {
		violation("delete past end of line", "at", at, "count", len(l.fragments))
		return
	}
	if at == len(l.fragments) {
		return
	}
	f := l.fragments[at]
	l.text = l.text[:f.Start] + l.text[f.End():]
	l.rebuild()
}

// DeleteLast removes the final grapheme, if any.
func (l *Line) DeleteLast() {
	if len(l.fragments) > 0 {
		l.Delete(len(l.fragments) - 1)
	}
}

// Append concatenates other onto l.
func (l *Line) Append(other *Line) {
	l.text += other.text
	l.rebuild()
}

// Split truncates l before grapheme at and returns the removed tail.
// An out of range at leaves l alone and returns an empty line.
func (l *Line) Split(at int) *Line {
	if at < 0 || at >= len(l.fragments) {
		return New("")
	}
	pos := l.fragments[at].Start
	tail := l.text[pos:]
	l.text = l.text[:pos]
	l.rebuild()
	return New(tail)
}

// ByteToGrapheme returns the index of the first grapheme starting at or
// after byte b. b equal to the text length maps to the grapheme count.
func (l *Line) ByteToGrapheme(b int) (int, bool) {
	if b < 0 || b > len(l.text) {
		return 0, false
	}
	return sort.Search(len(l.fragments), func(i int) bool {
		return l.fragments[i].Start >= b
	}), true
}

// GraphemeToByte returns the byte offset where grapheme g starts; the
// grapheme count maps to the text length.
func (l *Line) GraphemeToByte(g int) int {
	if g == len(l.fragments) {
		return len(l.text)
	}
	if g < 0 || g > len(l.fragments) {
		violation("grapheme index out of range", "grapheme", g, "count", len(l.fragments))
		return 0
	}
	return l.fragments[g].Start
}

// boundary maps a byte offset that sits exactly on a grapheme boundary to
// its grapheme index.
func (l *Line) boundary(b int) (int, bool) {
	if b == len(l.text) {
		return len(l.fragments), true
	}
	g, ok := l.ByteToGrapheme(b)
	if !ok || g >= len(l.fragments) || l.fragments[g].Start != b {
		return 0, false
	}
	return g, true
}

type match struct {
	start    int // byte offset
	grapheme int
}

// findAll returns the non-overlapping matches of query lying entirely inside
// text[lo:hi]. A candidate counts only when it starts and ends on grapheme
// boundaries and covers as many graphemes as the query itself.
func (l *Line) findAll(query string, lo, hi int) []match {
	if query == "" || lo < 0 || hi > len(l.text) || lo >= hi {
		return nil
	}
	want := uniseg.GraphemeClusterCount(query)
	var out []match
	for pos := lo; pos+len(query) <= hi; {
		i := strings.Index(l.text[pos:hi], query)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(query)
		gs, okStart := l.boundary(start)
		ge, okEnd := l.boundary(end)
		if okStart && okEnd && ge-gs == want {
			out = append(out, match{start: start, grapheme: gs})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(l.text[start:])
		pos = start + size
	}
	return out
}

// SearchForward returns the grapheme index of the first match of query at
// or after grapheme from.
func (l *Line) SearchForward(query string, from int) (int, bool) {
	if from < 0 || from > len(l.fragments) {
		violation("search start out of range", "from", from, "count", len(l.fragments))
		return 0, false
	}
	if from == len(l.fragments) {
		return 0, false
	}
	matches := l.findAll(query, l.GraphemeToByte(from), len(l.text))
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].grapheme, true
}

// SearchBackward returns the grapheme index of the last match of query that
// ends at or before grapheme from.
func (l *Line) SearchBackward(query string, from int) (int, bool) {
	if from < 0 || from > len(l.fragments) {
		violation("search start out of range", "from", from, "count", len(l.fragments))
		return 0, false
	}
	if from == 0 {
		return 0, false
	}
	matches := l.findAll(query, 0, l.GraphemeToByte(from))
	if len(matches) == 0 {
		return 0, false
	}
	return matches[len(matches)-1].grapheme, true
}

func violation(msg string, keysAndValues ...interface{}) {
	if strictIndexes {
		panic(fmt.Sprint(append([]interface{}{msg + ": "}, keysAndValues...)...))
	}
	logger.Warn(msg, keysAndValues...)
}
