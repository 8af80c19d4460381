package line

import "github.com/kobzarvs/qtext/internal/annotated"

// Cols is a half-open range of display columns.
type Cols struct {
	Left, Right int
}

// NoSelection marks an Overlay without a selected match.
const NoSelection = -1

// Overlay describes what to paint on top of the plain text of a line.
type Overlay struct {
	// Query is highlighted wherever it matches; empty disables matching.
	Query string
	// SelectedMatch is the grapheme index of the match to emphasize, or
	// NoSelection. Ignored without a Query.
	SelectedMatch int
	// Syntax annotations are byte ranges over the full line text. Match
	// annotations are layered above them.
	Syntax []annotated.Annotation
}

// VisibleGraphemes returns the text shown in cols, with replacement glyphs
// and truncation markers applied.
func (l *Line) VisibleGraphemes(cols Cols) string {
	return l.AnnotatedVisibleSubstr(cols, Overlay{SelectedMatch: NoSelection}).String()
}

// AnnotatedVisibleSubstr renders the part of the line falling into cols.
// A grapheme cut by either edge becomes a single '⋯', so the result never
// exceeds the requested width.
func (l *Line) AnnotatedVisibleSubstr(cols Cols, ov Overlay) *annotated.String {
	if cols.Left >= cols.Right {
		return annotated.New("")
	}
	out := annotated.New(l.text)
	for _, a := range ov.Syntax {
		out.AddAnnotation(a.Kind, a.Start, a.End)
	}
	if ov.Query != "" {
		for _, m := range l.findAll(ov.Query, 0, len(l.text)) {
			kind := annotated.KindMatch
			if ov.SelectedMatch != NoSelection && m.grapheme == ov.SelectedMatch {
				kind = annotated.KindSelectedMatch
			}
			out.AddAnnotation(kind, m.start, m.start+len(ov.Query))
		}
	}

	// Walk right to left so every edit only touches bytes after the
	// fragments still to be visited.
	start := l.Width()
	for i := len(l.fragments) - 1; i >= 0; i-- {
		f := l.fragments[i]
		end := start
		start -= f.Width.Columns()

		if start > cols.Right {
			continue
		}
		if start < cols.Right && end > cols.Right {
			out.Replace(f.Start, len(l.text), truncationMarker)
			continue
		}
		if start == cols.Right {
			out.Replace(f.Start, len(l.text), "")
			continue
		}

		if end <= cols.Left {
			out.Replace(0, f.End(), "")
			break
		}
		if start < cols.Left && end > cols.Left {
			out.Replace(0, f.End(), truncationMarker)
			break
		}

		if f.Replacement != 0 {
			out.Replace(f.Start, f.End(), string(f.Replacement))
		}
	}
	return out
}
