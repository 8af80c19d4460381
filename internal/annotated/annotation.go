package annotated

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Annotation is a byte range of some text tagged with a Kind.
type Annotation struct {
	Kind  Kind
	Start int
	End   int
}

// Range returns the annotated byte range.
func (a Annotation) Range() Range {
	return Range{Start: a.Start, End: a.End}
}

// Rebase maps a range over some text through the replacement of edit with
// newLen bytes, returning the range over the resulting text.
//
// Boundaries before the edit are unchanged. Boundaries at or after edit.End
// move by the length delta. Boundaries strictly inside the edit snap to the
// nearer edge of the new span (ties go to its start). The result is false
// when the range collapses to empty.
//
// A replacement of equal length leaves every boundary untouched.
func Rebase(r, edit Range, newLen int) (Range, bool) {
	delta := newLen - edit.Len()
	if delta != 0 {
		r.Start = rebaseBoundary(r.Start, edit, newLen, delta)
		r.End = rebaseBoundary(r.End, edit, newLen, delta)
	}
	if r.Start >= r.End {
		return r, false
	}
	return r, true
}

func rebaseBoundary(b int, edit Range, newLen, delta int) int {
	switch {
	case b >= edit.End:
		return b + delta
	case b > edit.Start:
		if b-edit.Start <= edit.End-b {
			return edit.Start
		}
		return edit.Start + newLen
	default:
		return b
	}
}
