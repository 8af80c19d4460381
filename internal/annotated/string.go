package annotated

import "strings"

// String is a piece of text with annotations over its bytes.
// Annotations added later take precedence where they overlap earlier ones.
type String struct {
	text        string
	annotations []Annotation
}

// New returns an annotated string with no annotations.
func New(text string) *String {
	return &String{text: text}
}

func (s *String) String() string {
	return s.text
}

// Len returns the byte length of the text.
func (s *String) Len() int {
	return len(s.text)
}

// Annotations returns the current annotations in insertion order.
func (s *String) Annotations() []Annotation {
	return s.annotations
}

// AddAnnotation tags [start, end). Empty or negative ranges are ignored.
func (s *String) AddAnnotation(kind Kind, start, end int) {
	if start < 0 || start >= end {
		return
	}
	s.annotations = append(s.annotations, Annotation{Kind: kind, Start: start, End: end})
}

// Replace swaps the bytes in [start, end) for replacement and rebases every
// annotation onto the new text. end is clamped to the text length.
func (s *String) Replace(start, end int, replacement string) {
	if end > len(s.text) {
		end = len(s.text)
	}
	if start < 0 || start > end {
		return
	}

	s.text = s.text[:start] + replacement + s.text[end:]

	edit := Range{Start: start, End: end}
	kept := s.annotations[:0]
	for _, a := range s.annotations {
		r, ok := Rebase(a.Range(), edit, len(replacement))
		if r.End > len(s.text) {
			r.End = len(s.text)
		}
		if !ok || r.Start >= r.End || r.Start >= len(s.text) {
			continue
		}
		a.Start, a.End = r.Start, r.End
		kept = append(kept, a)
	}
	s.annotations = kept
}

// TruncateLeftUntil drops the first n bytes.
func (s *String) TruncateLeftUntil(n int) {
	s.Replace(0, n, "")
}

// TruncateRightFrom drops everything from byte n on.
func (s *String) TruncateRightFrom(n int) {
	s.Replace(n, len(s.text), "")
}

// Part is a run of text with at most one annotation kind.
type Part struct {
	Text string
	Kind Kind
}

// Annotated reports whether the part carries an annotation.
func (p Part) Annotated() bool {
	return p.Kind != KindNone
}

// Parts splits the text into consecutive runs so that the kind changes only
// at run boundaries. The runs cover the whole text without overlap.
func (s *String) Parts() []Part {
	var parts []Part
	idx := 0
	for idx < len(s.text) {
		end := len(s.text)
		kind := KindNone
		if active, ok := s.activeAt(idx); ok {
			kind = s.annotations[active].Kind
			end = min(end, s.annotations[active].End)
			// A later annotation starting inside this run takes over from there.
			for _, a := range s.annotations[active+1:] {
				if a.Start > idx && a.Start < end && a.Start < a.End {
					end = a.Start
				}
			}
		} else {
			for _, a := range s.annotations {
				if a.Start > idx && a.Start < end && a.Start < a.End {
					end = a.Start
				}
			}
		}
		parts = append(parts, Part{Text: s.text[idx:end], Kind: kind})
		idx = end
	}
	return parts
}

// activeAt returns the index of the last added annotation covering idx.
func (s *String) activeAt(idx int) (int, bool) {
	for i := len(s.annotations) - 1; i >= 0; i-- {
		a := s.annotations[i]
		if a.Start <= idx && idx < a.End {
			return i, true
		}
	}
	return 0, false
}

// debug renders the parts as "[kind:text]".
func (s *String) debug() string {
	var b strings.Builder
	for _, p := range s.Parts() {
		if p.Annotated() {
			b.WriteString("[" + p.Kind.String() + ":" + p.Text + "]")
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
