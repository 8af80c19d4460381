package highlight

import (
	"github.com/kobzarvs/qtext/internal/annotated"
	"github.com/kobzarvs/qtext/internal/logger"
)

// Lines is the read-only view of a document the Highlighter works from.
type Lines interface {
	Height() int
	Text(idx int) string
}

type entry struct {
	text  string
	carry State
	out   State
	anns  []annotated.Annotation
}

// Highlighter caches per-line annotations for one buffer.
//
// With a line grammar, entries below validUpTo are trusted as is. Entries at
// or past it are recomputed on demand, except that an entry whose text and
// carried-in state still match is reused; that is where replay stops once
// the carried state has settled. A document grammar is rerun over the whole
// document after any invalidation.
type Highlighter struct {
	line      Grammar
	doc       DocumentGrammar
	entries   []entry
	validUpTo int
	docStale  bool
	maxBytes  int
}

// New returns a Highlighter driven by a line grammar. A nil grammar
// produces no annotations.
func New(g Grammar) *Highlighter {
	return &Highlighter{line: g}
}

// NewDocument returns a Highlighter driven by a whole-document grammar.
func NewDocument(g DocumentGrammar) *Highlighter {
	return &Highlighter{doc: g, docStale: true}
}

// SetMaxBytes disables document grammars for documents larger than n
// bytes. Zero means no limit.
func (h *Highlighter) SetMaxBytes(n int) {
	h.maxBytes = n
}

// Invalidate marks line idx and everything after it as needing a rescan.
func (h *Highlighter) Invalidate(idx int) {
	if idx < h.validUpTo {
		h.validUpTo = max(idx, 0)
	}
	h.docStale = true
}

// Annotations returns the annotations for line idx, highlighting as many
// lines above it as needed.
func (h *Highlighter) Annotations(src Lines, idx int) []annotated.Annotation {
	if idx < 0 || idx >= src.Height() {
		return nil
	}
	h.Ensure(src, idx)
	if idx >= len(h.entries) {
		return nil
	}
	return h.entries[idx].anns
}

// Ensure brings the cache up to date through line upTo.
func (h *Highlighter) Ensure(src Lines, upTo int) {
	height := src.Height()
	if len(h.entries) > height {
		h.entries = h.entries[:height]
	}
	if h.validUpTo > height {
		h.validUpTo = height
	}
	switch {
	case h.line != nil:
		h.ensureLines(src, min(upTo, height-1))
	case h.doc != nil:
		h.ensureDocument(src)
	}
}

func (h *Highlighter) ensureLines(src Lines, upTo int) {
	for i := h.validUpTo; i <= upTo; i++ {
		var carry State
		if i > 0 {
			carry = h.entries[i-1].out
		}
		text := src.Text(i)
		if i < len(h.entries) && h.entries[i].text == text && h.entries[i].carry == carry {
			continue
		}
		anns, out := h.line.HighlightLine(text, carry)
		e := entry{text: text, carry: carry, out: out, anns: anns}
		if i < len(h.entries) {
			h.entries[i] = e
		} else {
			h.entries = append(h.entries, e)
		}
	}
	if upTo+1 > h.validUpTo {
		h.validUpTo = upTo + 1
	}
}

func (h *Highlighter) ensureDocument(src Lines) {
	height := src.Height()
	if !h.docStale && len(h.entries) == height {
		return
	}
	lines := make([]string, height)
	size := 0
	for i := range lines {
		lines[i] = src.Text(i)
		size += len(lines[i]) + 1
	}
	h.entries = make([]entry, height)
	h.docStale = false
	h.validUpTo = height
	if h.maxBytes > 0 && size > h.maxBytes {
		logger.Debug("document too large to highlight", "bytes", size, "limit", h.maxBytes)
		return
	}
	for i, anns := range h.doc.HighlightDocument(lines) {
		if i < height {
			h.entries[i] = entry{text: lines[i], anns: anns}
		}
	}
}
