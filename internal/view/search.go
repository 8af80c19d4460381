package view

import (
	"github.com/kobzarvs/qtext/internal/buffer"
)

func (v *View) enterSearch() {
	v.search = &searchInfo{prevLocation: v.loc, prevScroll: v.scroll}
	v.needsRedraw = true
}

func (v *View) exitSearch() {
	v.search = nil
	v.needsRedraw = true
}

func (v *View) dismissSearch() {
	if v.search != nil {
		v.loc = v.search.prevLocation
		v.scroll = v.search.prevScroll
		v.scrollIntoView()
	}
	v.search = nil
	v.needsRedraw = true
}

func (v *View) searchFor(query string) {
	if v.search == nil {
		v.enterSearch()
	}
	v.search.query = query
	v.searchFrom(v.loc, true)
	v.needsRedraw = true
}

func (v *View) searchNext() {
	if v.search == nil || v.search.query == "" {
		return
	}
	from := buffer.Location{Line: v.loc.Line, Grapheme: v.loc.Grapheme + 1}
	v.searchFrom(from, true)
}

func (v *View) searchPrev() {
	if v.search == nil || v.search.query == "" {
		return
	}
	v.searchFrom(v.loc, false)
}

func (v *View) searchFrom(from buffer.Location, forward bool) {
	if v.search.query == "" {
		return
	}
	var (
		loc buffer.Location
		ok  bool
	)
	if forward {
		loc, ok = v.buf.SearchForward(v.search.query, from)
	} else {
		loc, ok = v.buf.SearchBackward(v.search.query, from)
	}
	if !ok {
		return
	}
	v.loc = loc
	v.centerCaret()
}
