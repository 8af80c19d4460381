package app

import (
	"github.com/kobzarvs/qtext/internal/line"
)

type promptKind uint8

const (
	promptNone promptKind = iota
	promptSearch
	promptSave
)

// prompt is the single-line command bar used for "Search:" and "Save as:".
type prompt struct {
	kind  promptKind
	value *line.Line
	width int
}

func (p *prompt) open(kind promptKind) {
	p.kind = kind
	p.value = line.New("")
}

func (p *prompt) close() {
	p.kind = promptNone
	p.value = nil
}

func (p *prompt) active() bool {
	return p.kind != promptNone
}

func (p *prompt) label() string {
	switch p.kind {
	case promptSearch:
		return "Search: "
	case promptSave:
		return "Save as: "
	}
	return ""
}

func (p *prompt) text() string {
	if p.value == nil {
		return ""
	}
	return p.value.String()
}

func (p *prompt) appendChar(ch rune) {
	if p.value != nil {
		p.value.AppendChar(ch)
	}
}

func (p *prompt) deleteLast() {
	if p.value != nil {
		p.value.DeleteLast()
	}
}

// render returns the bar contents and the caret column. The value scrolls
// so that its end stays visible.
func (p *prompt) render() (string, int) {
	label := p.label()
	if p.value == nil || len(label) > p.width {
		return "", 0
	}
	area := p.width - len(label)
	end := p.value.Width()
	start := max(end-area, 0)
	visible := p.value.VisibleGraphemes(line.Cols{Left: start, Right: end})
	return label + visible, min(len(label)+end-start, max(p.width-1, 0))
}
