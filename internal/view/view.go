// Package view is the editing context: it owns the buffer, the caret, the
// scroll offset and the search session, applies commands to them, and
// produces the rows the terminal layer paints.
package view

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/qtext/internal/annotated"
	"github.com/kobzarvs/qtext/internal/buffer"
	"github.com/kobzarvs/qtext/internal/command"
	"github.com/kobzarvs/qtext/internal/line"
	"github.com/kobzarvs/qtext/internal/logger"
)

const (
	// Name and Version appear in the welcome row.
	Name    = "qtext"
	Version = "0.1.0"
)

// Position is a row and display column.
type Position struct {
	Row, Col int
}

// Size is a terminal area in cells.
type Size struct {
	Width, Height int
}

// Row is one rendered screen row. Text is set for document lines, Plain
// for filler rows.
type Row struct {
	Text  *annotated.String
	Plain string
}

type searchInfo struct {
	prevLocation buffer.Location
	prevScroll   Position
	query        string
}

// View is one document being edited: its buffer, caret, scroll offset and
// search session.
type View struct {
	buf         *buffer.Buffer
	opts        []buffer.Option
	size        Size
	loc         buffer.Location
	scroll      Position
	search      *searchInfo
	needsRedraw bool
}

// New returns a view over an empty buffer. opts are applied to every buffer
// the view creates or loads.
func New(opts ...buffer.Option) *View {
	return &View{buf: buffer.New(opts...), opts: opts, needsRedraw: true}
}

// Load replaces the buffer with the contents of path. On failure the
// current buffer stays.
func (v *View) Load(path string) error {
	b, err := buffer.Load(path, v.opts...)
	if err != nil {
		return err
	}
	v.buf = b
	v.loc = buffer.Location{}
	v.scroll = Position{}
	v.needsRedraw = true
	return nil
}

// Buffer returns the document being edited.
func (v *View) Buffer() *buffer.Buffer {
	return v.buf
}

// Location returns the caret as a line and grapheme index.
func (v *View) Location() buffer.Location {
	return v.loc
}

// ScrollOffset returns the document row and column shown top-left.
func (v *View) ScrollOffset() Position {
	return v.scroll
}

// NeedsRedraw reports whether the rendered rows or caret changed since
// SetNeedsRedraw(false).
func (v *View) NeedsRedraw() bool {
	return v.needsRedraw
}

func (v *View) SetNeedsRedraw(value bool) {
	v.needsRedraw = value
}

// IsSearching reports whether a search session is open.
func (v *View) IsSearching() bool {
	return v.search != nil
}

// Handle applies cmd. Only saving can fail.
func (v *View) Handle(cmd command.Command) error {
	switch c := cmd.(type) {
	case command.Move:
		v.move(c)
	case command.InsertChar:
		v.insertChar(c.Char)
	case command.InsertNewline:
		v.insertNewline()
	case command.DeleteForward:
		v.deleteForward()
	case command.DeleteBackward:
		v.deleteBackward()
	case command.Resize:
		v.Resize(Size{Width: c.Width, Height: c.Height})
	case command.Save:
		if err := v.buf.Save(); err != nil {
			return err
		}
		v.needsRedraw = true
	case command.SaveAs:
		if err := v.buf.SaveAs(c.Path); err != nil {
			return err
		}
		v.needsRedraw = true
	case command.EnterSearch:
		v.enterSearch()
	case command.SearchQueryChanged:
		v.searchFor(c.Query)
	case command.SearchNext:
		v.searchNext()
	case command.SearchPrev:
		v.searchPrev()
	case command.ExitSearch:
		v.exitSearch()
	case command.DismissSearch:
		v.dismissSearch()
	default:
		logger.Debug("view ignored command", "command", fmt.Sprintf("%T", cmd))
	}
	return nil
}

// Resize sets the text area size and keeps the caret visible.
func (v *View) Resize(to Size) {
	v.size = to
	v.scrollIntoView()
	v.needsRedraw = true
}

// Caret returns the caret position relative to the top-left of the view.
func (v *View) Caret() Position {
	p := v.caretPosition()
	return Position{Row: p.Row - v.scroll.Row, Col: p.Col - v.scroll.Col}
}

// Status reports the document state for the status bar.
func (v *View) Status() DocumentStatus {
	info := v.buf.FileInfo()
	return DocumentStatus{
		Filename:  info.Name(),
		LineCount: v.buf.Height(),
		Location:  v.loc,
		Modified:  v.buf.IsDirty(),
		FileType:  info.Type,
	}
}

func (v *View) caretPosition() Position {
	return Position{Row: v.loc.Line, Col: v.buf.WidthUntil(v.loc.Line, v.loc.Grapheme)}
}

func (v *View) lineLen(idx int) int {
	return v.buf.GraphemeCount(idx)
}

func (v *View) move(m command.Move) {
	before := v.loc
	switch m {
	case command.MoveUp:
		v.moveUp(1)
	case command.MoveDown:
		v.moveDown(1)
	case command.MoveLeft:
		v.moveLeft()
	case command.MoveRight:
		v.moveRight()
	case command.MovePageUp:
		v.moveUp(max(v.size.Height-1, 0))
	case command.MovePageDown:
		v.moveDown(max(v.size.Height-1, 0))
	case command.MoveLineStart:
		v.loc.Grapheme = 0
	case command.MoveLineEnd:
		v.loc.Grapheme = v.lineLen(v.loc.Line)
	}
	if v.loc != before {
		v.needsRedraw = true
	}
	v.scrollIntoView()
}

func (v *View) moveUp(step int) {
	v.loc.Line = max(v.loc.Line-step, 0)
	v.snapToValidGrapheme()
}

func (v *View) moveDown(step int) {
	v.loc.Line += step
	v.snapToValidGrapheme()
	v.loc.Line = min(v.loc.Line, v.buf.Height())
}

func (v *View) moveRight() {
	if v.loc.Grapheme < v.lineLen(v.loc.Line) {
		v.loc.Grapheme++
		return
	}
	v.loc.Grapheme = 0
	v.moveDown(1)
}

func (v *View) moveLeft() {
	if v.loc.Grapheme > 0 {
		v.loc.Grapheme--
		return
	}
	if v.loc.Line > 0 {
		v.moveUp(1)
		v.loc.Grapheme = v.lineLen(v.loc.Line)
	}
}

func (v *View) snapToValidGrapheme() {
	v.loc.Grapheme = min(v.loc.Grapheme, v.lineLen(v.loc.Line))
}

func (v *View) insertChar(ch rune) {
	before := v.lineLen(v.loc.Line)
	v.buf.InsertChar(ch, v.loc)
	if v.lineLen(v.loc.Line) > before {
		v.move(command.MoveRight)
	}
	v.needsRedraw = true
}

func (v *View) insertNewline() {
	v.buf.InsertNewline(v.loc)
	v.move(command.MoveRight)
	v.needsRedraw = true
}

func (v *View) deleteBackward() {
	if v.loc.Line == 0 && v.loc.Grapheme == 0 {
		return
	}
	v.move(command.MoveLeft)
	v.buf.Delete(v.loc)
	v.needsRedraw = true
}

func (v *View) deleteForward() {
	v.buf.Delete(v.loc)
	v.needsRedraw = true
}

func (v *View) scrollIntoView() {
	p := v.caretPosition()
	v.scrollVertically(p.Row)
	v.scrollHorizontally(p.Col)
}

func (v *View) scrollVertically(to int) {
	switch {
	case to < v.scroll.Row:
		v.scroll.Row = to
	case to >= v.scroll.Row+v.size.Height:
		v.scroll.Row = max(to-v.size.Height+1, 0)
	default:
		return
	}
	v.needsRedraw = true
}

func (v *View) scrollHorizontally(to int) {
	switch {
	case to < v.scroll.Col:
		v.scroll.Col = to
	case to >= v.scroll.Col+v.size.Width:
		v.scroll.Col = max(to-v.size.Width+1, 0)
	default:
		return
	}
	v.needsRedraw = true
}

func (v *View) centerCaret() {
	p := v.caretPosition()
	v.scroll.Row = max(p.Row-(v.size.Height+1)/2, 0)
	v.scroll.Col = max(p.Col-(v.size.Width+1)/2, 0)
	v.needsRedraw = true
}

// Row renders screen row i of the text area.
func (v *View) Row(i int) Row {
	idx := v.scroll.Row + i
	if idx < v.buf.Height() {
		query, selected := "", line.NoSelection
		if v.search != nil {
			query = v.search.query
			if v.loc.Line == idx {
				selected = v.loc.Grapheme
			}
		}
		cols := line.Cols{Left: v.scroll.Col, Right: v.scroll.Col + v.size.Width}
		return Row{Text: v.buf.AnnotatedRow(idx, cols, query, selected)}
	}
	if v.buf.IsEmpty() && i == (v.size.Height+2)/3 {
		return Row{Plain: welcomeMessage(v.size.Width)}
	}
	return Row{Plain: "~"}
}

func welcomeMessage(width int) string {
	if width == 0 {
		return ""
	}
	msg := fmt.Sprintf("%s editor -- version %s", Name, Version)
	remaining := width - 1
	if remaining <= len(msg) {
		return "~"
	}
	left := (remaining - len(msg)) / 2
	right := remaining - len(msg) - left
	return "~" + strings.Repeat(" ", left) + msg + strings.Repeat(" ", right)
}
