package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/kobzarvs/qtext/internal/buffer"
	"github.com/kobzarvs/qtext/internal/command"
	"github.com/kobzarvs/qtext/internal/config"
	"github.com/kobzarvs/qtext/internal/logger"
	"github.com/kobzarvs/qtext/internal/view"
)

const (
	helpMessage = "HELP: Ctrl-F = find | Ctrl-S = save | Ctrl-Q = quit"
	messageTTL  = 5 * time.Second
)

// editor ties the view to a tcell screen: it decodes keys, owns the status
// bar, message bar and command bar, and paints everything.
type editor struct {
	cfg       config.Config
	view      *view.View
	styles    styles
	prompt    prompt
	width     int
	height    int
	message   string
	messageAt time.Time
	quitTimes int
	quit      bool
	redraw    bool
	now       func() time.Time
}

func newEditor(cfg config.Config, langs config.Languages) *editor {
	e := &editor{
		cfg:    cfg,
		view:   view.New(buffer.WithLanguages(langs), buffer.WithMaxHighlightBytes(cfg.Editor.MaxHighlightBytes)),
		styles: newStyles(cfg.Theme),
		now:    time.Now,
	}
	e.setMessage(helpMessage)
	return e
}

func (e *editor) open(path string) {
	if err := e.view.Load(path); err != nil {
		logger.Error("open failed", "path", path, "error", err)
		e.setMessage(fmt.Sprintf("ERR: Could not open file: %s", path))
	}
}

func (e *editor) run(s tcell.Screen) error {
	e.resize(s.Size())
	e.render(s)
	for !e.quit {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			e.handleKey(ev)
		case *tcell.EventResize:
			s.Sync()
			e.resize(s.Size())
		}
		if !e.quit && e.needsRender() {
			e.render(s)
		}
	}
	return nil
}

func (e *editor) resize(width, height int) {
	e.width = width
	e.height = height
	e.prompt.width = width
	e.redraw = true
	e.view.Handle(command.Resize{Width: width, Height: max(height-2, 0)})
}

func (e *editor) setMessage(msg string) {
	e.message = msg
	e.messageAt = e.now()
	e.redraw = true
}

// needsRender reports whether anything on screen changed since the last
// render.
func (e *editor) needsRender() bool {
	return e.redraw || e.view.NeedsRedraw()
}

func (e *editor) openPrompt(kind promptKind) {
	e.prompt.open(kind)
	e.redraw = true
}

func (e *editor) handleKey(ev *tcell.EventKey) {
	if e.prompt.active() {
		e.handlePromptKey(ev)
		return
	}
	if action, ok := e.cfg.Keymap[keyString(ev)]; ok {
		if cmd, ok := command.FromAction(action); ok {
			e.dispatch(cmd)
			return
		}
		logger.Warn("unknown keymap action", "key", keyString(ev), "action", action)
	}
	if isText(ev) {
		e.dispatch(command.InsertChar{Char: ev.Rune()})
	}
}

func (e *editor) dispatch(cmd command.Command) {
	if _, ok := cmd.(command.Quit); ok {
		e.requestQuit()
		return
	}
	e.quitTimes = 0
	switch cmd.(type) {
	case command.Save:
		e.save()
	case command.EnterSearch:
		e.openPrompt(promptSearch)
		e.view.Handle(cmd)
	default:
		if err := e.view.Handle(cmd); err != nil {
			logger.Error("command failed", "command", fmt.Sprintf("%T", cmd), "error", err)
		}
	}
}

func (e *editor) requestQuit() {
	if !e.view.Buffer().IsDirty() || e.quitTimes+1 >= e.cfg.Editor.QuitTimes {
		e.quit = true
		return
	}
	e.quitTimes++
	e.setMessage(fmt.Sprintf("WARNING! File has unsaved changes. Press Ctrl-Q %d more times to quit.",
		e.cfg.Editor.QuitTimes-e.quitTimes))
}

func (e *editor) save() {
	err := e.view.Handle(command.Save{})
	switch {
	case errors.Is(err, buffer.ErrNoPath):
		e.openPrompt(promptSave)
	case err != nil:
		e.setMessage("Error writing file!")
	default:
		e.setMessage("File saved successfully.")
	}
}

func (e *editor) handlePromptKey(ev *tcell.EventKey) {
	kind := e.prompt.kind
	e.redraw = true
	switch keyString(ev) {
	case "esc", "ctrl+q":
		e.prompt.close()
		if kind == promptSearch {
			e.view.Handle(command.DismissSearch{})
		} else {
			e.setMessage("Save aborted.")
		}
		return
	case "enter":
		value := e.prompt.text()
		e.prompt.close()
		if kind == promptSearch {
			e.view.Handle(command.ExitSearch{})
			return
		}
		e.saveAs(value)
		return
	case "backspace":
		e.prompt.deleteLast()
		e.promptChanged(kind)
		return
	case "right", "down":
		if kind == promptSearch {
			e.view.Handle(command.SearchNext{})
		}
		return
	case "left", "up":
		if kind == promptSearch {
			e.view.Handle(command.SearchPrev{})
		}
		return
	}
	if isText(ev) {
		e.prompt.appendChar(ev.Rune())
		e.promptChanged(kind)
	}
}

func (e *editor) promptChanged(kind promptKind) {
	if kind == promptSearch {
		e.view.Handle(command.SearchQueryChanged{Query: e.prompt.text()})
	}
}

func (e *editor) saveAs(path string) {
	if path == "" {
		e.setMessage("Save aborted.")
		return
	}
	if err := e.view.Handle(command.SaveAs{Path: path}); err != nil {
		e.setMessage("Error writing file!")
		return
	}
	e.setMessage("File saved successfully.")
}

func (e *editor) render(s tcell.Screen) {
	textHeight := max(e.height-2, 0)
	for y := 0; y < textHeight; y++ {
		e.renderRow(s, y, e.view.Row(y))
	}
	if e.height >= 2 {
		e.renderStatus(s, e.height-2)
	}
	if e.height >= 1 {
		e.renderBottom(s, e.height-1)
	}
	if e.prompt.active() && e.height >= 1 {
		_, col := e.prompt.render()
		s.ShowCursor(col, e.height-1)
	} else {
		caret := e.view.Caret()
		s.ShowCursor(caret.Col, caret.Row)
	}
	e.view.SetNeedsRedraw(false)
	e.redraw = false
	s.Show()
}

func (e *editor) renderRow(s tcell.Screen, y int, row view.Row) {
	x := 0
	if row.Text != nil {
		for _, part := range row.Text.Parts() {
			x = drawString(s, x, y, e.width, part.Text, e.styles.forKind(part.Kind))
		}
	} else {
		x = drawString(s, x, y, e.width, row.Plain, e.styles.emptyLine)
	}
	fill(s, x, y, e.width, e.styles.main)
}

func (e *editor) renderStatus(s tcell.Screen, y int) {
	st := e.view.Status()
	left := fmt.Sprintf("%s - %s %s", st.Filename, st.LineCountString(), st.ModifiedIndicator())
	right := fmt.Sprintf("%s | %s", st.FileType, st.PositionIndicator())
	x := drawString(s, 0, y, e.width, composeStatusLine(left, right, e.width), e.styles.status)
	fill(s, x, y, e.width, e.styles.status)
}

func (e *editor) renderBottom(s tcell.Screen, y int) {
	text := ""
	switch {
	case e.prompt.active():
		text, _ = e.prompt.render()
	case e.now().Sub(e.messageAt) < messageTTL:
		text = e.message
	}
	x := drawString(s, 0, y, e.width, text, e.styles.message)
	fill(s, x, y, e.width, e.styles.message)
}

// composeStatusLine pads between left and right so the line spans width
// columns. When both do not fit, left is cut first.
func composeStatusLine(left, right string, width int) string {
	if width <= 0 {
		return ""
	}
	lw := runewidth.StringWidth(left)
	rw := runewidth.StringWidth(right)
	if lw+rw > width {
		if rw >= width {
			return runewidth.Truncate(right, width, "")
		}
		left = runewidth.Truncate(left, width-rw, "")
		lw = runewidth.StringWidth(left)
	}
	return left + strings.Repeat(" ", max(width-lw-rw, 0)) + right
}

// drawString paints text grapheme by grapheme from column x and returns the
// column after the last painted cluster.
func drawString(s tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		w := max(runewidth.StringWidth(g.Str()), 1)
		if x+w > width {
			break
		}
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}

func fill(s tcell.Screen, x, y, width int, style tcell.Style) {
	for ; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}
