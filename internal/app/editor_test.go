package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qtext/internal/annotated"
	"github.com/kobzarvs/qtext/internal/buffer"
	"github.com/kobzarvs/qtext/internal/config"
)

func newTestEditor(t *testing.T, width, height int) (*editor, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(width, height)
	e := newEditor(config.Default(), config.Languages{})
	e.resize(width, height)
	return e, s
}

func screenRow(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteString(string(cells[y*w+x].Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func ctrl(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModCtrl)
}

func typeKeys(e *editor, text string) {
	for _, r := range text {
		e.handleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	e, s := newTestEditor(t, 60, 6)
	e.render(s)

	if got := screenRow(s, 0); got != "~" {
		t.Fatalf("row 0 = %q, want ~", got)
	}
	if got := screenRow(s, 2); !strings.Contains(got, "qtext editor -- version") {
		t.Fatalf("welcome row = %q", got)
	}
	status := screenRow(s, 4)
	if !strings.HasPrefix(status, "[No Name] - 0 lines") || !strings.HasSuffix(status, "Text | 1:1") {
		t.Fatalf("status = %q", status)
	}
	if got := screenRow(s, 5); got != helpMessage {
		t.Fatalf("message = %q, want %q", got, helpMessage)
	}
}

func TestMessageExpires(t *testing.T) {
	e, s := newTestEditor(t, 60, 6)
	start := time.Now()
	e.now = func() time.Time { return start }
	e.setMessage("hello")
	e.now = func() time.Time { return start.Add(messageTTL + time.Second) }
	e.render(s)
	if got := screenRow(s, 5); got != "" {
		t.Fatalf("message = %q, want empty", got)
	}
}

func TestTypingRendersAndMovesCursor(t *testing.T) {
	e, s := newTestEditor(t, 40, 6)
	typeKeys(e, "hi")
	e.render(s)
	if got := screenRow(s, 0); got != "hi" {
		t.Fatalf("row 0 = %q, want %q", got, "hi")
	}
	if status := screenRow(s, 4); !strings.Contains(status, "(modified)") || !strings.HasSuffix(status, "1:3") {
		t.Fatalf("status = %q", status)
	}
	x, y, visible := s.GetCursor()
	if !visible || x != 2 || y != 0 {
		t.Fatalf("cursor = (%d,%d,%v), want (2,0,true)", x, y, visible)
	}

	e.handleKey(key(tcell.KeyEnter))
	e.handleKey(key(tcell.KeyBackspace2))
	e.handleKey(key(tcell.KeyBackspace2))
	e.render(s)
	if got := screenRow(s, 0); got != "h" {
		t.Fatalf("row 0 after backspace = %q, want %q", got, "h")
	}
}

func TestTabInsertsTab(t *testing.T) {
	e, _ := newTestEditor(t, 40, 6)
	e.handleKey(key(tcell.KeyTab))
	if got := e.view.Buffer().Text(0); got != "\t" {
		t.Fatalf("line = %q, want tab", got)
	}
}

func TestQuitGuard(t *testing.T) {
	e, _ := newTestEditor(t, 80, 6)
	typeKeys(e, "x")
	e.handleKey(ctrl(tcell.KeyCtrlQ))
	if e.quit {
		t.Fatalf("quit on first press with unsaved changes")
	}
	if !strings.Contains(e.message, "Press Ctrl-Q 2 more times") {
		t.Fatalf("message = %q", e.message)
	}
	e.handleKey(ctrl(tcell.KeyCtrlQ))
	if e.quit || !strings.Contains(e.message, "1 more times") {
		t.Fatalf("quit = %v, message = %q", e.quit, e.message)
	}
	e.handleKey(ctrl(tcell.KeyCtrlQ))
	if !e.quit {
		t.Fatalf("not quit after %d presses", e.cfg.Editor.QuitTimes)
	}
}

func TestQuitGuardResetsOnOtherKeys(t *testing.T) {
	e, _ := newTestEditor(t, 80, 6)
	typeKeys(e, "x")
	e.handleKey(ctrl(tcell.KeyCtrlQ))
	e.handleKey(ctrl(tcell.KeyCtrlQ))
	typeKeys(e, "y")
	e.handleKey(ctrl(tcell.KeyCtrlQ))
	if e.quit {
		t.Fatalf("quit counter not reset by typing")
	}
}

func TestQuitCleanBuffer(t *testing.T) {
	e, _ := newTestEditor(t, 40, 6)
	e.handleKey(ctrl(tcell.KeyCtrlQ))
	if !e.quit {
		t.Fatalf("clean buffer did not quit")
	}
}

func TestSaveWithoutPathPrompts(t *testing.T) {
	e, s := newTestEditor(t, 80, 6)
	typeKeys(e, "fn main")
	e.handleKey(ctrl(tcell.KeyCtrlS))
	if e.prompt.kind != promptSave {
		t.Fatalf("prompt = %v, want save prompt", e.prompt.kind)
	}
	path := filepath.Join(t.TempDir(), "out.rs")
	typeKeys(e, path)
	e.render(s)
	if got := screenRow(s, 5); !strings.HasPrefix(got, "Save as: ") {
		t.Fatalf("command bar = %q", got)
	}
	e.handleKey(key(tcell.KeyEnter))
	if e.prompt.active() {
		t.Fatalf("prompt still open")
	}
	if e.message != "File saved successfully." {
		t.Fatalf("message = %q", e.message)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "fn main\n" {
		t.Fatalf("saved = %q", data)
	}
	e.render(s)
	if status := screenRow(s, 4); !strings.HasPrefix(status, "out.rs - 1 lines") || !strings.Contains(status, "Rust | ") {
		t.Fatalf("status = %q", status)
	}
	cells, _, _ := s.GetContents()
	if cells[0].Style != e.styles.forKind(annotated.KindKeyword) {
		t.Fatalf("keyword cell not styled as keyword")
	}
	if cells[3].Style != e.styles.main {
		t.Fatalf("identifier cell not in main style")
	}
}

func TestSaveFailureAndAbort(t *testing.T) {
	e, _ := newTestEditor(t, 80, 6)
	typeKeys(e, "x")
	e.handleKey(ctrl(tcell.KeyCtrlS))
	typeKeys(e, filepath.Join(t.TempDir(), "missing", "out.txt"))
	e.handleKey(key(tcell.KeyEnter))
	if e.message != "Error writing file!" {
		t.Fatalf("message = %q", e.message)
	}
	if !e.view.Buffer().IsDirty() {
		t.Fatalf("failed save cleared dirty flag")
	}

	e.handleKey(ctrl(tcell.KeyCtrlS))
	e.handleKey(key(tcell.KeyEscape))
	if e.prompt.active() || e.message != "Save aborted." {
		t.Fatalf("prompt active = %v, message = %q", e.prompt.active(), e.message)
	}
}

func TestSaveExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("abc\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	e, _ := newTestEditor(t, 80, 6)
	e.open(path)
	typeKeys(e, "z")
	e.handleKey(ctrl(tcell.KeyCtrlS))
	if e.prompt.active() || e.message != "File saved successfully." {
		t.Fatalf("prompt active = %v, message = %q", e.prompt.active(), e.message)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "zabc\n" {
		t.Fatalf("saved = %q", data)
	}
}

func TestOpenFailureShowsMessage(t *testing.T) {
	e, _ := newTestEditor(t, 80, 6)
	path := filepath.Join(t.TempDir(), "missing.txt")
	e.open(path)
	if want := "ERR: Could not open file: " + path; e.message != want {
		t.Fatalf("message = %q, want %q", e.message, want)
	}
	if !e.view.Buffer().IsEmpty() {
		t.Fatalf("buffer not empty after failed open")
	}
}

func TestSearchPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\none\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	e, s := newTestEditor(t, 40, 8)
	e.open(path)

	e.handleKey(ctrl(tcell.KeyCtrlF))
	typeKeys(e, "one")
	e.render(s)
	if got := screenRow(s, 7); got != "Search: one" {
		t.Fatalf("command bar = %q", got)
	}
	x, y, _ := s.GetCursor()
	if x != len("Search: one") || y != 7 {
		t.Fatalf("cursor = (%d,%d)", x, y)
	}
	cells, w, _ := s.GetContents()
	if cells[0].Style != e.styles.selected {
		t.Fatalf("selected match not highlighted")
	}
	if cells[2*w].Style != e.styles.match {
		t.Fatalf("other match not highlighted")
	}

	e.handleKey(key(tcell.KeyDown))
	if got := e.view.Location(); got != (buffer.Location{Line: 2, Grapheme: 0}) {
		t.Fatalf("location after next = %+v", got)
	}
	e.handleKey(key(tcell.KeyEscape))
	if got := e.view.Location(); got != (buffer.Location{}) {
		t.Fatalf("location after dismiss = %+v", got)
	}
	if e.view.IsSearching() {
		t.Fatalf("search session still open")
	}

	e.handleKey(ctrl(tcell.KeyCtrlF))
	typeKeys(e, "tx")
	e.handleKey(key(tcell.KeyBackspace2))
	typeKeys(e, "w")
	e.handleKey(key(tcell.KeyEnter))
	if got := e.view.Location(); got != (buffer.Location{Line: 1, Grapheme: 0}) {
		t.Fatalf("location after exit = %+v", got)
	}
	if e.prompt.active() || e.view.IsSearching() {
		t.Fatalf("search not closed")
	}
}

func TestRunQuits(t *testing.T) {
	e, s := newTestEditor(t, 40, 6)
	done := make(chan error, 1)
	go func() { done <- e.run(s) }()
	if err := s.PostEvent(ctrl(tcell.KeyCtrlQ)); err != nil {
		t.Fatalf("post event: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return")
	}
}

func TestRenderOnlyAfterChanges(t *testing.T) {
	e, s := newTestEditor(t, 40, 6)
	typeKeys(e, "ab")
	e.render(s)
	if e.needsRender() {
		t.Fatalf("needsRender = true right after render")
	}
	e.handleKey(key(tcell.KeyF5))
	if e.needsRender() {
		t.Fatalf("unbound key requested a render")
	}
	e.handleKey(key(tcell.KeyLeft))
	if !e.needsRender() {
		t.Fatalf("caret move did not request a render")
	}
	e.render(s)
	e.handleKey(ctrl(tcell.KeyCtrlF))
	if !e.needsRender() {
		t.Fatalf("opening the search prompt did not request a render")
	}
}
