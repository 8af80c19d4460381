package buffer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/kobzarvs/qtext/internal/annotated"
	"github.com/kobzarvs/qtext/internal/config"
	"github.com/kobzarvs/qtext/internal/line"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func texts(b *Buffer) []string {
	out := make([]string, b.Height())
	for i := range out {
		out[i] = b.Text(i)
	}
	return out
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoadSplitsLines(t *testing.T) {
	path := writeFile(t, "main.rs", "a\r\nb\n\nc\n")
	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := []string{"a", "b", "", "c"}
	if got := texts(b); !equalLines(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	if b.IsDirty() {
		t.Fatalf("fresh buffer is dirty")
	}
	if b.FileInfo().Type != "Rust" || b.FileInfo().Name() != "main.rs" {
		t.Fatalf("file info = %+v", b.FileInfo())
	}
}

func TestLoadEmptyFile(t *testing.T) {
	b, err := Load(writeFile(t, "empty.txt", ""))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !b.IsEmpty() {
		t.Fatalf("height = %d, want empty", b.Height())
	}
}

func TestLoadFailures(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
	_, err = Load(writeFile(t, "bin.dat", "\xff\xfe\x00"))
	if !errors.Is(err, ErrNotText) {
		t.Fatalf("binary file err = %v", err)
	}
}

func TestInsertOnEmptyBuffer(t *testing.T) {
	b := New()
	if !b.IsEmpty() || b.FileInfo().Name() != "[No Name]" {
		t.Fatalf("new buffer = %d lines, %q", b.Height(), b.FileInfo().Name())
	}
	b.InsertChar('a', Location{})
	b.InsertChar('b', Location{Line: 0, Grapheme: 1})
	if got := texts(b); !equalLines(got, []string{"ab"}) {
		t.Fatalf("lines = %q", got)
	}
	if !b.IsDirty() {
		t.Fatalf("insert did not set dirty")
	}
}

func TestNewlineAndMerge(t *testing.T) {
	b := New()
	for i, r := range "hello" {
		b.InsertChar(r, Location{Line: 0, Grapheme: i})
	}
	b.InsertNewline(Location{Line: 0, Grapheme: 2})
	if got := texts(b); !equalLines(got, []string{"he", "llo"}) {
		t.Fatalf("after split = %q", got)
	}
	b.InsertNewline(Location{Line: 2})
	if got := texts(b); !equalLines(got, []string{"he", "llo", ""}) {
		t.Fatalf("after append = %q", got)
	}
	b.Delete(Location{Line: 0, Grapheme: 2})
	if got := texts(b); !equalLines(got, []string{"hello", ""}) {
		t.Fatalf("after merge = %q", got)
	}
}

func TestDeleteAtEndOfDocument(t *testing.T) {
	path := writeFile(t, "a.txt", "ab\n")
	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	b.Delete(Location{Line: 0, Grapheme: 2})
	b.Delete(Location{Line: 1, Grapheme: 0})
	if got := texts(b); !equalLines(got, []string{"ab"}) {
		t.Fatalf("lines = %q", got)
	}
	if b.IsDirty() {
		t.Fatalf("no-op delete set dirty")
	}
}

func TestMultibyteLine(t *testing.T) {
	b, err := Load(writeFile(t, "h.txt", "héllo\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := b.GraphemeCount(0); got != 5 {
		t.Fatalf("GraphemeCount = %d, want 5", got)
	}
	if got := b.WidthUntil(0, 5); got != 5 {
		t.Fatalf("WidthUntil = %d, want 5", got)
	}
	b.Delete(Location{Line: 0, Grapheme: 1})
	if b.Text(0) != "hllo" {
		t.Fatalf("line = %q, want %q", b.Text(0), "hllo")
	}
}

func TestSearchForwardWraps(t *testing.T) {
	b, err := Load(writeFile(t, "s.txt", "abc\nxbc\nabc\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	loc, ok := b.SearchForward("abc", Location{Line: 0, Grapheme: 1})
	if !ok || loc != (Location{Line: 2, Grapheme: 0}) {
		t.Fatalf("first = %+v, %v", loc, ok)
	}
	loc, ok = b.SearchForward("abc", Location{Line: 2, Grapheme: 1})
	if !ok || loc != (Location{Line: 0, Grapheme: 0}) {
		t.Fatalf("wrapped = %+v, %v", loc, ok)
	}
	if _, ok := b.SearchForward("", Location{}); ok {
		t.Fatalf("empty query matched")
	}
	if _, ok := b.SearchForward("zzz", Location{}); ok {
		t.Fatalf("missing query matched")
	}
}

func TestSearchStartLineTwice(t *testing.T) {
	b, err := Load(writeFile(t, "s.txt", "abc abc\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loc, ok := b.SearchForward("abc", Location{Line: 0, Grapheme: 1}); !ok || loc.Grapheme != 4 {
		t.Fatalf("forward = %+v, %v", loc, ok)
	}
	if loc, ok := b.SearchForward("abc", Location{Line: 0, Grapheme: 5}); !ok || loc.Grapheme != 0 {
		t.Fatalf("forward wrap = %+v, %v", loc, ok)
	}
	if loc, ok := b.SearchBackward("abc", Location{Line: 0, Grapheme: 3}); !ok || loc.Grapheme != 0 {
		t.Fatalf("backward = %+v, %v", loc, ok)
	}
	if loc, ok := b.SearchBackward("abc", Location{Line: 0, Grapheme: 2}); !ok || loc.Grapheme != 4 {
		t.Fatalf("backward wrap = %+v, %v", loc, ok)
	}
}

func TestSearchBackwardWraps(t *testing.T) {
	b, err := Load(writeFile(t, "s.txt", "abc\nxbc\nabc\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	loc, ok := b.SearchBackward("abc", Location{Line: 2, Grapheme: 0})
	if !ok || loc != (Location{Line: 0, Grapheme: 0}) {
		t.Fatalf("first = %+v, %v", loc, ok)
	}
	loc, ok = b.SearchBackward("abc", Location{Line: 0, Grapheme: 0})
	if !ok || loc != (Location{Line: 2, Grapheme: 0}) {
		t.Fatalf("wrapped = %+v, %v", loc, ok)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	b := New()
	for _, r := range "fn main" {
		b.InsertChar(r, Location{Line: 0, Grapheme: b.GraphemeCount(0)})
	}
	b.InsertNewline(Location{Line: 0, Grapheme: 2})
	b.InsertNewline(Location{Line: 2})

	path := filepath.Join(t.TempDir(), "out.rs")
	if err := b.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}
	if b.IsDirty() {
		t.Fatalf("dirty after save")
	}
	if b.FileInfo().Path != path || b.FileInfo().Type != "Rust" {
		t.Fatalf("file info = %+v", b.FileInfo())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fn\n main\n\n" {
		t.Fatalf("file = %q", data)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !equalLines(texts(again), texts(b)) {
		t.Fatalf("reloaded = %q, want %q", texts(again), texts(b))
	}

	b.InsertChar('x', Location{Line: 0, Grapheme: 0})
	if err := b.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if b.IsDirty() {
		t.Fatalf("dirty after save")
	}
}

func TestSaveFailuresKeepDirty(t *testing.T) {
	b := New()
	b.InsertChar('a', Location{})
	if err := b.Save(); !errors.Is(err, ErrNoPath) {
		t.Fatalf("Save err = %v, want ErrNoPath", err)
	}
	bad := filepath.Join(t.TempDir(), "missing", "out.txt")
	if err := b.SaveAs(bad); err == nil {
		t.Fatalf("SaveAs to missing dir succeeded")
	}
	if !b.IsDirty() {
		t.Fatalf("failed save cleared dirty")
	}
	if b.FileInfo().HasPath() {
		t.Fatalf("failed save changed path to %q", b.FileInfo().Path)
	}
}

func TestAnnotatedRow(t *testing.T) {
	b, err := Load(writeFile(t, "x.rs", "let x = 5;\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cols := line.Cols{Left: 0, Right: 80}
	if got := markup(b.AnnotatedRow(0, cols, "", line.NoSelection)); got != "[keyword:let] x = [number:5];" {
		t.Fatalf("row = %q", got)
	}
	if got := markup(b.AnnotatedRow(0, cols, "x", 4)); got != "[keyword:let] [selected_match:x] = [number:5];" {
		t.Fatalf("row with match = %q", got)
	}
	b.InsertChar('/', Location{Line: 0, Grapheme: 0})
	b.InsertChar('/', Location{Line: 0, Grapheme: 0})
	if got := markup(b.AnnotatedRow(0, cols, "", line.NoSelection)); got != "[comment://let x = 5;]" {
		t.Fatalf("row after edit = %q", got)
	}
	if b.AnnotatedRow(1, cols, "", line.NoSelection) != nil {
		t.Fatalf("row past end should be nil")
	}
}

func TestDetectFileInfo(t *testing.T) {
	langs := config.Languages{Languages: []config.Language{{Name: "custom", FileTypes: []string{"foo"}}}}
	tests := []struct {
		path string
		want string
	}{
		{"", "Text"},
		{"main.rs", "Rust"},
		{"/tmp/a.go", "Go"},
		{"a.foo", "custom"},
		{"script.py", "Python"},
		{"notes.unknownext", "Text"},
	}
	for _, tt := range tests {
		if got := DetectFileInfo(tt.path, langs).Type; got != tt.want {
			t.Fatalf("DetectFileInfo(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFileInfoName(t *testing.T) {
	if got := (FileInfo{}).Name(); got != "[No Name]" {
		t.Fatalf("Name() = %q", got)
	}
	if got := (FileInfo{Path: "/a/b/c.txt"}).Name(); got != "c.txt" {
		t.Fatalf("Name() = %q", got)
	}
	if got := DetectFileInfo("readme.txt", config.Languages{}).Type; got != "Text" {
		t.Fatalf("txt type = %q, want Text", got)
	}
}

// markup renders s as plain text with "[kind:text]" around annotated runs.
func markup(s *annotated.String) string {
	out := ""
	for _, p := range s.Parts() {
		if p.Annotated() {
			out += "[" + p.Kind.String() + ":" + p.Text + "]"
			continue
		}
		out += p.Text
	}
	return out
}
