// Package buffer holds the lines of one document together with its file
// identity, dirty flag and syntax highlighting cache.
package buffer

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/kobzarvs/qtext/internal/annotated"
	"github.com/kobzarvs/qtext/internal/config"
	"github.com/kobzarvs/qtext/internal/highlight"
	"github.com/kobzarvs/qtext/internal/line"
	"github.com/kobzarvs/qtext/internal/logger"
)

var (
	// ErrNoPath is returned by Save when the buffer has never been given a
	// file name.
	ErrNoPath = errors.New("no file name")
	// ErrNotText is returned by Load for files that are not valid UTF-8.
	ErrNotText = errors.New("not a text file")
)

// Location addresses a grapheme in the document. Line may equal the
// height, meaning the position just past the last line.
type Location struct {
	Line     int
	Grapheme int
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithLanguages supplies the user's language table for file type detection.
func WithLanguages(langs config.Languages) Option {
	return func(b *Buffer) {
		b.langs = langs
	}
}

// WithMaxHighlightBytes limits whole-document highlighting to documents of
// at most n bytes.
func WithMaxHighlightBytes(n int) Option {
	return func(b *Buffer) {
		b.maxHighlight = n
	}
}

// Buffer is an ordered list of lines. A Buffer with no lines is an empty
// document, which is not the same as one empty line.
type Buffer struct {
	lines        []*line.Line
	info         FileInfo
	dirty        bool
	langs        config.Languages
	maxHighlight int
	hl           *highlight.Highlighter
}

// New returns an empty, untitled buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}
	b.setInfo(DetectFileInfo("", b.langs))
	return b
}

// Load reads path into a new buffer. Nothing is returned on failure.
func Load(path string, opts ...Option) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("load %s: %w", path, ErrNotText)
	}
	b := New(opts...)
	for _, text := range splitLines(string(data)) {
		b.lines = append(b.lines, line.New(text))
	}
	b.setInfo(DetectFileInfo(path, b.langs))
	logger.Info("file loaded", "path", path, "lines", len(b.lines), "type", b.info.Type)
	return b, nil
}

// splitLines normalizes CRLF and splits on LF. A trailing terminator does
// not start another line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func (b *Buffer) setInfo(info FileInfo) {
	typeChanged := b.hl == nil || info.Type != b.info.Type
	b.info = info
	if typeChanged {
		b.hl = highlight.ForFileType(info.Type)
		b.hl.SetMaxBytes(b.maxHighlight)
	}
}

// FileInfo returns the file identity.
func (b *Buffer) FileInfo() FileInfo {
	return b.info
}

// Height returns the number of lines.
func (b *Buffer) Height() int {
	return len(b.lines)
}

// IsEmpty reports whether the buffer has no lines at all.
func (b *Buffer) IsEmpty() bool {
	return len(b.lines) == 0
}

// IsDirty reports whether there are unsaved changes.
func (b *Buffer) IsDirty() bool {
	return b.dirty
}

// Text returns the text of line idx, or "" when out of range.
func (b *Buffer) Text(idx int) string {
	if idx < 0 || idx >= len(b.lines) {
		return ""
	}
	return b.lines[idx].String()
}

// GraphemeCount returns the grapheme count of line idx, 0 when out of range.
func (b *Buffer) GraphemeCount(idx int) int {
	if idx < 0 || idx >= len(b.lines) {
		return 0
	}
	return b.lines[idx].GraphemeCount()
}

// WidthUntil returns the display width of the first until graphemes of line
// idx.
func (b *Buffer) WidthUntil(idx, until int) int {
	if idx < 0 || idx >= len(b.lines) {
		return 0
	}
	return b.lines[idx].WidthUntil(until)
}

func (b *Buffer) touch(idx int) {
	b.dirty = true
	b.hl.Invalidate(idx)
}

// InsertChar inserts ch at at. Inserting on the line past the end appends a
// new line holding just ch.
func (b *Buffer) InsertChar(ch rune, at Location) {
	switch {
	case at.Line == len(b.lines):
		b.lines = append(b.lines, line.New(string(ch)))
	case at.Line >= 0 && at.Line < len(b.lines):
		b.lines[at.Line].InsertChar(ch, at.Grapheme)
	default:
		return
	}
	b.touch(at.Line)
}

// Delete removes the grapheme at at. At the end of a line the next line is
// joined onto it; at the end of the document nothing happens.
func (b *Buffer) Delete(at Location) {
	if at.Line < 0 || at.Line >= len(b.lines) {
		return
	}
	l := b.lines[at.Line]
	switch {
	case at.Grapheme >= l.GraphemeCount() && at.Line+1 < len(b.lines):
		l.Append(b.lines[at.Line+1])
		b.lines = append(b.lines[:at.Line+1], b.lines[at.Line+2:]...)
	case at.Grapheme < l.GraphemeCount():
		l.Delete(at.Grapheme)
	default:
		return
	}
	b.touch(at.Line)
}

// InsertNewline splits the line at at, or appends an empty line when at is
// past the last line.
func (b *Buffer) InsertNewline(at Location) {
	switch {
	case at.Line == len(b.lines):
		b.lines = append(b.lines, line.New(""))
	case at.Line >= 0 && at.Line < len(b.lines):
		tail := b.lines[at.Line].Split(at.Grapheme)
		b.lines = append(b.lines, nil)
		copy(b.lines[at.Line+2:], b.lines[at.Line+1:])
		b.lines[at.Line+1] = tail
	default:
		return
	}
	b.touch(at.Line)
}

// Save writes the buffer to its file.
func (b *Buffer) Save() error {
	if !b.info.HasPath() {
		return ErrNoPath
	}
	if err := b.writeTo(b.info.Path); err != nil {
		return err
	}
	b.dirty = false
	return nil
}

// SaveAs writes the buffer to path and adopts it as the buffer's file.
func (b *Buffer) SaveAs(path string) error {
	if err := b.writeTo(path); err != nil {
		return err
	}
	b.setInfo(DetectFileInfo(path, b.langs))
	b.dirty = false
	return nil
}

func (b *Buffer) writeTo(path string) error {
	var sb strings.Builder
	for _, l := range b.lines {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		logger.Error("save failed", "path", path, "err", err)
		return fmt.Errorf("save %s: %w", path, err)
	}
	logger.Info("file saved", "path", path, "lines", len(b.lines))
	return nil
}

// SearchForward finds the next match of query at or after from, wrapping
// around the end of the document once. The starting line is visited twice
// so matches before from on that line are found last.
func (b *Buffer) SearchForward(query string, from Location) (Location, bool) {
	n := len(b.lines)
	if query == "" || n == 0 {
		return Location{}, false
	}
	start := from.Line
	if start < 0 || start >= n {
		start = 0
	}
	for i := 0; i <= n; i++ {
		idx := (start + i) % n
		l := b.lines[idx]
		g := 0
		if i == 0 && from.Line == start {
			g = min(max(from.Grapheme, 0), l.GraphemeCount())
		}
		if found, ok := l.SearchForward(query, g); ok {
			return Location{Line: idx, Grapheme: found}, true
		}
	}
	logger.Debug("search miss", "query", query, "direction", "forward")
	return Location{}, false
}

// SearchBackward finds the closest match of query ending at or before from,
// wrapping around the start of the document once.
func (b *Buffer) SearchBackward(query string, from Location) (Location, bool) {
	n := len(b.lines)
	if query == "" || n == 0 {
		return Location{}, false
	}
	start := from.Line
	if start < 0 || start >= n {
		start = n - 1
	}
	for i := 0; i <= n; i++ {
		idx := ((start-i)%n + n) % n
		l := b.lines[idx]
		g := l.GraphemeCount()
		if i == 0 && from.Line == start {
			g = min(max(from.Grapheme, 0), g)
		}
		if found, ok := l.SearchBackward(query, g); ok {
			return Location{Line: idx, Grapheme: found}, true
		}
	}
	logger.Debug("search miss", "query", query, "direction", "backward")
	return Location{}, false
}

// AnnotatedRow renders the visible part of line idx with syntax and search
// overlays. It returns nil for lines outside the document.
func (b *Buffer) AnnotatedRow(idx int, cols line.Cols, query string, selected int) *annotated.String {
	if idx < 0 || idx >= len(b.lines) {
		return nil
	}
	return b.lines[idx].AnnotatedVisibleSubstr(cols, line.Overlay{
		Query:         query,
		SelectedMatch: selected,
		Syntax:        b.hl.Annotations(lineTexts(b.lines), idx),
	})
}

type lineTexts []*line.Line

func (l lineTexts) Height() int         { return len(l) }
func (l lineTexts) Text(idx int) string { return l[idx].String() }
