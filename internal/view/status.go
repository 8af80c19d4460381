package view

import (
	"fmt"

	"github.com/kobzarvs/qtext/internal/buffer"
)

// DocumentStatus is what the status bar shows about the document.
type DocumentStatus struct {
	Filename  string
	LineCount int
	Location  buffer.Location
	Modified  bool
	FileType  string
}

func (s DocumentStatus) ModifiedIndicator() string {
	if s.Modified {
		return "(modified)"
	}
	return ""
}

func (s DocumentStatus) LineCountString() string {
	return fmt.Sprintf("%d lines", s.LineCount)
}

// PositionIndicator is the one-based "line:grapheme" of the caret.
func (s DocumentStatus) PositionIndicator() string {
	return fmt.Sprintf("%d:%d", s.Location.Line+1, s.Location.Grapheme+1)
}
