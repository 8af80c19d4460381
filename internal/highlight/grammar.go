// Package highlight classifies source lines into annotation ranges.
//
// Line grammars tokenize one line at a time and hand a small State to the
// next line, which is how block comments and strings spanning several lines
// are tracked. Document grammars (tree-sitter, chroma) see all lines at once.
package highlight

import "github.com/kobzarvs/qtext/internal/annotated"

// State is what a line grammar carries from the end of one line into the
// start of the next.
type State struct {
	CommentDepth int
	InString     bool
}

// Grammar highlights a single line given the state carried in from the line
// above it. Annotations are byte ranges over text.
type Grammar interface {
	HighlightLine(text string, carry State) ([]annotated.Annotation, State)
}

// DocumentGrammar highlights a whole document in one pass and returns one
// annotation slice per input line.
type DocumentGrammar interface {
	HighlightDocument(lines []string) [][]annotated.Annotation
}
