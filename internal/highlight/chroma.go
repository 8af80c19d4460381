package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/kobzarvs/qtext/internal/annotated"
	"github.com/kobzarvs/qtext/internal/logger"
)

// Chroma is a document grammar backed by a chroma lexer.
type Chroma struct {
	lexer chroma.Lexer
}

// NewChroma wraps lexer, coalescing runs of equal tokens.
func NewChroma(lexer chroma.Lexer) *Chroma {
	return &Chroma{lexer: chroma.Coalesce(lexer)}
}

// ChromaForName looks up a lexer by language name or alias.
func ChromaForName(name string) (*Chroma, bool) {
	lexer := lexers.Get(name)
	if lexer == nil {
		return nil, false
	}
	return NewChroma(lexer), true
}

// HighlightDocument implements DocumentGrammar.
func (c *Chroma) HighlightDocument(lines []string) [][]annotated.Annotation {
	out := make([][]annotated.Annotation, len(lines))
	if len(lines) == 0 {
		return out
	}
	iter, err := c.lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		logger.Warn("chroma tokenise failed", "lexer", c.lexer.Config().Name, "err", err)
		return out
	}
	row, col := 0, 0
	for _, tok := range iter.Tokens() {
		kind := kindForToken(tok.Type)
		for i, piece := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				row++
				col = 0
			}
			if row >= len(lines) {
				return out
			}
			if kind != annotated.KindNone && piece != "" {
				out[row] = append(out[row], annotated.Annotation{Kind: kind, Start: col, End: col + len(piece)})
			}
			col += len(piece)
		}
	}
	return out
}

func kindForToken(t chroma.TokenType) annotated.Kind {
	switch {
	case t.InCategory(chroma.Comment):
		return annotated.KindComment
	case t == chroma.KeywordType:
		return annotated.KindType
	case t == chroma.KeywordConstant:
		return annotated.KindConstant
	case t.InCategory(chroma.Keyword):
		return annotated.KindKeyword
	case t.InSubCategory(chroma.LiteralString):
		return annotated.KindString
	case t.InSubCategory(chroma.LiteralNumber):
		return annotated.KindNumber
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		return annotated.KindBuiltin
	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		return annotated.KindFunction
	case t == chroma.NameClass:
		return annotated.KindType
	case t == chroma.NameConstant:
		return annotated.KindConstant
	case t == chroma.NameAttribute || t == chroma.NameProperty:
		return annotated.KindField
	case t.InCategory(chroma.Operator):
		return annotated.KindOperator
	case t.InCategory(chroma.Punctuation):
		return annotated.KindPunctuation
	}
	return annotated.KindNone
}
