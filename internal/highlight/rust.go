package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/kobzarvs/qtext/internal/annotated"
)

var rustKeywords = wordSet(
	"break", "const", "continue", "crate", "else", "enum", "extern", "false",
	"fn", "for", "if", "impl", "in", "let", "loop", "match", "mod", "move",
	"mut", "pub", "ref", "return", "self", "Self", "static", "struct", "super",
	"trait", "true", "type", "unsafe", "use", "where", "while", "async",
	"await", "dyn", "abstract", "become", "box", "do", "final", "macro",
	"override", "priv", "typeof", "unsized", "virtual", "yield", "try",
	"macro_rules", "union",
)

var rustTypes = wordSet(
	"i8", "i16", "i32", "i64", "i128", "isize", "u8", "u16", "u32", "u64",
	"u128", "usize", "f32", "f64", "bool", "char", "Option", "Result",
	"String", "str", "Vec", "HashMap",
)

var rustKnownLiterals = wordSet("Some", "None", "Ok", "Err")

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Rust is the built-in line grammar for Rust sources. It understands nested
// block comments and strings spanning several lines.
type Rust struct{}

// HighlightLine implements Grammar.
func (Rust) HighlightLine(text string, carry State) ([]annotated.Annotation, State) {
	var out []annotated.Annotation
	state := carry
	pos := 0

	switch {
	case state.InString:
		end, closed := scanString(text, 0)
		out = appendSpan(out, annotated.KindString, 0, end)
		if !closed {
			return out, state
		}
		state.InString = false
		pos = end
	case state.CommentDepth > 0:
		end, depth := scanBlockComment(text, 0, state.CommentDepth)
		out = appendSpan(out, annotated.KindComment, 0, end)
		state.CommentDepth = depth
		if depth > 0 {
			return out, state
		}
		pos = end
	}

	starts := wordStarts(text, pos)
	skipUntil := pos
	for _, start := range starts {
		if start < skipUntil {
			continue
		}
		rest := text[start:]

		if strings.HasPrefix(rest, "/*") {
			end, depth := scanBlockComment(text, start+2, 1)
			out = appendSpan(out, annotated.KindComment, start, end)
			if depth > 0 {
				state.CommentDepth = depth
				return out, state
			}
			skipUntil = end
			continue
		}
		if rest[0] == '"' {
			end, closed := scanString(text, start+1)
			out = appendSpan(out, annotated.KindString, start, end)
			if !closed {
				state.InString = true
				return out, state
			}
			skipUntil = end
			continue
		}
		if strings.HasPrefix(rest, "//") {
			out = appendSpan(out, annotated.KindComment, start, len(text))
			return out, state
		}

		kind, n := classifyToken(rest)
		if n > 0 {
			out = appendSpan(out, kind, start, start+n)
			skipUntil = start + n
		}
	}
	return out, state
}

// classifyToken tries the single-line token classes in priority order and
// returns the kind and byte length of the first match.
func classifyToken(rest string) (annotated.Kind, int) {
	if n := charLiteral(rest); n > 0 {
		return annotated.KindChar, n
	}
	if n := lifetime(rest); n > 0 {
		return annotated.KindLifetimeSpecifier, n
	}
	word := firstWords(rest, 1)[0]
	if IsValidNumber(word) {
		return annotated.KindNumber, len(word)
	}
	if _, ok := rustKeywords[word]; ok {
		return annotated.KindKeyword, len(word)
	}
	if _, ok := rustTypes[word]; ok {
		return annotated.KindType, len(word)
	}
	if _, ok := rustKnownLiterals[word]; ok {
		return annotated.KindKnownLiteral, len(word)
	}
	return annotated.KindNone, 0
}

// charLiteral matches a quote, an optional backslash, one more word and a
// closing quote.
func charLiteral(rest string) int {
	words := firstWords(rest, 4)
	if len(words) < 3 || words[0] != "'" {
		return 0
	}
	i := 1
	if words[i] == `\` {
		i++
	}
	i++
	if i >= len(words) || words[i] != "'" {
		return 0
	}
	n := 0
	for _, w := range words[:i+1] {
		n += len(w)
	}
	return n
}

func lifetime(rest string) int {
	words := firstWords(rest, 2)
	if len(words) < 2 || words[0] != "'" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(words[1])
	if r != '_' && !unicode.IsLetter(r) {
		return 0
	}
	return len(words[0]) + len(words[1])
}

// scanString looks for the closing quote of a string whose body starts at
// from. A backslash consumes the character after it.
func scanString(text string, from int) (int, bool) {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i + 1, true
		}
	}
	return len(text), false
}

// scanBlockComment tracks nesting from depth and returns where it drops to
// zero, or the end of text with the remaining depth.
func scanBlockComment(text string, from, depth int) (int, int) {
	for i := from; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(text[i:], "*/"):
			depth--
			i += 2
			if depth == 0 {
				return i, 0
			}
		default:
			i++
		}
	}
	return len(text), depth
}

func appendSpan(out []annotated.Annotation, kind annotated.Kind, start, end int) []annotated.Annotation {
	if start >= end {
		return out
	}
	return append(out, annotated.Annotation{Kind: kind, Start: start, End: end})
}

// wordStarts returns the byte offsets of the word boundaries in text[from:].
func wordStarts(text string, from int) []int {
	var starts []int
	rest := text[from:]
	pos := from
	state := -1
	for rest != "" {
		starts = append(starts, pos)
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		pos += len(word)
	}
	return starts
}

// firstWords splits at most n leading words off s. The result always has at
// least one element.
func firstWords(s string, n int) []string {
	words := make([]string, 0, n)
	state := -1
	for s != "" && len(words) < n {
		var word string
		word, s, state = uniseg.FirstWordInString(s, state)
		words = append(words, word)
	}
	if len(words) == 0 {
		words = append(words, "")
	}
	return words
}
