package annotated

// Kind tags an annotated byte range with what it represents.
type Kind uint8

const (
	KindNone Kind = iota
	KindMatch
	KindSelectedMatch
	KindNumber
	KindKeyword
	KindType
	KindKnownLiteral
	KindChar
	KindLifetimeSpecifier
	KindComment
	KindString
	KindFunction
	KindField
	KindOperator
	KindPunctuation
	KindConstant
	KindBuiltin
)

var kindNames = [...]string{
	KindNone:              "none",
	KindMatch:             "match",
	KindSelectedMatch:     "selected_match",
	KindNumber:            "number",
	KindKeyword:           "keyword",
	KindType:              "type",
	KindKnownLiteral:      "known_literal",
	KindChar:              "char",
	KindLifetimeSpecifier: "lifetime",
	KindComment:           "comment",
	KindString:            "string",
	KindFunction:          "function",
	KindField:             "field",
	KindOperator:          "operator",
	KindPunctuation:       "punctuation",
	KindConstant:          "constant",
	KindBuiltin:           "builtin",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a kind name (also tree-sitter capture names) to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), k != int(KindNone)
		}
	}
	return KindNone, false
}
