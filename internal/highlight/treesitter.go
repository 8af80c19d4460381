package highlight

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/qtext/internal/annotated"
	"github.com/kobzarvs/qtext/internal/logger"
)

// TreeSitter is a document grammar backed by a tree-sitter parser and a
// highlight query. Capture names are mapped onto annotation kinds; captures
// without a matching kind are ignored.
type TreeSitter struct {
	name  string
	lang  *sitter.Language
	query *sitter.Query
}

// NewTreeSitter compiles query for lang.
func NewTreeSitter(name string, lang *sitter.Language, query string) (*TreeSitter, error) {
	q, err := sitter.NewQuery([]byte(query), lang)
	if err != nil {
		return nil, err
	}
	return &TreeSitter{name: name, lang: lang, query: q}, nil
}

// TreeSitterGo returns the grammar used for Go sources.
func TreeSitterGo() (*TreeSitter, error) {
	return NewTreeSitter("Go", golang.GetLanguage(), goHighlightQuery)
}

// TreeSitterTOML returns the grammar used for TOML files.
func TreeSitterTOML() (*TreeSitter, error) {
	return NewTreeSitter("TOML", toml.GetLanguage(), tomlHighlightQuery)
}

// TreeSitterYAML returns the grammar used for YAML files.
func TreeSitterYAML() (*TreeSitter, error) {
	return NewTreeSitter("YAML", yaml.GetLanguage(), yamlHighlightQuery)
}

// TreeSitterBash returns the grammar used for shell scripts.
func TreeSitterBash() (*TreeSitter, error) {
	return NewTreeSitter("Bash", bash.GetLanguage(), bashHighlightQuery)
}

// HighlightDocument implements DocumentGrammar.
func (t *TreeSitter) HighlightDocument(lines []string) [][]annotated.Annotation {
	out := make([][]annotated.Annotation, len(lines))
	if len(lines) == 0 {
		return out
	}
	source := []byte(strings.Join(lines, "\n"))
	parser := sitter.NewParser()
	parser.SetLanguage(t.lang)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		logger.Warn("tree-sitter parse failed", "grammar", t.name, "err", err)
		return out
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(t.query, tree.RootNode())
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind, ok := annotated.ParseKind(t.query.CaptureNameForId(capture.Index))
			if !ok {
				continue
			}
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			for row := int(start.Row); row <= int(end.Row) && row < len(lines); row++ {
				from, to := 0, len(lines[row])
				if row == int(start.Row) {
					from = int(start.Column)
				}
				if row == int(end.Row) {
					to = min(int(end.Column), to)
				}
				if from < to {
					out[row] = append(out[row], annotated.Annotation{Kind: kind, Start: from, End: to})
				}
			}
		}
	}
	for _, anns := range out {
		sortByPriority(anns)
	}
	return out
}

// sortByPriority orders annotations so that the more important kinds come
// last and therefore win where ranges overlap.
func sortByPriority(anns []annotated.Annotation) {
	sort.SliceStable(anns, func(i, j int) bool {
		return kindPriority(anns[i].Kind) < kindPriority(anns[j].Kind)
	})
}

func kindPriority(kind annotated.Kind) int {
	switch kind {
	case annotated.KindComment:
		return 7
	case annotated.KindString:
		return 6
	case annotated.KindKeyword:
		return 5
	case annotated.KindConstant, annotated.KindBuiltin:
		return 4
	case annotated.KindType, annotated.KindFunction, annotated.KindNumber:
		return 3
	case annotated.KindField:
		return 2
	case annotated.KindOperator, annotated.KindPunctuation:
		return 1
	default:
		return 0
	}
}

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((escape_sequence) @string)
((int_literal) @number)
((float_literal) @number)
((imaginary_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((iota) @constant)
((identifier) @type (#match? @type "^(bool|byte|rune|string|int|int8|int16|int32|int64|uint|uint8|uint16|uint32|uint64|uintptr|float32|float64|complex64|complex128|error|any|comparable)$"))
((identifier) @builtin (#match? @builtin "^(append|cap|clear|close|complex|copy|delete|imag|len|make|max|min|new|panic|print|println|real|recover)$"))
((const_spec name: (identifier) @constant))
((type_spec name: (type_identifier) @type))
((type_identifier) @type)
((package_identifier) @type)
((type_parameter_declaration (identifier) @type))
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function))
((method_elem (field_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function)))
((selector_expression field: (field_identifier) @field))
((field_identifier) @field)
((parameter_declaration (identifier) @parameter))
((variadic_parameter_declaration (identifier) @parameter))
((label_name) @keyword)
((blank_identifier) @variable)
((identifier) @variable)
[
  "+" "-" "*" "/" "%" "==" "!=" "<=" ">=" "<" ">" "=" ":=" "&&" "||"
  "!" "&" "|" "^" "<<" ">>" "&^" "+=" "-=" "*=" "/=" "%=" "&=" "|="
  "^=" "<<=" ">>=" "&^=" "<-" "++" "--" "..."
] @operator
[
  "." "," ";" ":" "(" ")" "[" "]" "{" "}"
] @punctuation
`

const yamlHighlightQuery = `
((comment) @comment)
((string_scalar) @string)
((double_quote_scalar) @string)
((single_quote_scalar) @string)
((integer_scalar) @number)
((float_scalar) @number)
((null_scalar) @constant)
((boolean_scalar) @constant)
((block_mapping_pair key: (_) @field))
((flow_pair key: (_) @field))
((anchor_name) @keyword)
((alias_name) @keyword)
((tag) @type)
["," ":" "-" "[" "]" "{" "}" ">" "|" "*" "&"] @punctuation
`

const tomlHighlightQuery = `
((comment) @comment)
((string) @string)
((integer) @number)
((float) @number)
((boolean) @constant)
((local_date) @string)
((local_time) @string)
((local_date_time) @string)
((offset_date_time) @string)
((bare_key) @field)
((quoted_key) @field)
((table (bare_key) @type))
((table (quoted_key) @type))
((table (dotted_key) @type))
((table_array_element (bare_key) @type))
((table_array_element (quoted_key) @type))
((table_array_element (dotted_key) @type))
["=" "." "," "[" "]" "[[" "]]" "{" "}"] @punctuation
`

const bashHighlightQuery = `
((comment) @comment)
((string) @string)
((raw_string) @string)
((heredoc_body) @string)
((number) @number)
((variable_name) @variable)
((special_variable_name) @variable)
((command_name) @function)
((function_definition name: (word) @function))
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function" "select" "return" "exit" "break" "continue"
  "local" "export" "readonly" "declare" "typeset" "unset"
] @keyword
["$" "${" "}" "(" ")" "((" "))" "[" "]" "[[" "]]" "{" "}" ";" ";;" "&&" "||" "|" "&" "<" ">" ">>" "<<" "<<<"] @operator
`
