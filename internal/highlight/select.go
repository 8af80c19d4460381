package highlight

import (
	"strings"

	"github.com/kobzarvs/qtext/internal/logger"
)

// ForFileType picks a highlighter for a detected file type name. Unknown
// types get a highlighter that annotates nothing.
func ForFileType(fileType string) *Highlighter {
	var (
		ts  *TreeSitter
		err error
	)
	switch strings.ToLower(fileType) {
	case "rust":
		return New(Rust{})
	case "go":
		ts, err = TreeSitterGo()
	case "toml":
		ts, err = TreeSitterTOML()
	case "yaml":
		ts, err = TreeSitterYAML()
	case "bash":
		ts, err = TreeSitterBash()
	case "", "text":
		return New(nil)
	default:
		if c, ok := ChromaForName(fileType); ok {
			return NewDocument(c)
		}
		return New(nil)
	}
	if err != nil {
		logger.Warn("highlight query failed", "type", fileType, "err", err)
		return New(nil)
	}
	return NewDocument(ts)
}
