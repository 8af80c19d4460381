package buffer

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/kobzarvs/qtext/internal/config"
)

const (
	noName    = "[No Name]"
	plainText = "Text"
)

var builtinTypes = map[string]string{
	"rs":   "Rust",
	"go":   "Go",
	"toml": "TOML",
	"yaml": "YAML",
	"yml":  "YAML",
	"sh":   "Bash",
	"bash": "Bash",
}

// FileInfo identifies the file behind a buffer.
type FileInfo struct {
	Path string
	Type string
}

// DetectFileInfo derives the file type from path: built-in extensions
// first, then languages.toml, then any chroma lexer claiming the name.
func DetectFileInfo(path string, langs config.Languages) FileInfo {
	info := FileInfo{Path: path, Type: plainText}
	if path == "" {
		return info
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if t, ok := builtinTypes[ext]; ok {
		info.Type = t
		return info
	}
	if lang := langs.Match(path); lang != nil {
		info.Type = lang.Name
		return info
	}
	if lexer := lexers.Match(filepath.Base(path)); lexer != nil && !strings.EqualFold(lexer.Config().Name, "plaintext") {
		info.Type = lexer.Config().Name
	}
	return info
}

// HasPath reports whether the buffer is backed by a file.
func (f FileInfo) HasPath() bool {
	return f.Path != ""
}

// Name is the base name shown to the user.
func (f FileInfo) Name() string {
	if f.Path == "" {
		return noName
	}
	return filepath.Base(f.Path)
}
