package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Keymap maps key strings such as "ctrl+s" or "pgdn" to action names.
type Keymap map[string]string

type EditorOptions struct {
	DebugLog          bool `toml:"debug-log"`
	MaxHighlightBytes int  `toml:"max-highlight-bytes"`
	QuitTimes         int  `toml:"quit-times"`
}

type Theme struct {
	Theme                   string `toml:"theme"`
	Foreground              string `toml:"foreground"`
	Background              string `toml:"background"`
	StatuslineForeground    string `toml:"statusline-foreground"`
	StatuslineBackground    string `toml:"statusline-background"`
	MessageForeground       string `toml:"message-foreground"`
	MessageBackground       string `toml:"message-background"`
	EmptyLineForeground     string `toml:"empty-line-foreground"`
	SearchMatchForeground   string `toml:"search-foreground"`
	SearchMatchBackground   string `toml:"search-background"`
	SelectedMatchForeground string `toml:"selected-search-foreground"`
	SelectedMatchBackground string `toml:"selected-search-background"`
	SyntaxKeyword           string `toml:"syntax-keyword"`
	SyntaxString            string `toml:"syntax-string"`
	SyntaxComment           string `toml:"syntax-comment"`
	SyntaxType              string `toml:"syntax-type"`
	SyntaxFunction          string `toml:"syntax-function"`
	SyntaxNumber            string `toml:"syntax-number"`
	SyntaxConstant          string `toml:"syntax-constant"`
	SyntaxKnownLiteral      string `toml:"syntax-known-literal"`
	SyntaxChar              string `toml:"syntax-char"`
	SyntaxLifetime          string `toml:"syntax-lifetime"`
	SyntaxOperator          string `toml:"syntax-operator"`
	SyntaxPunctuation       string `toml:"syntax-punctuation"`
	SyntaxField             string `toml:"syntax-field"`
	SyntaxBuiltin           string `toml:"syntax-builtin"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			DebugLog:          false,
			MaxHighlightBytes: 1 << 20,
			QuitTimes:         3,
		},
		Theme: Theme{
			Foreground:              "#B3B1AD",
			Background:              "#0A0E14",
			StatuslineForeground:    "#0A0E14",
			StatuslineBackground:    "#B3B1AD",
			MessageForeground:       "#B3B1AD",
			MessageBackground:       "#0A0E14",
			EmptyLineForeground:     "#3E4B59",
			SearchMatchForeground:   "#000000",
			SearchMatchBackground:   "#D3D3D3",
			SelectedMatchForeground: "#000000",
			SelectedMatchBackground: "#FFD700",
			SyntaxKeyword:           "#FFA759",
			SyntaxString:            "#BAE67E",
			SyntaxComment:           "#5C6773",
			SyntaxType:              "#5CCFE6",
			SyntaxFunction:          "#FFD173",
			SyntaxNumber:            "#D4BFFF",
			SyntaxConstant:          "#FFDD8E",
			SyntaxKnownLiteral:      "#FFDD8E",
			SyntaxChar:              "#BAE67E",
			SyntaxLifetime:          "#F29E74",
			SyntaxOperator:          "#F29668",
			SyntaxPunctuation:       "#C0C0C0",
			SyntaxField:             "#E6B673",
			SyntaxBuiltin:           "#73D0FF",
		},
		Keymap: Keymap{
			"left":      "move_left",
			"right":     "move_right",
			"up":        "move_up",
			"down":      "move_down",
			"home":      "line_start",
			"end":       "line_end",
			"pgup":      "page_up",
			"pgdn":      "page_down",
			"enter":     "insert_newline",
			"tab":       "insert_tab",
			"backspace": "delete_backward",
			"del":       "delete_forward",
			"ctrl+s":    "save",
			"ctrl+f":    "search",
			"ctrl+q":    "quit",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	meta, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, err
	}

	if meta.IsDefined("editor", "debug-log") {
		cfg.Editor.DebugLog = userCfg.Editor.DebugLog
	}
	if meta.IsDefined("editor", "max-highlight-bytes") && userCfg.Editor.MaxHighlightBytes >= 0 {
		cfg.Editor.MaxHighlightBytes = userCfg.Editor.MaxHighlightBytes
	}
	if userCfg.Editor.QuitTimes > 0 {
		cfg.Editor.QuitTimes = userCfg.Editor.QuitTimes
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&dst.Foreground, src.Foreground)
	merge(&dst.Background, src.Background)
	merge(&dst.StatuslineForeground, src.StatuslineForeground)
	merge(&dst.StatuslineBackground, src.StatuslineBackground)
	merge(&dst.MessageForeground, src.MessageForeground)
	merge(&dst.MessageBackground, src.MessageBackground)
	merge(&dst.EmptyLineForeground, src.EmptyLineForeground)
	merge(&dst.SearchMatchForeground, src.SearchMatchForeground)
	merge(&dst.SearchMatchBackground, src.SearchMatchBackground)
	merge(&dst.SelectedMatchForeground, src.SelectedMatchForeground)
	merge(&dst.SelectedMatchBackground, src.SelectedMatchBackground)
	merge(&dst.SyntaxKeyword, src.SyntaxKeyword)
	merge(&dst.SyntaxString, src.SyntaxString)
	merge(&dst.SyntaxComment, src.SyntaxComment)
	merge(&dst.SyntaxType, src.SyntaxType)
	merge(&dst.SyntaxFunction, src.SyntaxFunction)
	merge(&dst.SyntaxNumber, src.SyntaxNumber)
	merge(&dst.SyntaxConstant, src.SyntaxConstant)
	merge(&dst.SyntaxKnownLiteral, src.SyntaxKnownLiteral)
	merge(&dst.SyntaxChar, src.SyntaxChar)
	merge(&dst.SyntaxLifetime, src.SyntaxLifetime)
	merge(&dst.SyntaxOperator, src.SyntaxOperator)
	merge(&dst.SyntaxPunctuation, src.SyntaxPunctuation)
	merge(&dst.SyntaxField, src.SyntaxField)
	merge(&dst.SyntaxBuiltin, src.SyntaxBuiltin)
}

// SyntaxColor returns the foreground configured for an annotation kind name.
func (t Theme) SyntaxColor(kind string) string {
	switch kind {
	case "keyword":
		return t.SyntaxKeyword
	case "string":
		return t.SyntaxString
	case "comment":
		return t.SyntaxComment
	case "type":
		return t.SyntaxType
	case "function":
		return t.SyntaxFunction
	case "number":
		return t.SyntaxNumber
	case "constant":
		return t.SyntaxConstant
	case "known_literal":
		return t.SyntaxKnownLiteral
	case "char":
		return t.SyntaxChar
	case "lifetime":
		return t.SyntaxLifetime
	case "operator":
		return t.SyntaxOperator
	case "punctuation":
		return t.SyntaxPunctuation
	case "field":
		return t.SyntaxField
	case "builtin":
		return t.SyntaxBuiltin
	}
	return ""
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && t != (Theme{}) {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QTEXT_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qtext"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qtext"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
