package app

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qtext/internal/annotated"
	"github.com/kobzarvs/qtext/internal/config"
)

type styles struct {
	main      tcell.Style
	status    tcell.Style
	message   tcell.Style
	emptyLine tcell.Style
	match     tcell.Style
	selected  tcell.Style
	syntax    map[annotated.Kind]tcell.Style
}

func newStyles(t config.Theme) styles {
	mainFg := parseColor(t.Foreground, tcell.ColorDefault)
	mainBg := parseColor(t.Background, tcell.ColorDefault)
	main := tcell.StyleDefault.Foreground(mainFg).Background(mainBg)
	st := styles{
		main: main,
		status: tcell.StyleDefault.
			Foreground(parseColor(t.StatuslineForeground, mainBg)).
			Background(parseColor(t.StatuslineBackground, mainFg)),
		message: tcell.StyleDefault.
			Foreground(parseColor(t.MessageForeground, mainFg)).
			Background(parseColor(t.MessageBackground, mainBg)),
		emptyLine: main.Foreground(parseColor(t.EmptyLineForeground, mainFg)),
		match: tcell.StyleDefault.
			Foreground(parseColor(t.SearchMatchForeground, mainBg)).
			Background(parseColor(t.SearchMatchBackground, mainFg)),
		selected: tcell.StyleDefault.
			Foreground(parseColor(t.SelectedMatchForeground, mainBg)).
			Background(parseColor(t.SelectedMatchBackground, mainFg)),
		syntax: make(map[annotated.Kind]tcell.Style),
	}
	for k := annotated.KindNumber; k <= annotated.KindBuiltin; k++ {
		st.syntax[k] = main.Foreground(parseColor(t.SyntaxColor(k.String()), mainFg))
	}
	return st
}

func (st styles) forKind(k annotated.Kind) tcell.Style {
	switch k {
	case annotated.KindNone:
		return st.main
	case annotated.KindMatch:
		return st.match
	case annotated.KindSelectedMatch:
		return st.selected
	}
	if s, ok := st.syntax[k]; ok {
		return s
	}
	return st.main
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
