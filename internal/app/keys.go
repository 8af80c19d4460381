package app

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// keyString names a key event the way keymaps spell it, e.g. "ctrl+s",
// "pgdn" or "a". Unnamed keys yield "".
func keyString(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			return "ctrl+" + strings.ToLower(string(r))
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return "alt+" + strings.ToLower(string(r))
		}
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	// Named keys first: KeyTab, KeyEnter and KeyBackspace share codes with
	// ctrl+i, ctrl+m and ctrl+h.
	switch ev.Key() {
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	}
	return ctrlKeyName(ev.Key())
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}

// isText reports whether ev should be typed into the document.
func isText(ev *tcell.EventKey) bool {
	if ev.Key() != tcell.KeyRune {
		return false
	}
	return ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0
}
