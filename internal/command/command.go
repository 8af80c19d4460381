// Package command defines the editing commands the view understands and
// the action names a keymap may bind to them.
package command

// Command is one discrete request from the input layer.
type Command interface {
	command()
}

// Move is a caret movement.
type Move uint8

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
	MovePageUp
	MovePageDown
	MoveLineStart
	MoveLineEnd
)

var moveNames = [...]string{
	MoveUp:        "up",
	MoveDown:      "down",
	MoveLeft:      "left",
	MoveRight:     "right",
	MovePageUp:    "page_up",
	MovePageDown:  "page_down",
	MoveLineStart: "line_start",
	MoveLineEnd:   "line_end",
}

func (m Move) String() string {
	if int(m) < len(moveNames) {
		return moveNames[m]
	}
	return "unknown"
}

// InsertChar types Char at the caret.
type InsertChar struct{ Char rune }

// InsertNewline splits the line at the caret.
type InsertNewline struct{}

// DeleteForward removes the grapheme under the caret.
type DeleteForward struct{}

// DeleteBackward removes the grapheme left of the caret.
type DeleteBackward struct{}

// Resize sets the text area size in cells.
type Resize struct{ Width, Height int }

// Save writes the buffer to its file.
type Save struct{}

// SaveAs writes the buffer to Path and adopts it.
type SaveAs struct{ Path string }

// EnterSearch opens a search session.
type EnterSearch struct{}

// SearchQueryChanged searches forward from the caret for Query.
type SearchQueryChanged struct{ Query string }

// SearchNext jumps to the next match.
type SearchNext struct{}

// SearchPrev jumps to the previous match.
type SearchPrev struct{}

// ExitSearch ends the search session and keeps the caret on the match.
type ExitSearch struct{}

// DismissSearch ends the search session and restores the caret.
type DismissSearch struct{}

// Quit asks the app to exit.
type Quit struct{}

func (Move) command()               {}
func (InsertChar) command()         {}
func (InsertNewline) command()      {}
func (DeleteForward) command()      {}
func (DeleteBackward) command()     {}
func (Resize) command()             {}
func (Save) command()               {}
func (SaveAs) command()             {}
func (EnterSearch) command()        {}
func (SearchQueryChanged) command() {}
func (SearchNext) command()         {}
func (SearchPrev) command()         {}
func (ExitSearch) command()         {}
func (DismissSearch) command()      {}
func (Quit) command()               {}

var actions = map[string]Command{
	"move_up":         MoveUp,
	"move_down":       MoveDown,
	"move_left":       MoveLeft,
	"move_right":      MoveRight,
	"page_up":         MovePageUp,
	"page_down":       MovePageDown,
	"line_start":      MoveLineStart,
	"line_end":        MoveLineEnd,
	"insert_newline":  InsertNewline{},
	"insert_tab":      InsertChar{Char: '\t'},
	"delete_forward":  DeleteForward{},
	"delete_backward": DeleteBackward{},
	"save":            Save{},
	"search":          EnterSearch{},
	"search_next":     SearchNext{},
	"search_prev":     SearchPrev{},
	"quit":            Quit{},
}

// FromAction resolves a keymap action name.
func FromAction(name string) (Command, bool) {
	c, ok := actions[name]
	return c, ok
}
