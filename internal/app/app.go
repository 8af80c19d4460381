package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qtext/internal/config"
	"github.com/kobzarvs/qtext/internal/logger"
)

// App is the top-level runtime for qtext.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Editor.DebugLog); err != nil {
		return err
	}
	defer logger.Close()

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ed := newEditor(cfg, langs)
	if len(a.args) > 0 {
		ed.open(a.args[0])
	}
	logger.Info("qtext started", "args", a.args)
	return ed.run(s)
}
