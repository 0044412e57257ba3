package app

import (
	"errors"
	"fmt"

	"github.com/bethropolis/easel/internal/commands"
	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/input"
)

var _ commands.API = (*App)(nil)

// busy fails while a background function holds the workspace.
func (a *App) busy() error {
	if fn := a.Running(); fn != nil {
		return fmt.Errorf("%s is running", fn.Name())
	}
	return nil
}

// Execute runs fn in place. Its outcome is reported on the status bar.
func (a *App) Execute(fn *history.Function) error {
	if err := a.busy(); err != nil {
		return err
	}
	a.execute(input.ActionUnknown, fn)
	return nil
}

// Start runs fn in the background.
func (a *App) Start(fn *history.Function) error {
	if err := a.busy(); err != nil {
		return err
	}
	a.start(fn)
	return nil
}

// Undo steps back up to n times as one step group.
func (a *App) Undo(n int) (int, error) {
	return a.steps(n, (*history.Stack).StepBackward, history.ErrNothingToUndo)
}

// Redo replays up to n undone steps as one step group.
func (a *App) Redo(n int) (int, error) {
	return a.steps(n, (*history.Stack).StepForward, history.ErrNothingToRedo)
}

func (a *App) steps(n int, step func(*history.Stack) error, exhausted error) (int, error) {
	if err := a.busy(); err != nil {
		return 0, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.endSeries()
	stack := a.ws.History()
	stack.BeginStepGroup()
	defer stack.EndStepGroup()

	done := 0
	for ; done < n; done++ {
		err := step(stack)
		if errors.Is(err, exhausted) {
			break
		}
		if err != nil {
			return done, err
		}
	}
	return done, nil
}

// ActiveLayer returns the active layer's index and properties.
func (a *App) ActiveLayer() (int, document.Properties, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	l := a.ws.ActiveLayer()
	if l == nil {
		return -1, document.Properties{}, false
	}
	return a.ws.ActiveLayerIndex(), l.SaveProperties(), true
}

func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
}

func (a *App) Quit() { a.requestQuit() }

// SetTheme switches the theme and restyles the screen.
func (a *App) SetTheme(name string) error {
	if err := a.themeManager.SetTheme(name); err != nil {
		return err
	}
	a.applyTheme(a.themeManager.Current())
	a.requestRedraw()
	return nil
}

func (a *App) CurrentTheme() string { return a.themeManager.Current().Name }

func (a *App) ListThemes() []string { return a.themeManager.ListThemes() }
