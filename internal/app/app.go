// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/bethropolis/easel/internal/commands"
	"github.com/bethropolis/easel/internal/config"
	"github.com/bethropolis/easel/internal/core/clipboard"
	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/workspace"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/modehandler"
	"github.com/bethropolis/easel/internal/statusbar"
	"github.com/bethropolis/easel/internal/theme"
	"github.com/bethropolis/easel/internal/tui"
	"github.com/bethropolis/easel/internal/utils"
)

// App encapsulates the core components and main loop of the editor.
type App struct {
	cfg            *config.Config
	tuiManager     *tui.TUI
	inputProcessor *input.InputProcessor
	statusBar      *statusbar.StatusBar
	eventManager   *event.Manager
	clipboard      *clipboard.Manager
	themeManager   *theme.Manager
	modeHandler    *modehandler.ModeHandler

	// viewMu guards the themed drawing settings.
	viewMu       sync.Mutex
	canvas       tui.Canvas
	historyPanel tui.HistoryPanel

	// mu guards ws. A background function holds it until it finishes.
	mu sync.Mutex
	ws *workspace.Workspace

	// Repeats of one in-place action share a series, guarded by mu.
	series       uuid.UUID
	seriesAction input.Action

	runMu   sync.Mutex
	running *history.Function
	cancel  context.CancelFunc

	showHistory   bool
	fillCount     int
	messageExpiry utils.Debouncer

	// Channels managed by the App
	quit          chan struct{}
	quitOnce      sync.Once
	redrawRequest chan struct{}
}

// NewApp creates the application around a blank document sized from cfg.
// A nil screen opens the terminal.
func NewApp(cfg *config.Config, screen tcell.Screen) (*App, error) {
	var (
		tuiManager *tui.TUI
		err        error
	)
	if screen == nil {
		tuiManager, err = tui.New()
	} else {
		tuiManager, err = tui.NewWithScreen(screen)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	eventManager := event.NewManager()
	doc := document.NewWithBackground(cfg.Document.Width, cfg.Document.Height)
	ws, err := workspace.Open(doc, eventManager, workspace.Options{
		MaxDepth:       cfg.History.MaxDepth,
		SpillThreshold: cfg.History.SpillThreshold,
		TempDir:        cfg.History.TempDir,
	})
	if err != nil {
		tuiManager.Close()
		return nil, fmt.Errorf("workspace initialization failed: %w", err)
	}

	// Custom themes are optional; a bad themes dir is only logged.
	themeManager, _ := theme.NewManager(cfg.ThemesDir())
	if err := themeManager.SetTheme(cfg.View.Theme); err != nil {
		logger.Warnf("App: %v, using '%s'", err, themeManager.Current().Name)
	}

	a := &App{
		cfg:            cfg,
		tuiManager:     tuiManager,
		inputProcessor: input.NewInputProcessor(),
		statusBar:      statusbar.New(statusbar.DefaultConfig()),
		eventManager:   eventManager,
		clipboard:      clipboard.NewManager(cfg.View.SystemClipboard),
		themeManager:   themeManager,
		ws:             ws,
		showHistory:    cfg.View.ShowHistory,
		quit:           make(chan struct{}),
		redrawRequest:  make(chan struct{}, 1),
	}
	a.applyTheme(themeManager.Current())
	a.modeHandler = modehandler.New(modehandler.Config{
		InputProcessor: a.inputProcessor,
		EventManager:   eventManager,
		StatusBar:      a.statusBar,
		Normal:         a.HandleAction,
	})
	commands.RegisterAppCommands(a.modeHandler, a)

	a.subscribe()
	a.updateStatusBarContent()
	return a, nil
}

// Run starts the application's main event and drawing loops. It returns
// after a quit action, once the workspace is closed.
func (a *App) Run() error {
	defer a.tuiManager.Close()

	go a.eventLoop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("%s %s - u Undo | r Redo | Tab History | :help Commands | q Quit", config.AppName, config.AppVersion)
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			return a.Close()
		case <-a.redrawRequest:
			a.draw()
		}
	}
}

// Close waits for a running function and releases the workspace.
func (a *App) Close() error {
	a.messageExpiry.Stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ws == nil {
		return nil
	}
	err := a.ws.Close()
	a.ws = nil
	logger.Infof("App: closed")
	return err
}

// eventLoop handles TUI events until the screen is finalized.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false
		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.tuiManager.Sync()
			needsRedraw = true
		case *tcell.EventKey:
			needsRedraw = a.modeHandler.HandleKeyEvent(eventData)
		}

		if needsRedraw {
			a.requestRedraw()
		}
	}
}

// requestQuit closes the quit channel once.
func (a *App) requestQuit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // A redraw is already pending
	}
}
