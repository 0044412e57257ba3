// internal/modehandler/modehandler.go
package modehandler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/statusbar"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
)

// CommandFunc runs a ':' command with its whitespace-separated arguments.
type CommandFunc func(args []string) error

// ModeHandler routes key events to the normal-mode action handler or the
// command line.
type ModeHandler struct {
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	normal         func(input.ActionEvent) bool

	currentMode InputMode
	cmdBuffer   []rune
	commands    map[string]CommandFunc
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
	// Normal handles actions outside command mode and reports whether the
	// screen needs a redraw.
	Normal func(input.ActionEvent) bool
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.InputProcessor == nil || cfg.EventManager == nil || cfg.StatusBar == nil || cfg.Normal == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	return &ModeHandler{
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		normal:         cfg.Normal,
		currentMode:    ModeNormal,
		commands:       make(map[string]CommandFunc),
	}
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	switch mh.currentMode {
	case ModeCommand:
		return mh.handleKeyCommand(ev)
	default:
		actionEvent := mh.inputProcessor.ProcessEvent(ev)
		if actionEvent.Action == input.ActionEnterCommandMode {
			mh.enterCommandMode()
			return true
		}
		return mh.normal(actionEvent)
	}
}

func (mh *ModeHandler) enterCommandMode() {
	mh.currentMode = ModeCommand
	mh.cmdBuffer = mh.cmdBuffer[:0]
	mh.statusBar.SetPrompt(":")
	logger.DebugTagf("mode", "ModeHandler: Entering Command Mode")
}

func (mh *ModeHandler) exitCommandMode() {
	mh.currentMode = ModeNormal
	mh.cmdBuffer = mh.cmdBuffer[:0]
	mh.statusBar.ClearPrompt()
}

// handleKeyCommand edits the command line. Keys go straight to the buffer,
// bypassing the normal-mode keymap.
func (mh *ModeHandler) handleKeyCommand(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEnter:
		line := string(mh.cmdBuffer)
		mh.exitCommandMode()
		mh.Execute(line)

	case tcell.KeyEscape, tcell.KeyCtrlC:
		mh.exitCommandMode()
		logger.DebugTagf("mode", "ModeHandler: Canceled Command Mode")

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(mh.cmdBuffer) == 0 {
			mh.exitCommandMode()
			return true
		}
		mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-1]

	case tcell.KeyCtrlU:
		mh.cmdBuffer = mh.cmdBuffer[:0]

	case tcell.KeyRune:
		mh.cmdBuffer = append(mh.cmdBuffer, ev.Rune())

	default:
		return false
	}

	if mh.currentMode == ModeCommand {
		mh.statusBar.SetPrompt(":" + string(mh.cmdBuffer))
	}
	return true
}

// Execute parses and runs a command line such as "resize 32 16".
// Failures are reported on the status bar.
func (mh *ModeHandler) Execute(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	cmdName, args := parts[0], parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return
	}

	logger.DebugTagf("mode", "ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	err := cmdFunc(args)
	if err != nil {
		mh.statusBar.SetTemporaryMessage("Error executing command '%s': %v", cmdName, err)
	}
	mh.eventManager.Dispatch(event.TypeCommandExecuted, event.CommandExecutedData{Name: cmdName, Args: args, Err: err})
}

// RegisterCommand adds a command to the registry.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc CommandFunc) error {
	if name == "" || strings.ContainsAny(name, " \t") {
		return fmt.Errorf("invalid command name %q", name)
	}
	if cmdFunc == nil {
		return errors.New("command function cannot be nil")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.DebugTagf("mode", "ModeHandler: Registered command ':%s'", name)
	return nil
}

// Commands returns the registered command names, sorted.
func (mh *ModeHandler) Commands() []string {
	names := make([]string, 0, len(mh.commands))
	for name := range mh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCommandBuffer returns the command line being typed, or "" outside
// command mode.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return string(mh.cmdBuffer)
	}
	return ""
}
