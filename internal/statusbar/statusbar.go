// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg" // For proper Unicode width calculation
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style // Default background/foreground
	StyleModified  tcell.Style // Style for the modified indicator
	StyleMessage   tcell.Style // Style for temporary messages
	StyleProgress  tcell.Style // Style while a function is running
	StylePrompt    tcell.Style // Style for the command line
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleModified:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue).Bold(true),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		StyleProgress:  tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen),
		StylePrompt:    tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
		MessageTimeout: 4 * time.Second,
	}
}

// DocumentInfo is the document state shown on the status line.
type DocumentInfo struct {
	Width, Height int
	Layers        int
	ActiveIndex   int
	ActiveName    string
	Modified      bool
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex // Protect access to text fields

	doc       DocumentInfo
	undoCount int
	redoCount int

	// Progress of a running function; empty name when idle.
	progressName    string
	progressPercent float64

	// Command line; shown above everything else while active.
	prompt       string
	promptActive bool

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
	}
}

// SetConfig replaces the styles and timeout, e.g. after a theme change.
func (sb *StatusBar) SetConfig(config Config) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.config = config
}

// SetPrompt shows text as the command line until ClearPrompt.
func (sb *StatusBar) SetPrompt(text string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.prompt = text
	sb.promptActive = true
}

// ClearPrompt hides the command line.
func (sb *StatusBar) ClearPrompt() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.prompt = ""
	sb.promptActive = false
}

// SetDocumentInfo updates the document summary.
func (sb *StatusBar) SetDocumentInfo(info DocumentInfo) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.doc = info
}

// SetHistoryInfo updates the undo and redo depths.
func (sb *StatusBar) SetHistoryInfo(undo, redo int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.undoCount = undo
	sb.redoCount = redo
}

// SetProgress shows a progress gauge for the named function.
func (sb *StatusBar) SetProgress(name string, percent float64) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.progressName = name
	sb.progressPercent = percent
}

// ClearProgress hides the progress gauge.
func (sb *StatusBar) ClearProgress() {
	sb.SetProgress("", 0)
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = time.Now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// MessageRemaining reports how long the temporary message stays up, or
// false when none is shown.
func (sb *StatusBar) MessageRemaining() (time.Duration, bool) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	if sb.tempMessageTime.IsZero() {
		return 0, false
	}
	left := sb.config.MessageTimeout - time.Since(sb.tempMessageTime)
	return left, left > 0
}

// Text returns what Draw would show, without styling.
func (sb *StatusBar) Text() string {
	text, _ := sb.current()
	return text
}

// getDefaultDisplayText builds the default status line text. The caller
// holds the lock.
func (sb *StatusBar) getDefaultDisplayText() string {
	modifiedIndicator := ""
	if sb.doc.Modified {
		modifiedIndicator = " [Modified]"
	}
	active := "-"
	if sb.doc.ActiveIndex >= 0 {
		active = fmt.Sprintf("%d:%s", sb.doc.ActiveIndex+1, sb.doc.ActiveName)
	}
	return fmt.Sprintf("%dx%d%s -- Layer %s of %d -- Undo: %d, Redo: %d",
		sb.doc.Width, sb.doc.Height, modifiedIndicator, active, sb.doc.Layers, sb.undoCount, sb.redoCount)
}

// current picks the text and style to show, expiring old messages.
func (sb *StatusBar) current() (string, tcell.Style) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	isTempMsgActive := !sb.tempMessageTime.IsZero() && time.Since(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	switch {
	case sb.promptActive:
		return sb.prompt, sb.config.StylePrompt
	case sb.progressName != "":
		return fmt.Sprintf("%s... %3.0f%% (Esc to cancel)", sb.progressName, sb.progressPercent), sb.config.StyleProgress
	case isTempMsgActive:
		return sb.tempMessage, sb.config.StyleMessage
	case sb.doc.Modified:
		return sb.getDefaultDisplayText(), sb.config.StyleModified
	default:
		return sb.getDefaultDisplayText(), sb.config.StyleDefault
	}
}

// Draw renders the status bar onto the last screen line using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	text, style := sb.current()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break // Stop if cluster doesn't fit
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			var combiningRunes []rune
			if len(runes) > 1 {
				combiningRunes = runes[1:]
			}
			screen.SetContent(currentX, y, runes[0], combiningRunes, style)
		}
		currentX += clusterWidth
	}
}
