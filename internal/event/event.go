// internal/event/event.go
package event

import (
	"image"

	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// Document events
	TypeLayerInvalidated     // Pixels of a layer changed and need a redraw
	TypeLayerPropertyChanged // Name, opacity, blend mode or visibility changed
	TypeLayersChanged        // Layer inserted, removed or reordered
	TypeDocumentReplaced     // The workspace switched to another document
	TypeDocumentInvalidated  // The whole document needs a redraw
	TypeMetadataChanged      // Document metadata was replaced

	// Selection events
	TypeSelectionChanging
	TypeSelectionChanged

	// History events
	TypeHistoryChanging
	TypeHistoryChanged
	TypeNewMemento
	TypeSteppedBackward
	TypeSteppedForward
	TypeHistoryFlushed
	TypeFinishedStepGroup
	TypeFunctionProgress

	// Input events
	TypeKeyPressed
	TypeCommandExecuted // A ':' command ran

	// Application lifecycle events
	TypeAppReady
	TypeAppQuit
)

var typeNames = map[Type]string{
	TypeLayerInvalidated:     "LayerInvalidated",
	TypeLayerPropertyChanged: "LayerPropertyChanged",
	TypeLayersChanged:        "LayersChanged",
	TypeDocumentReplaced:     "DocumentReplaced",
	TypeDocumentInvalidated:  "DocumentInvalidated",
	TypeMetadataChanged:      "MetadataChanged",
	TypeSelectionChanging:    "SelectionChanging",
	TypeSelectionChanged:     "SelectionChanged",
	TypeHistoryChanging:      "HistoryChanging",
	TypeHistoryChanged:       "HistoryChanged",
	TypeNewMemento:           "NewMemento",
	TypeSteppedBackward:      "SteppedBackward",
	TypeSteppedForward:       "SteppedForward",
	TypeHistoryFlushed:       "HistoryFlushed",
	TypeFinishedStepGroup:    "FinishedStepGroup",
	TypeFunctionProgress:     "FunctionProgress",
	TypeKeyPressed:           "KeyPressed",
	TypeCommandExecuted:      "CommandExecuted",
	TypeAppReady:             "AppReady",
	TypeAppQuit:              "AppQuit",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// LayerInvalidatedData names the layer index and the dirty area.
type LayerInvalidatedData struct {
	Index int
	Rect  image.Rectangle
}

// LayerPropertyChangedData identifies the layer whose properties changed.
type LayerPropertyChangedData struct {
	Index int
	Name  string
}

// LayersChangedData carries the new layer count.
type LayersChangedData struct {
	Count int
}

// DocumentReplacedData carries the size of the new document.
type DocumentReplacedData struct {
	Width, Height int
	Layers        int
}

// SelectionChangedData describes the selection after a change.
type SelectionChangedData struct {
	Bounds image.Rectangle
	Empty  bool
}

// HistoryData describes one history entry involved in a stack operation.
type HistoryData struct {
	ID   int64
	Name string
}

// HistoryChangedData carries the stack depths after a change.
type HistoryChangedData struct {
	UndoCount int
	RedoCount int
}

// FunctionProgressData reports how far a running history function got.
type FunctionProgressData struct {
	Name    string
	Percent float64
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// CommandExecutedData reports a command line that was run. Err is nil on
// success.
type CommandExecutedData struct {
	Name string
	Args []string
	Err  error
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
