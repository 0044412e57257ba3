package app

import (
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/logger"
)

// subscribe wires workspace events to the status bar and the redraw
// loop. Handlers may run on a background function's goroutine while it
// holds the workspace lock, so they must not take a.mu.
func (a *App) subscribe() {
	m := a.eventManager
	m.Subscribe(event.TypeHistoryChanged, a.handleHistoryChanged)
	m.Subscribe(event.TypeSteppedBackward, a.handleStepped)
	m.Subscribe(event.TypeSteppedForward, a.handleStepped)
	m.Subscribe(event.TypeFinishedStepGroup, a.handleRedraw)
	m.Subscribe(event.TypeHistoryFlushed, a.handleHistoryFlushed)
	m.Subscribe(event.TypeFunctionProgress, a.handleFunctionProgress)

	for _, t := range []event.Type{
		event.TypeLayerInvalidated,
		event.TypeLayerPropertyChanged,
		event.TypeLayersChanged,
		event.TypeDocumentReplaced,
		event.TypeDocumentInvalidated,
		event.TypeSelectionChanged,
		event.TypeMetadataChanged,
	} {
		m.Subscribe(t, a.handleRedraw)
	}
}

// handleHistoryChanged updates the undo and redo counts.
func (a *App) handleHistoryChanged(e event.Event) bool {
	if data, ok := e.Data.(event.HistoryChangedData); ok {
		a.statusBar.SetHistoryInfo(data.UndoCount, data.RedoCount)
	}
	a.requestRedraw()
	return false // Not consumed
}

// handleStepped names the entry that was undone or redone.
func (a *App) handleStepped(e event.Event) bool {
	data, ok := e.Data.(event.HistoryData)
	if !ok {
		logger.Warnf("App: %v event with unexpected data type: %T", e.Type, e.Data)
		return false
	}
	verb := "Redo"
	if e.Type == event.TypeSteppedBackward {
		verb = "Undo"
	}
	a.statusBar.SetTemporaryMessage("%s: %s", verb, data.Name)
	return false
}

func (a *App) handleHistoryFlushed(e event.Event) bool {
	logger.DebugTagf("history", "App: history flushed")
	a.requestRedraw()
	return false
}

// handleFunctionProgress moves the progress gauge.
func (a *App) handleFunctionProgress(e event.Event) bool {
	if data, ok := e.Data.(event.FunctionProgressData); ok {
		a.statusBar.SetProgress(data.Name, data.Percent)
		a.requestRedraw()
	}
	return false
}

func (a *App) handleRedraw(event.Event) bool {
	a.requestRedraw()
	return false
}
