package history

import (
	"github.com/bethropolis/easel/internal/core/document"
)

// ReplaceDocumentMemento owns the document that was live before a whole
// document replacement (flatten, crop, rotate, resize). Undo swaps it back.
type ReplaceDocumentMemento struct {
	base
	ws Workspace
}

// NewReplaceDocumentMemento captures the current document. Create it
// before calling SetDocument.
func NewReplaceDocumentMemento(name, image string, ws Workspace) *ReplaceDocumentMemento {
	m := &ReplaceDocumentMemento{base: newBase(name, image), ws: ws}
	m.data = &documentData{doc: ws.Document()}
	return m
}

func (m *ReplaceDocumentMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		redo := NewReplaceDocumentMemento(m.info.Name, m.info.Image, m.ws)
		m.ws.SetDocument(m.data.(*documentData).doc)
		return redo, nil
	})
}

// MetadataMemento keeps a copy of the document metadata in a 1x1 shell
// document. Pixel data is never touched.
type MetadataMemento struct {
	base
	ws Workspace
}

func NewMetadataMemento(name, image string, ws Workspace) *MetadataMemento {
	shell := document.New(1, 1)
	shell.ReplaceMetadataFrom(ws.Document())
	m := &MetadataMemento{base: newBase(name, image), ws: ws}
	m.data = &documentData{doc: shell}
	return m
}

func (m *MetadataMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		redo := NewMetadataMemento(m.info.Name, m.info.Image, m.ws)
		m.ws.Document().ReplaceMetadataFrom(m.data.(*documentData).doc)
		return redo, nil
	})
}

// SelectionMemento holds a saved selection state.
type SelectionMemento struct {
	base
	ws Workspace
}

func NewSelectionMemento(name, image string, ws Workspace) *SelectionMemento {
	m := &SelectionMemento{base: newBase(name, image), ws: ws}
	m.data = &selectionData{state: ws.Selection().Save()}
	return m
}

func (m *SelectionMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		redo := NewSelectionMemento(m.info.Name, m.info.Image, m.ws)
		m.ws.Selection().Restore(m.data.(*selectionData).state)
		return redo, nil
	})
}
