package history

import (
	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/selection"
	"github.com/bethropolis/easel/internal/core/snapshot"
)

// Workspace is the live state that history functions mutate and mementos
// restore: the document, its selection and the active layer. Snapshots is
// the scratch store used for bitmap mementos; it outlives any single
// document and is closed with the workspace.
type Workspace interface {
	Document() *document.Document
	SetDocument(doc *document.Document)
	Selection() *selection.Selection
	ActiveLayerIndex() int
	SetActiveLayerIndex(index int)
	ActiveLayer() *document.Layer
	Snapshots() *snapshot.Store
}

// ClampActiveLayer keeps the active layer index valid after the layer
// count changed.
func ClampActiveLayer(ws Workspace) {
	n := ws.Document().Layers().Len()
	switch i := ws.ActiveLayerIndex(); {
	case n == 0:
		ws.SetActiveLayerIndex(-1)
	case i >= n:
		ws.SetActiveLayerIndex(n - 1)
	case i < 0:
		ws.SetActiveLayerIndex(0)
	}
}
