// Package functions holds the history functions behind user commands.
// Every constructor returns a single-use *history.Function; run it through
// a history.Stack so its memento lands on the undo list.
package functions

import (
	"errors"
	"fmt"

	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/history"
)

// Display names and icons of the mementos these functions produce.
const (
	AddNewLayerName     = "Add New Layer"
	DeleteLayerName     = "Delete Layer"
	DuplicateLayerName  = "Duplicate Layer"
	MoveLayerUpName     = "Move Layer Up"
	MoveLayerDownName   = "Move Layer Down"
	SwapLayerName       = "Swap Layers"
	MergeLayerDownName  = "Merge Layer Down"
	LayerPropertiesName = "Layer Properties"
	FillSelectionName   = "Fill Selection"
	EraseSelectionName  = "Erase Selection"
	InvertSelectionName = "Invert Selection"
	DeselectName        = "Deselect"
	SelectAllName       = "Select All"
	SelectRectName      = "Rectangle Select"
	FlipLayerName       = "Flip Layer"
	FlipDocumentName    = "Flip Image"
	RotateName          = "Rotate"
	CropName            = "Crop to Selection"
	FlattenName         = "Flatten"
	ResizeName          = "Resize Image"
	MetadataName        = "Edit Metadata"
	NewImageName        = "New Image"

	AddNewLayerImage     = "layer-add"
	DeleteLayerImage     = "layer-delete"
	DuplicateLayerImage  = "layer-duplicate"
	MoveLayerImage       = "layer-move"
	MergeLayerDownImage  = "layer-merge"
	LayerPropertiesImage = "layer-properties"
	FillSelectionImage   = "edit-fill"
	EraseSelectionImage  = "edit-erase"
	SelectionImage       = "edit-select"
	FlipImage            = "image-flip"
	RotateImage          = "image-rotate"
	CropImage            = "image-crop"
	FlattenImage         = "image-flatten"
	ResizeImage          = "image-resize"
	MetadataImage        = "image-metadata"
	NewImageImage        = "image-new"
)

var (
	// ErrLastLayer is returned when deleting would leave a document with
	// no layers.
	ErrLastLayer = errors.New("cannot delete the only layer")
	// ErrInvalidSize is returned for a resize to a non-positive size.
	ErrInvalidSize = errors.New("image size must be positive")
)

func checkLayer(ws history.Workspace, index int) error {
	if n := ws.Document().Layers().Len(); index < 0 || index >= n {
		return fmt.Errorf("layer %d of %d: %w", index, n, history.ErrLayerIndexOutOfRange)
	}
	return nil
}

// deselectInto runs Deselect as part of the current function and appends
// its memento to c. It must be called inside the critical region.
func deselectInto(run *history.Run, ws history.Workspace, c *history.CompoundMemento) error {
	if ws.Selection().IsEmpty() {
		return nil
	}
	m, err := run.Execute(Deselect(), ws)
	if err != nil {
		return err
	}
	c.PushNewAction(m)
	return nil
}

// replaceDocument deselects and installs doc as the workspace document.
// The returned compound restores the old document, then the selection.
func replaceDocument(run *history.Run, ws history.Workspace, name, image string, doc *document.Document) (*history.CompoundMemento, error) {
	c := history.NewCompoundMemento(name, image)
	run.EnterCriticalRegion()
	if err := deselectInto(run, ws, c); err != nil {
		return c, err
	}
	c.PushNewAction(history.NewReplaceDocumentMemento(name, image, ws))
	ws.SetDocument(doc)
	return c, nil
}
