package history

import (
	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/selection"
	"github.com/bethropolis/easel/internal/core/snapshot"
)

// layerData holds a detached layer by value.
type layerData struct {
	layer *document.Layer
}

func (d *layerData) Dispose() { d.layer = nil }

// documentData holds a whole document that is not the live one.
type documentData struct {
	doc *document.Document
}

func (d *documentData) Dispose() { d.doc = nil }

type selectionData struct {
	state selection.State
}

func (d *selectionData) Dispose() { d.state = selection.State{} }

type propertiesData struct {
	props document.Properties
}

func (d *propertiesData) Dispose() { d.props = document.Properties{} }

// bitmapData owns a saved pixel region, in memory or in a scratch file.
type bitmapData struct {
	handle *snapshot.Handle
}

func (d *bitmapData) Dispose() {
	if d.handle != nil {
		d.handle.Dispose()
		d.handle = nil
	}
}
