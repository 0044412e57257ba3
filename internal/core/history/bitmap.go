package history

import (
	"fmt"

	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/snapshot"
	"github.com/bethropolis/easel/internal/core/surface"
)

// BitmapMemento saves the pixels of one layer inside a region so a local
// edit (fill, erase, paint, merge) can be undone. The pixels go through
// the workspace's snapshot store, which keeps small regions in memory and
// spills large ones to a scratch file.
type BitmapMemento struct {
	base
	ws    Workspace
	index int
}

// NewBitmapMemento saves rg of the layer at index. Call it before the
// layer is modified.
func NewBitmapMemento(name, image string, ws Workspace, index int, rg region.Region) (*BitmapMemento, error) {
	layers := ws.Document().Layers()
	layer := layers.At(index)
	if layer == nil {
		return nil, layerRangeError(index, layers.Len())
	}
	return NewBitmapMementoFrom(name, image, ws, index, rg, layer.Surface())
}

// NewBitmapMementoFrom saves rg of source as the "before" pixels of the
// layer at index. Callers that already drew into the layer but kept an
// untouched copy pass that copy as source.
func NewBitmapMementoFrom(name, image string, ws Workspace, index int, rg region.Region, source *surface.Surface) (*BitmapMemento, error) {
	h, err := ws.Snapshots().Save(source, rg)
	if err != nil {
		return nil, fmt.Errorf("save layer %d pixels: %w", index, err)
	}
	return NewBitmapMementoWithHandle(name, image, ws, index, h), nil
}

// NewBitmapMementoWithHandle takes ownership of pixels saved earlier.
func NewBitmapMementoWithHandle(name, image string, ws Workspace, index int, h *snapshot.Handle) *BitmapMemento {
	m := &BitmapMemento{base: newBase(name, image), ws: ws, index: index}
	m.data = &bitmapData{handle: h}
	return m
}

// Region returns the saved area, or the empty region once consumed.
func (m *BitmapMemento) Region() region.Region {
	if d, ok := m.data.(*bitmapData); ok && d.handle != nil {
		return d.handle.Region()
	}
	return region.Region{}
}

// Handle exposes the saved pixels, or nil once consumed.
func (m *BitmapMemento) Handle() *snapshot.Handle {
	if d, ok := m.data.(*bitmapData); ok {
		return d.handle
	}
	return nil
}

// PerformUndo captures the current pixels as the redo memento before
// writing the saved ones back.
func (m *BitmapMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		h := m.data.(*bitmapData).handle
		layers := m.ws.Document().Layers()
		layer := layers.At(m.index)
		if layer == nil {
			return nil, layerRangeError(m.index, layers.Len())
		}
		rg := h.Region()
		redo, err := NewBitmapMemento(m.info.Name, m.info.Image, m.ws, m.index, rg)
		if err != nil {
			return nil, err
		}
		if err := h.Restore(layer.Surface()); err != nil {
			redo.Flush()
			return nil, err
		}
		layer.InvalidateRegion(rg)
		return redo, nil
	})
}
