package history

import (
	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/surface"
)

// NewLayerMemento records that a layer was inserted at an index. Undo
// removes it again.
type NewLayerMemento struct {
	base
	ws    Workspace
	index int
}

func NewNewLayerMemento(name, image string, ws Workspace, index int) *NewLayerMemento {
	return &NewLayerMemento{base: newBase(name, image), ws: ws, index: index}
}

func (m *NewLayerMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		layers := m.ws.Document().Layers()
		layer := layers.At(m.index)
		if layer == nil {
			return nil, layerRangeError(m.index, layers.Len())
		}
		redo, err := NewDeleteLayerMemento(m.info.Name, m.info.Image, m.ws, layer)
		if err != nil {
			return nil, err
		}
		if _, err := layers.RemoveAt(m.index); err != nil {
			return nil, err
		}
		ClampActiveLayer(m.ws)
		m.ws.Document().Invalidate()
		return redo, nil
	})
}

// DeleteLayerMemento owns a layer removed from the document and the index
// it was removed from. Undo re-inserts it.
type DeleteLayerMemento struct {
	base
	ws    Workspace
	index int
}

// NewDeleteLayerMemento must be created while layer is still in the document.
func NewDeleteLayerMemento(name, image string, ws Workspace, layer *document.Layer) (*DeleteLayerMemento, error) {
	layers := ws.Document().Layers()
	index := layers.IndexOf(layer)
	if index < 0 {
		return nil, layerRangeError(index, layers.Len())
	}
	m := &DeleteLayerMemento{base: newBase(name, image), ws: ws, index: index}
	m.data = &layerData{layer: layer}
	return m, nil
}

// Index returns the position the layer was removed from.
func (m *DeleteLayerMemento) Index() int { return m.index }

// Layer returns the detached layer, or nil once the memento is consumed.
func (m *DeleteLayerMemento) Layer() *document.Layer {
	if d, ok := m.data.(*layerData); ok {
		return d.layer
	}
	return nil
}

func (m *DeleteLayerMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		layer := m.data.(*layerData).layer
		if err := m.ws.Document().Layers().Insert(m.index, layer); err != nil {
			return nil, err
		}
		layer.Invalidate()
		ClampActiveLayer(m.ws)
		return NewNewLayerMemento(m.info.Name, m.info.Image, m.ws, m.index), nil
	})
}

// SwapLayerMemento records an exchange of two layers.
type SwapLayerMemento struct {
	base
	ws     Workspace
	index1 int
	index2 int
}

func NewSwapLayerMemento(name, image string, ws Workspace, index1, index2 int) (*SwapLayerMemento, error) {
	if err := checkLayerIndices(ws, index1, index2); err != nil {
		return nil, err
	}
	return &SwapLayerMemento{base: newBase(name, image), ws: ws, index1: index1, index2: index2}, nil
}

func checkLayerIndices(ws Workspace, indices ...int) error {
	n := ws.Document().Layers().Len()
	for _, i := range indices {
		if i < 0 || i >= n {
			return layerRangeError(i, n)
		}
	}
	return nil
}

func (m *SwapLayerMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		redo, err := NewSwapLayerMemento(m.info.Name, m.info.Image, m.ws, m.index2, m.index1)
		if err != nil {
			return nil, err
		}
		layers := m.ws.Document().Layers()
		if err := swapLayers(layers, m.index1, m.index2, true); err != nil {
			return nil, err
		}
		layers.At(m.index1).Invalidate()
		layers.At(m.index2).Invalidate()
		return redo, nil
	})
}

// swapLayers exchanges two layers. Adjacent pairs are moved with one
// remove and one insert when fast is set; any other pair is swapped
// directly. Both paths yield the same order.
func swapLayers(layers *document.LayerList, index1, index2 int, fast bool) error {
	if fast && (index1-index2 == 1 || index2-index1 == 1) {
		layer1, err := layers.RemoveAt(index1)
		if err != nil {
			return err
		}
		return layers.Insert(index2, layer1)
	}
	return layers.Swap(index1, index2)
}

// FlipLayerMemento records a mirror of one layer. Flips are their own
// inverse, so undo and redo both flip again.
type FlipLayerMemento struct {
	base
	ws    Workspace
	index int
	axis  surface.FlipAxis
}

func NewFlipLayerMemento(name, image string, ws Workspace, index int, axis surface.FlipAxis) *FlipLayerMemento {
	return &FlipLayerMemento{base: newBase(name, image), ws: ws, index: index, axis: axis}
}

// Axis returns the flip direction.
func (m *FlipLayerMemento) Axis() surface.FlipAxis { return m.axis }

// LayerIndex returns the flipped layer.
func (m *FlipLayerMemento) LayerIndex() int { return m.index }

func (m *FlipLayerMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		layers := m.ws.Document().Layers()
		layer := layers.At(m.index)
		if layer == nil {
			return nil, layerRangeError(m.index, layers.Len())
		}
		redo := NewFlipLayerMemento(m.info.Name, m.info.Image, m.ws, m.index, m.axis)
		layer.Surface().Flip(m.axis)
		layer.Invalidate()
		return redo, nil
	})
}

// LayerPropertyMemento holds a layer's property bag from before a change.
type LayerPropertyMemento struct {
	base
	ws    Workspace
	index int
}

func NewLayerPropertyMemento(name, image string, ws Workspace, index int) (*LayerPropertyMemento, error) {
	layers := ws.Document().Layers()
	layer := layers.At(index)
	if layer == nil {
		return nil, layerRangeError(index, layers.Len())
	}
	m := &LayerPropertyMemento{base: newBase(name, image), ws: ws, index: index}
	m.data = &propertiesData{props: layer.SaveProperties()}
	return m, nil
}

func (m *LayerPropertyMemento) PerformUndo() (Memento, error) {
	return m.perform(func() (Memento, error) {
		redo, err := NewLayerPropertyMemento(m.info.Name, m.info.Image, m.ws, m.index)
		if err != nil {
			return nil, err
		}
		m.ws.Document().Layers().At(m.index).LoadProperties(m.data.(*propertiesData).props)
		return redo, nil
	})
}
