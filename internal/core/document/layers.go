package document

import (
	"errors"
	"fmt"

	"github.com/bethropolis/easel/internal/event"
)

var (
	ErrIndexOutOfRange = errors.New("layer index out of range")
	ErrSizeMismatch    = errors.New("layer size does not match document")
	ErrLayerAttached   = errors.New("layer already belongs to a document")
)

// LayerList is the ordered layer stack of a document. Index 0 is the bottom.
type LayerList struct {
	doc   *Document
	items []*Layer
}

// Len returns the number of layers.
func (ll *LayerList) Len() int {
	return len(ll.items)
}

// At returns the layer at index, or nil when index is out of range.
func (ll *LayerList) At(index int) *Layer {
	if index < 0 || index >= len(ll.items) {
		return nil
	}
	return ll.items[index]
}

// Items returns a copy of the layer slice.
func (ll *LayerList) Items() []*Layer {
	return append([]*Layer(nil), ll.items...)
}

// IndexOf returns the position of l, or -1.
func (ll *LayerList) IndexOf(l *Layer) int {
	for i, item := range ll.items {
		if item == l {
			return i
		}
	}
	return -1
}

func (ll *LayerList) checkInsertable(l *Layer) error {
	if l == nil {
		return errors.New("nil layer")
	}
	if l.owner != nil {
		return ErrLayerAttached
	}
	if l.Width() != ll.doc.width || l.Height() != ll.doc.height {
		return fmt.Errorf("%w: layer %dx%d, document %dx%d",
			ErrSizeMismatch, l.Width(), l.Height(), ll.doc.width, ll.doc.height)
	}
	return nil
}

// Insert places l at index, shifting later layers up. index may equal Len.
func (ll *LayerList) Insert(index int, l *Layer) error {
	if index < 0 || index > len(ll.items) {
		return fmt.Errorf("insert at %d of %d: %w", index, len(ll.items), ErrIndexOutOfRange)
	}
	if err := ll.checkInsertable(l); err != nil {
		return err
	}
	ll.items = append(ll.items, nil)
	copy(ll.items[index+1:], ll.items[index:])
	ll.items[index] = l
	l.owner = ll.doc
	ll.changed()
	return nil
}

// Add appends l on top of the stack.
func (ll *LayerList) Add(l *Layer) error {
	return ll.Insert(len(ll.items), l)
}

// RemoveAt detaches and returns the layer at index.
func (ll *LayerList) RemoveAt(index int) (*Layer, error) {
	if index < 0 || index >= len(ll.items) {
		return nil, fmt.Errorf("remove at %d of %d: %w", index, len(ll.items), ErrIndexOutOfRange)
	}
	l := ll.items[index]
	ll.items = append(ll.items[:index], ll.items[index+1:]...)
	l.owner = nil
	ll.changed()
	return l, nil
}

// Set replaces the layer at index and returns the detached previous one.
func (ll *LayerList) Set(index int, l *Layer) (*Layer, error) {
	if index < 0 || index >= len(ll.items) {
		return nil, fmt.Errorf("set at %d of %d: %w", index, len(ll.items), ErrIndexOutOfRange)
	}
	if err := ll.checkInsertable(l); err != nil {
		return nil, err
	}
	old := ll.items[index]
	old.owner = nil
	ll.items[index] = l
	l.owner = ll.doc
	ll.changed()
	return old, nil
}

// Swap exchanges the layers at i and j.
func (ll *LayerList) Swap(i, j int) error {
	if i < 0 || i >= len(ll.items) || j < 0 || j >= len(ll.items) {
		return fmt.Errorf("swap %d and %d of %d: %w", i, j, len(ll.items), ErrIndexOutOfRange)
	}
	ll.items[i], ll.items[j] = ll.items[j], ll.items[i]
	ll.changed()
	return nil
}

func (ll *LayerList) changed() {
	ll.doc.dirty = true
	ll.doc.events.Dispatch(event.TypeLayersChanged, event.LayersChangedData{Count: len(ll.items)})
}
