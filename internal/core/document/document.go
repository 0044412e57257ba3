// Package document holds the layered raster document that history
// functions mutate.
package document

import (
	"image"

	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/event"
)

// Document is a fixed-size stack of layers plus metadata.
type Document struct {
	width, height int
	layers        *LayerList
	metadata      *Metadata
	dirty         bool
	events        *event.Manager
}

// New creates an empty document with no layers.
func New(width, height int) *Document {
	d := &Document{
		width:    max(width, 1),
		height:   max(height, 1),
		metadata: NewMetadata(),
	}
	d.layers = &LayerList{doc: d}
	return d
}

// NewWithBackground creates a document holding a single white background layer.
func NewWithBackground(width, height int) *Document {
	d := New(width, height)
	_ = d.layers.Add(NewBackgroundLayer(d.width, d.height))
	d.dirty = false
	return d
}

func (d *Document) Width() int  { return d.width }
func (d *Document) Height() int { return d.height }

// Size returns the dimensions as a point.
func (d *Document) Size() image.Point { return image.Pt(d.width, d.height) }

// Bounds returns the rectangle (0, 0, width, height).
func (d *Document) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.width, d.height)
}

// Layers returns the live layer stack.
func (d *Document) Layers() *LayerList { return d.layers }

// Metadata returns the live metadata set.
func (d *Document) Metadata() *Metadata { return d.metadata }

// ReplaceMetadataFrom copies other's metadata over this document's.
func (d *Document) ReplaceMetadataFrom(other *Document) {
	d.metadata.ReplaceWith(other.metadata)
	d.dirty = true
	d.events.Dispatch(event.TypeMetadataChanged, nil)
}

// SetEventManager routes invalidation and change notifications to m.
// A nil manager silences them.
func (d *Document) SetEventManager(m *event.Manager) { d.events = m }

// Events returns the current event manager, which may be nil.
func (d *Document) Events() *event.Manager { return d.events }

// Dirty reports whether the document changed since SetDirty(false).
func (d *Document) Dirty() bool { return d.dirty }

// SetDirty sets the modified flag.
func (d *Document) SetDirty(dirty bool) { d.dirty = dirty }

// Invalidate requests a redraw of the whole document.
func (d *Document) Invalidate() {
	d.dirty = true
	d.events.Dispatch(event.TypeDocumentInvalidated, nil)
}

// Render composites every visible layer, bottom to top, onto a new
// transparent surface.
func (d *Document) Render() *surface.Surface {
	out := surface.New(d.width, d.height)
	for _, l := range d.layers.items {
		l.Render(out)
	}
	return out
}

// Clone returns a detached deep copy without an event manager.
func (d *Document) Clone() *Document {
	c := New(d.width, d.height)
	c.metadata = d.metadata.Clone()
	for _, l := range d.layers.items {
		cl := l.Clone()
		cl.owner = c
		c.layers.items = append(c.layers.items, cl)
	}
	c.dirty = d.dirty
	return c
}

// Derive returns an empty document of the given size carrying a copy of
// d's metadata. Whole-document transforms fill it with new layers.
func (d *Document) Derive(width, height int) *Document {
	c := New(width, height)
	c.metadata = d.metadata.Clone()
	return c
}

// Flatten returns a new document whose single background layer holds the
// composite of every visible layer.
func (d *Document) Flatten() *Document {
	flat := d.Derive(d.width, d.height)
	bg := NewBackgroundLayer(d.width, d.height)
	bg.surface.Clear(surface.Transparent)
	for _, l := range d.layers.items {
		l.Render(bg.surface)
	}
	_ = flat.layers.Add(bg)
	flat.dirty = true
	return flat
}
