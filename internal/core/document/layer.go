package document

import (
	"image"
	"maps"

	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/event"
)

// Properties is the non-pixel state of a layer.
type Properties struct {
	Name         string
	Visible      bool
	IsBackground bool
	Opacity      uint8
	BlendMode    surface.BlendMode
	UserMetadata map[string]string
}

// Clone returns a deep copy.
func (p Properties) Clone() Properties {
	p.UserMetadata = maps.Clone(p.UserMetadata)
	return p
}

// Equal compares every field, including user metadata.
func (p Properties) Equal(o Properties) bool {
	return p.Name == o.Name &&
		p.Visible == o.Visible &&
		p.IsBackground == o.IsBackground &&
		p.Opacity == o.Opacity &&
		p.BlendMode == o.BlendMode &&
		maps.Equal(p.UserMetadata, o.UserMetadata)
}

// Layer is one bitmap in a document's layer stack.
type Layer struct {
	surface *surface.Surface
	props   Properties
	dirty   region.Region
	owner   *Document
}

// NewLayer creates a transparent, visible, fully opaque layer.
func NewLayer(width, height int, name string) *Layer {
	return NewLayerFromSurface(surface.New(width, height), name)
}

// NewLayerFromSurface wraps an existing surface. The layer takes ownership of it.
func NewLayerFromSurface(s *surface.Surface, name string) *Layer {
	return &Layer{
		surface: s,
		props: Properties{
			Name:    name,
			Visible: true,
			Opacity: 255,
		},
	}
}

// NewBackgroundLayer creates an opaque white background layer.
func NewBackgroundLayer(width, height int) *Layer {
	l := NewLayer(width, height, "Background")
	l.surface.Clear(surface.White)
	l.props.IsBackground = true
	return l
}

func (l *Layer) Surface() *surface.Surface { return l.surface }
func (l *Layer) Width() int                { return l.surface.Width() }
func (l *Layer) Height() int               { return l.surface.Height() }
func (l *Layer) Bounds() image.Rectangle   { return l.surface.Bounds() }

func (l *Layer) Name() string                 { return l.props.Name }
func (l *Layer) Visible() bool                { return l.props.Visible }
func (l *Layer) IsBackground() bool           { return l.props.IsBackground }
func (l *Layer) Opacity() uint8               { return l.props.Opacity }
func (l *Layer) BlendMode() surface.BlendMode { return l.props.BlendMode }

// SetName renames the layer.
func (l *Layer) SetName(name string) {
	l.props.Name = name
	l.propertyChanged()
}

// SetVisible shows or hides the layer.
func (l *Layer) SetVisible(visible bool) {
	l.props.Visible = visible
	l.propertyChanged()
}

// SetOpacity sets the layer opacity.
func (l *Layer) SetOpacity(opacity uint8) {
	l.props.Opacity = opacity
	l.propertyChanged()
}

// SetBlendMode sets how the layer combines with the ones below.
func (l *Layer) SetBlendMode(mode surface.BlendMode) {
	l.props.BlendMode = mode
	l.propertyChanged()
}

// SaveProperties returns a detached copy of the property bag.
func (l *Layer) SaveProperties() Properties {
	return l.props.Clone()
}

// LoadProperties replaces the property bag and fires a property-changed
// notification. The layer is redrawn since visibility or blending may differ.
func (l *Layer) LoadProperties(p Properties) {
	l.props = p.Clone()
	l.propertyChanged()
	l.Invalidate()
}

// Index returns the position of the layer in its document, or -1 when detached.
func (l *Layer) Index() int {
	if l.owner == nil {
		return -1
	}
	return l.owner.layers.IndexOf(l)
}

// Document returns the owning document, or nil when detached.
func (l *Layer) Document() *Document {
	return l.owner
}

// Invalidate marks the whole layer for redraw.
func (l *Layer) Invalidate() {
	l.InvalidateRect(l.Bounds())
}

// InvalidateRect marks r for redraw.
func (l *Layer) InvalidateRect(r image.Rectangle) {
	l.InvalidateRegion(region.FromRect(r))
}

// InvalidateRegion marks rg for redraw and notifies the owning document.
func (l *Layer) InvalidateRegion(rg region.Region) {
	rg = rg.IntersectRect(l.Bounds())
	if rg.IsEmpty() {
		return
	}
	l.dirty = l.dirty.Union(rg)
	if l.owner != nil {
		l.owner.dirty = true
		l.owner.events.Dispatch(event.TypeLayerInvalidated, event.LayerInvalidatedData{
			Index: l.Index(),
			Rect:  rg.Bounds(),
		})
	}
}

// Dirty returns the area invalidated since the last ClearDirty.
func (l *Layer) Dirty() region.Region {
	return l.dirty
}

// ClearDirty returns the accumulated dirty area and resets it.
func (l *Layer) ClearDirty() region.Region {
	d := l.dirty
	l.dirty = region.Region{}
	return d
}

// Clone returns a detached deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		surface: l.surface.Clone(),
		props:   l.props.Clone(),
	}
}

// Render composites the layer onto dst using its opacity and blend mode.
// Hidden layers render nothing.
func (l *Layer) Render(dst *surface.Surface) {
	if !l.props.Visible {
		return
	}
	dst.Blend(l.surface, l.props.BlendMode, l.props.Opacity)
}

func (l *Layer) propertyChanged() {
	if l.owner == nil {
		return
	}
	l.owner.dirty = true
	l.owner.events.Dispatch(event.TypeLayerPropertyChanged, event.LayerPropertyChangedData{
		Index: l.Index(),
		Name:  l.props.Name,
	})
}

// WithSurface returns a detached layer that has l's properties and owns s.
func (l *Layer) WithSurface(s *surface.Surface) *Layer {
	return &Layer{surface: s, props: l.props.Clone()}
}
