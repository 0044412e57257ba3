package document

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/event"
)

func threeLayers(t *testing.T) (*Document, []*Layer) {
	t.Helper()
	d := New(8, 8)
	var ls []*Layer
	for _, name := range []string{"A", "B", "C"} {
		l := NewLayer(8, 8, name)
		require.NoError(t, d.Layers().Add(l))
		ls = append(ls, l)
	}
	return d, ls
}

func names(d *Document) []string {
	var out []string
	for _, l := range d.Layers().Items() {
		out = append(out, l.Name())
	}
	return out
}

func TestLayerListInsertRemove(t *testing.T) {
	d, ls := threeLayers(t)
	assert.Equal(t, []string{"A", "B", "C"}, names(d))

	removed, err := d.Layers().RemoveAt(1)
	require.NoError(t, err)
	assert.Same(t, ls[1], removed)
	assert.Nil(t, removed.Document())
	assert.Equal(t, -1, removed.Index())
	assert.Equal(t, []string{"A", "C"}, names(d))

	require.NoError(t, d.Layers().Insert(1, removed))
	assert.Equal(t, []string{"A", "B", "C"}, names(d))
	assert.Equal(t, 1, removed.Index())
}

func TestLayerListErrors(t *testing.T) {
	d, ls := threeLayers(t)

	_, err := d.Layers().RemoveAt(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, d.Layers().Insert(5, NewLayer(8, 8, "x")), ErrIndexOutOfRange)
	assert.ErrorIs(t, d.Layers().Add(NewLayer(4, 4, "small")), ErrSizeMismatch)
	assert.ErrorIs(t, d.Layers().Add(ls[0]), ErrLayerAttached)
	assert.ErrorIs(t, d.Layers().Swap(0, 7), ErrIndexOutOfRange)
	assert.Nil(t, d.Layers().At(-1))
	assert.Nil(t, d.Layers().At(3))
}

func TestLayerInvalidateDispatches(t *testing.T) {
	d, ls := threeLayers(t)
	m := event.NewManager()
	d.SetEventManager(m)

	var got []event.LayerInvalidatedData
	m.Subscribe(event.TypeLayerInvalidated, func(e event.Event) bool {
		got = append(got, e.Data.(event.LayerInvalidatedData))
		return false
	})

	ls[2].InvalidateRect(image.Rect(1, 1, 3, 3))
	ls[2].InvalidateRect(image.Rect(20, 20, 30, 30))
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Index)
	assert.Equal(t, image.Rect(1, 1, 3, 3), got[0].Rect)
	assert.Equal(t, 4, ls[2].Dirty().Area())
	assert.True(t, d.Dirty())

	ls[2].ClearDirty()
	assert.True(t, ls[2].Dirty().IsEmpty())
}

func TestLayerPropertiesRoundTrip(t *testing.T) {
	d, ls := threeLayers(t)
	m := event.NewManager()
	d.SetEventManager(m)
	changed := 0
	m.Subscribe(event.TypeLayerPropertyChanged, func(event.Event) bool { changed++; return false })

	saved := ls[0].SaveProperties()
	ls[0].SetName("renamed")
	ls[0].SetOpacity(10)
	ls[0].SetBlendMode(surface.BlendScreen)
	assert.False(t, saved.Equal(ls[0].SaveProperties()))

	ls[0].LoadProperties(saved)
	assert.True(t, saved.Equal(ls[0].SaveProperties()))
	assert.Equal(t, "A", ls[0].Name())
	assert.Equal(t, 4, changed)
}

func TestPropertiesCloneIsDeep(t *testing.T) {
	p := Properties{Name: "x", UserMetadata: map[string]string{"k": "v"}}
	c := p.Clone()
	c.UserMetadata["k"] = "changed"
	assert.Equal(t, "v", p.UserMetadata["k"])
}

func TestMetadata(t *testing.T) {
	d := New(2, 2)
	d.Metadata().Set("author", "ana")
	d.Metadata().Set("camera", "x100")
	assert.Equal(t, []string{"author", "camera"}, d.Metadata().Keys())

	shell := New(1, 1)
	shell.ReplaceMetadataFrom(d)
	d.Metadata().Delete("camera")
	assert.Equal(t, 2, shell.Metadata().Len())

	d.ReplaceMetadataFrom(shell)
	v, ok := d.Metadata().Get("camera")
	assert.True(t, ok)
	assert.Equal(t, "x100", v)
}

func TestRenderAndClone(t *testing.T) {
	d := NewWithBackground(4, 4)
	top := NewLayer(4, 4, "top")
	top.Surface().ClearRect(image.Rect(0, 0, 2, 2), surface.FromRGBA(0, 0, 255, 255))
	require.NoError(t, d.Layers().Add(top))

	out := d.Render()
	assert.Equal(t, surface.FromRGBA(0, 0, 255, 255), out.At(0, 0))
	assert.Equal(t, surface.White, out.At(3, 3))

	top.SetVisible(false)
	assert.Equal(t, surface.White, d.Render().At(0, 0))

	c := d.Clone()
	require.Equal(t, 2, c.Layers().Len())
	assert.NotSame(t, top, c.Layers().At(1))
	assert.True(t, c.Layers().At(1).Surface().Equal(top.Surface()))
	assert.Same(t, c, c.Layers().At(1).Document())
}

func TestFlattenAndDerive(t *testing.T) {
	d := NewWithBackground(4, 4)
	d.Metadata().Set("title", "sketch")
	top := NewLayer(4, 4, "top")
	top.Surface().ClearRect(image.Rect(0, 0, 1, 1), surface.Black)
	require.NoError(t, d.Layers().Add(top))

	flat := d.Flatten()
	require.Equal(t, 1, flat.Layers().Len())
	bg := flat.Layers().At(0)
	assert.True(t, bg.IsBackground())
	assert.True(t, bg.Surface().Equal(d.Render()))
	assert.True(t, flat.Metadata().Equal(d.Metadata()))
	assert.Equal(t, 2, d.Layers().Len())

	derived := d.Derive(2, 3)
	assert.Equal(t, image.Pt(2, 3), derived.Size())
	assert.Equal(t, 0, derived.Layers().Len())
	derived.Metadata().Set("title", "other")
	v, _ := d.Metadata().Get("title")
	assert.Equal(t, "sketch", v)
}

func TestLayerWithSurface(t *testing.T) {
	d, ls := threeLayers(t)
	ls[1].SetOpacity(90)
	s := surface.New(2, 2)
	l := ls[1].WithSurface(s)
	assert.Same(t, s, l.Surface())
	assert.Equal(t, "B", l.Name())
	assert.Equal(t, uint8(90), l.Opacity())
	assert.Nil(t, l.Document())
	assert.Equal(t, 3, d.Layers().Len())
}
