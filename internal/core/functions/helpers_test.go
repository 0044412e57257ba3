package functions

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/selection"
	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/core/workspace"
	"github.com/bethropolis/easel/internal/event"
)

// newWorkspace opens a w x h workspace with one layer per name. Each layer
// gets a gradient so that flips and rotations are observable.
func newWorkspace(t *testing.T, w, h int, names ...string) *workspace.Workspace {
	t.Helper()
	doc := document.New(w, h)
	for i, name := range names {
		l := document.NewLayer(w, h, name)
		s := l.Surface()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				s.Set(x, y, surface.FromRGBA(uint8(x*16), uint8(y*16), uint8(i*60), 255))
			}
		}
		require.NoError(t, doc.Layers().Add(l))
	}
	ws, err := workspace.Open(doc, event.NewManager(), workspace.Options{TempDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ws.Close()) })
	return ws
}

func names(ws *workspace.Workspace) []string {
	var out []string
	for _, l := range ws.Document().Layers().Items() {
		out = append(out, l.Name())
	}
	return out
}

func selectRect(ws *workspace.Workspace, r image.Rectangle) {
	selectRegion(ws, region.FromRect(r))
}

func selectRegion(ws *workspace.Workspace, rg region.Region) {
	ws.Selection().SetContinuation(rg, selection.Replace)
	ws.Selection().CommitContinuation()
}

// snapshotLayers deep-copies every layer surface.
func snapshotLayers(ws *workspace.Workspace) []*surface.Surface {
	var out []*surface.Surface
	for _, l := range ws.Document().Layers().Items() {
		out = append(out, l.Surface().Clone())
	}
	return out
}

func requireLayers(t *testing.T, ws *workspace.Workspace, want []*surface.Surface) {
	t.Helper()
	layers := ws.Document().Layers().Items()
	require.Len(t, layers, len(want))
	for i, l := range layers {
		require.Truef(t, l.Surface().Equal(want[i]), "layer %d differs", i)
	}
}
