package history

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/selection"
	"github.com/bethropolis/easel/internal/core/snapshot"
	"github.com/bethropolis/easel/internal/core/surface"
)

type testWorkspace struct {
	doc    *document.Document
	sel    *selection.Selection
	active int
	store  *snapshot.Store
}

// newTestWorkspace builds an 8x8 document with one layer per name. Each
// layer is filled with a distinct opaque color.
func newTestWorkspace(t *testing.T, names ...string) *testWorkspace {
	t.Helper()
	doc := document.New(8, 8)
	for i, name := range names {
		l := document.NewLayer(8, 8, name)
		l.Surface().Clear(surface.FromRGBA(uint8(40*i), uint8(255-40*i), 128, 255))
		require.NoError(t, doc.Layers().Add(l))
	}
	store := snapshot.NewStore(t.TempDir(), snapshot.DefaultSpillThreshold)
	t.Cleanup(func() { _ = store.Close() })
	sel := selection.New()
	sel.SetClipRectangle(doc.Bounds())
	return &testWorkspace{doc: doc, sel: sel, active: len(names) - 1, store: store}
}

func (w *testWorkspace) Document() *document.Document { return w.doc }
func (w *testWorkspace) SetDocument(doc *document.Document) {
	w.doc = doc
	ClampActiveLayer(w)
}
func (w *testWorkspace) Selection() *selection.Selection { return w.sel }
func (w *testWorkspace) ActiveLayerIndex() int           { return w.active }
func (w *testWorkspace) SetActiveLayerIndex(i int)       { w.active = i }
func (w *testWorkspace) ActiveLayer() *document.Layer    { return w.doc.Layers().At(w.active) }
func (w *testWorkspace) Snapshots() *snapshot.Store      { return w.store }

func layerNames(ws Workspace) []string {
	var out []string
	for _, l := range ws.Document().Layers().Items() {
		out = append(out, l.Name())
	}
	return out
}

func selectRect(ws Workspace, r image.Rectangle) {
	ws.Selection().SetContinuation(region.FromRect(r), selection.Replace)
	ws.Selection().CommitContinuation()
}

// recorder is a memento that logs its undo calls. Its inverse logs too,
// so chains of undo and redo can be observed.
type recorder struct {
	base
	label string
	log   *[]string
	fail  bool
}

func newRecorder(label string, log *[]string) *recorder {
	return &recorder{base: newBase(label, ""), label: label, log: log}
}

var errRecorder = errors.New("recorder failure")

func (r *recorder) PerformUndo() (Memento, error) {
	return r.perform(func() (Memento, error) {
		if r.fail {
			return nil, errRecorder
		}
		*r.log = append(*r.log, r.label)
		return newRecorder(r.label, r.log), nil
	})
}

func (r *recorder) Flush() {
	r.flush(func() { *r.log = append(*r.log, fmt.Sprintf("flush %s", r.label)) })
}

func (r *recorder) flushed() bool { return r.state == stateFlushed }
