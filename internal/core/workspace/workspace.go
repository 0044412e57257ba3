// Package workspace ties a document to the selection, the active layer,
// the snapshot store and the undo stack that history functions need.
package workspace

import (
	"errors"
	"fmt"
	"os"

	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/selection"
	"github.com/bethropolis/easel/internal/core/snapshot"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/logger"
)

// Options configure the resources a workspace owns.
type Options struct {
	// MaxDepth bounds the undo list. Zero means history.DefaultMaxDepth.
	MaxDepth int
	// SpillThreshold is the snapshot size in bytes at which saved pixels
	// move to a scratch file. Zero always spills, negative never does.
	SpillThreshold int64
	// TempDir is the parent of the scratch directory. Empty means the OS
	// temp dir.
	TempDir string
}

// Workspace is the live editing state of one document. It implements
// history.Workspace.
type Workspace struct {
	doc    *document.Document
	sel    *selection.Selection
	active int

	events  *event.Manager
	store   *snapshot.Store
	stack   *history.Stack
	scratch string
}

var _ history.Workspace = (*Workspace)(nil)

// Open creates a workspace around doc. It makes a private scratch
// directory for snapshot files; Close removes it.
func Open(doc *document.Document, events *event.Manager, opts Options) (*Workspace, error) {
	if doc == nil {
		return nil, errors.New("workspace: nil document")
	}
	scratch, err := os.MkdirTemp(opts.TempDir, "easel-")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	w := &Workspace{
		sel:     selection.New(),
		active:  doc.Layers().Len() - 1,
		events:  events,
		store:   snapshot.NewStore(scratch, opts.SpillThreshold),
		scratch: scratch,
	}
	w.sel.SetEventManager(events)
	w.stack = history.NewStack(w, events, opts.MaxDepth)
	w.install(doc)

	logger.Infof("Workspace: opened %dx%d document with %d layer(s), scratch %s", doc.Width(), doc.Height(), doc.Layers().Len(), scratch)
	return w, nil
}

// Document returns the live document.
func (w *Workspace) Document() *document.Document { return w.doc }

// SetDocument replaces the live document. The old one is detached from
// the event manager but otherwise left alone; a memento may own it.
func (w *Workspace) SetDocument(doc *document.Document) {
	if doc == w.doc {
		return
	}
	if w.doc != nil {
		w.doc.SetEventManager(nil)
	}
	w.install(doc)
	w.events.Dispatch(event.TypeDocumentReplaced, event.DocumentReplacedData{
		Width:  doc.Width(),
		Height: doc.Height(),
		Layers: doc.Layers().Len(),
	})
	doc.Invalidate()
}

func (w *Workspace) install(doc *document.Document) {
	w.doc = doc
	doc.SetEventManager(w.events)
	w.sel.SetClipRectangle(doc.Bounds())
	history.ClampActiveLayer(w)
}

func (w *Workspace) Selection() *selection.Selection { return w.sel }
func (w *Workspace) ActiveLayerIndex() int           { return w.active }
func (w *Workspace) SetActiveLayerIndex(index int)   { w.active = index }

// ActiveLayer returns the active layer, or nil when the document is empty.
func (w *Workspace) ActiveLayer() *document.Layer {
	return w.doc.Layers().At(w.active)
}

// Snapshots returns the scratch store for bitmap mementos.
func (w *Workspace) Snapshots() *snapshot.Store { return w.store }

// History returns the undo stack.
func (w *Workspace) History() *history.Stack { return w.stack }

// Events returns the event manager, which may be nil.
func (w *Workspace) Events() *event.Manager { return w.events }

// ScratchDir returns the directory holding snapshot files.
func (w *Workspace) ScratchDir() string { return w.scratch }

// Close flushes the history, deletes every snapshot file and removes the
// scratch directory. The workspace must not be used afterwards.
func (w *Workspace) Close() error {
	w.stack.Close()
	var errs []error
	if err := w.store.Close(); err != nil {
		logger.WarnTagf("snapshot", "Workspace: leftover snapshot files: %v", err)
		errs = append(errs, err)
	}
	if err := os.RemoveAll(w.scratch); err != nil {
		logger.WarnTagf("snapshot", "Workspace: failed to remove %s: %v", w.scratch, err)
		errs = append(errs, err)
	}
	logger.Infof("Workspace: closed")
	return errors.Join(errs...)
}
