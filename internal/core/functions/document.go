package functions

import (
	"fmt"

	"github.com/bethropolis/easel/internal/core/document"
	"github.com/bethropolis/easel/internal/core/history"
	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/event"
)

// rotateBatchRows is how many source rows are rotated between progress
// reports and cancellation checks.
const rotateBatchRows = 64

func flipName(base string, axis surface.FlipAxis) string {
	if axis == surface.FlipVertical {
		return base + " Vertical"
	}
	return base + " Horizontal"
}

// FlipLayer mirrors the layer at index. A non-empty selection is cleared
// first and restored on undo.
func FlipLayer(index int, axis surface.FlipAxis) *history.Function {
	name := flipName(FlipLayerName, axis)
	return history.NewFunction(name, FlipImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		if err := checkLayer(ws, index); err != nil {
			return nil, err
		}
		c := history.NewCompoundMemento(name, FlipImage)

		run.EnterCriticalRegion()
		if err := deselectInto(run, ws, c); err != nil {
			return c, err
		}
		c.PushNewAction(flipLayer(ws, index, axis))
		return c, nil
	})
}

// FlipDocument mirrors every layer. The memento holds one flip per layer,
// preceded by a deselect when something was selected.
func FlipDocument(axis surface.FlipAxis) *history.Function {
	name := flipName(FlipDocumentName, axis)
	return history.NewFunction(name, FlipImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		c := history.NewCompoundMemento(name, FlipImage)

		run.EnterCriticalRegion()
		if err := deselectInto(run, ws, c); err != nil {
			return c, err
		}
		for i := range ws.Document().Layers().Len() {
			c.PushNewAction(flipLayer(ws, i, axis))
		}
		return c, nil
	})
}

func flipLayer(ws history.Workspace, index int, axis surface.FlipAxis) history.Memento {
	layer := ws.Document().Layers().At(index)
	m := history.NewFlipLayerMemento("", FlipImage, ws, index, axis)
	layer.Surface().Flip(axis)
	layer.Invalidate()
	return m
}

// RotateDocument turns every layer by r. It reports progress and can be
// cancelled; the rotated document replaces the live one only after every
// layer is done, so a cancelled run changes nothing.
func RotateDocument(r surface.Rotation) *history.Function {
	name := fmt.Sprintf("%s %s", RotateName, r)
	return history.NewFunction(name, RotateImage, history.Cancellable|history.ReportsProgress, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		doc := ws.Document()
		w, h := r.RotatedSize(doc.Width(), doc.Height())
		rotated := doc.Derive(w, h)
		layers := doc.Layers().Items()

		run.ReportProgress(0)
		for i, layer := range layers {
			src := layer.Surface()
			dst := surface.New(w, h)
			for y := 0; y < src.Height(); y += rotateBatchRows {
				if run.PleaseCancel() {
					return nil, nil
				}
				end := min(y+rotateBatchRows, src.Height())
				src.RotateRows(dst, r, y, end)
				run.ReportProgress(100 * (float64(i) + float64(end)/float64(src.Height())) / float64(len(layers)))
			}
			if err := rotated.Layers().Add(layer.WithSurface(dst)); err != nil {
				return nil, err
			}
		}
		if run.PleaseCancel() {
			return nil, nil
		}
		return replaceDocument(run, ws, name, RotateImage, rotated)
	})
}

// ResizeDocument resamples every layer to width x height.
func ResizeDocument(width, height int, mode surface.ResampleMode) *history.Function {
	return history.NewFunction(ResizeName, ResizeImage, history.Cancellable|history.ReportsProgress, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("resize to %dx%d: %w", width, height, ErrInvalidSize)
		}
		doc := ws.Document()
		if doc.Width() == width && doc.Height() == height {
			return nil, nil
		}
		resized := doc.Derive(width, height)
		layers := doc.Layers().Items()

		run.ReportProgress(0)
		for i, layer := range layers {
			if run.PleaseCancel() {
				return nil, nil
			}
			if err := resized.Layers().Add(layer.WithSurface(layer.Surface().Resample(width, height, mode))); err != nil {
				return nil, err
			}
			run.ReportProgress(100 * float64(i+1) / float64(len(layers)))
		}
		if run.PleaseCancel() {
			return nil, nil
		}
		return replaceDocument(run, ws, ResizeName, ResizeImage, resized)
	})
}

// CropToSelection shrinks the document to the bounds of the selection.
// Pixels inside the bounds but outside the selection become transparent.
func CropToSelection() *history.Function {
	return history.NewFunction(CropName, CropImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		sel := ws.Selection()
		rg := sel.Region()
		if rg.Area() == 0 {
			return nil, nil
		}
		bounds := rg.Bounds()
		outside := region.FromRect(bounds).Subtract(rg).Translate(-bounds.Min.X, -bounds.Min.Y)

		doc := ws.Document()
		cropped := doc.Derive(bounds.Dx(), bounds.Dy())
		for _, layer := range doc.Layers().Items() {
			s := layer.Surface().Window(bounds)
			s.ClearRegion(outside, surface.TransparentWhite)
			if err := cropped.Layers().Add(layer.WithSurface(s)); err != nil {
				return nil, err
			}
		}

		sm := history.NewSelectionMemento("", "", ws)
		rm := history.NewReplaceDocumentMemento("", "", ws)
		c := history.NewCompoundMemento(CropName, CropImage, sm, rm)

		run.EnterCriticalRegion()
		ws.SetDocument(cropped)
		sel.Reset()
		return c, nil
	})
}

// Flatten merges every layer into one background layer. A selection
// survives the flatten.
func Flatten() *history.Function {
	return history.NewFunction(FlattenName, FlattenImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		doc := ws.Document()
		if doc.Layers().Len() < 2 {
			return nil, nil
		}
		flat := doc.Flatten()
		sel := ws.Selection()
		hadSelection := !sel.IsEmpty()
		saved := sel.Save()

		c, err := replaceDocument(run, ws, FlattenName, FlattenImage, flat)
		if err != nil {
			return c, err
		}
		if hadSelection {
			c.PushNewAction(history.NewSelectionMemento("", "", ws))
			sel.Restore(saved)
		}
		return c, nil
	})
}

// SetMetadata sets one document metadata entry. Setting the current value
// produces no history entry.
func SetMetadata(key, value string) *history.Function {
	return history.NewFunction(MetadataName, MetadataImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		doc := ws.Document()
		if old, ok := doc.Metadata().Get(key); ok && old == value {
			return nil, nil
		}
		m := history.NewMetadataMemento(MetadataName, MetadataImage, ws)

		run.EnterCriticalRegion()
		doc.Metadata().Set(key, value)
		metadataChanged(doc)
		return m, nil
	})
}

// RemoveMetadata deletes one document metadata entry.
func RemoveMetadata(key string) *history.Function {
	return history.NewFunction(MetadataName, MetadataImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		doc := ws.Document()
		if _, ok := doc.Metadata().Get(key); !ok {
			return nil, nil
		}
		m := history.NewMetadataMemento(MetadataName, MetadataImage, ws)

		run.EnterCriticalRegion()
		doc.Metadata().Delete(key)
		metadataChanged(doc)
		return m, nil
	})
}

func metadataChanged(doc *document.Document) {
	doc.SetDirty(true)
	doc.Events().Dispatch(event.TypeMetadataChanged, nil)
}

// NewImage replaces the document with a blank one holding a white
// background layer.
func NewImage(width, height int) *history.Function {
	return history.NewFunction(NewImageName, NewImageImage, 0, func(run *history.Run, ws history.Workspace) (history.Memento, error) {
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("new image %dx%d: %w", width, height, ErrInvalidSize)
		}
		return replaceDocument(run, ws, NewImageName, NewImageImage, document.NewWithBackground(width, height))
	})
}
