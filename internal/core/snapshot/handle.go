package snapshot

import (
	"fmt"
	"image"
	"os"

	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/surface"
)

// Handle is one saved region. It holds the pixels either in memory or in a
// scratch file, never both, until it is disposed. The saved geometry
// travels with the handle so Restore writes back exactly what was read.
type Handle struct {
	store  *Store
	region region.Region
	size   int64
	// dims of the surface the pixels came from
	dims image.Point

	buf      []byte
	path     string
	disposed bool
}

func newHandle(s *Store, surf *surface.Surface, rg region.Region) *Handle {
	clipped := rg.IntersectRect(surf.Bounds())
	return &Handle{
		store:  s,
		region: clipped,
		size:   int64(clipped.Area()) * surface.BytesPerPixel,
		dims:   surf.Size(),
	}
}

// Region returns the saved geometry, clipped to the source surface.
func (h *Handle) Region() region.Region { return h.region }

// Size returns the number of saved bytes.
func (h *Handle) Size() int64 { return h.size }

// InMemory reports whether the pixels live in memory rather than on disk.
func (h *Handle) InMemory() bool { return !h.disposed && h.path == "" }

// Path returns the scratch file, or "" for in-memory handles.
func (h *Handle) Path() string { return h.path }

// Disposed reports whether Dispose was called.
func (h *Handle) Disposed() bool { return h.disposed }

// vectors lists the surface memory covered by the region, in scan order.
// A single contiguous scan is returned as one span; otherwise there is
// one span per row of every scan.
func (h *Handle) vectors(surf *surface.Surface) [][]byte {
	scans := h.region.Scans()
	if len(scans) == 1 && surf.IsContiguous(scans[0]) {
		r := scans[0]
		return [][]byte{surf.PixelSpan(r.Min.X, r.Min.Y, r.Dx()*r.Dy())}
	}
	rows := 0
	for _, r := range scans {
		rows += r.Dy()
	}
	vecs := make([][]byte, 0, rows)
	for _, r := range scans {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			vecs = append(vecs, surf.PixelSpan(r.Min.X, y, r.Dx()))
		}
	}
	return vecs
}

// Restore writes the saved pixels back into surf, which must have the
// same size as the surface they were saved from.
func (h *Handle) Restore(surf *surface.Surface) error {
	if h.disposed {
		return ErrHandleDisposed
	}
	if surf.Size() != h.dims {
		return fmt.Errorf("%w: saved %v, got %v", ErrGeometryMismatch, h.dims, surf.Size())
	}
	vecs := h.vectors(surf)
	if h.path == "" {
		off := 0
		for _, v := range vecs {
			off += copy(v, h.buf[off:])
		}
		return nil
	}

	f, err := os.Open(h.path)
	if err != nil {
		return fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()
	if err := readVectors(f, vecs); err != nil {
		return fmt.Errorf("read snapshot file %s: %w", h.path, err)
	}
	return nil
}

// Dispose releases the buffer or deletes the scratch file. It is
// idempotent and never fails; a file that cannot be deleted is logged and
// left to the store's Close.
func (h *Handle) Dispose() {
	if h.disposed {
		return
	}
	h.disposed = true
	h.buf = nil
	if h.path != "" {
		h.store.remove(h.path)
		h.path = ""
	}
}
