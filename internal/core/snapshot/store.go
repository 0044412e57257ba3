// Package snapshot saves and restores the pixels of an arbitrary region of
// a surface, either into memory or into a scratch file.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/core/surface"
	"github.com/bethropolis/easel/internal/logger"
)

var (
	ErrStoreClosed      = errors.New("snapshot store is closed")
	ErrHandleDisposed   = errors.New("snapshot handle already disposed")
	ErrGeometryMismatch = errors.New("surface does not match snapshot geometry")
)

// DefaultSpillThreshold is the snapshot size, in bytes, from which Save
// writes to a temp file instead of memory.
const DefaultSpillThreshold = 64 << 10

const tempPattern = "easel-snapshot-*.raw"

// Store owns every scratch file created for snapshots. Create one when a
// workspace opens and Close it when the workspace closes; Close deletes
// whatever files are still live.
type Store struct {
	dir            string
	spillThreshold int64

	mu     sync.Mutex
	files  map[string]struct{}
	closed bool
}

// NewStore creates a store writing into dir (the OS temp dir when empty).
// Snapshots of spillThreshold bytes or more go to disk; 0 sends every
// snapshot to disk and a negative value keeps every snapshot in memory.
func NewStore(dir string, spillThreshold int64) *Store {
	return &Store{
		dir:            dir,
		spillThreshold: spillThreshold,
		files:          make(map[string]struct{}),
	}
}

// Dir returns the scratch directory.
func (s *Store) Dir() string {
	if s.dir == "" {
		return os.TempDir()
	}
	return s.dir
}

// Save captures the pixels of rg, clipped to the surface, choosing the
// target from the store's size policy.
func (s *Store) Save(surf *surface.Surface, rg region.Region) (*Handle, error) {
	size := int64(rg.IntersectRect(surf.Bounds()).Area()) * surface.BytesPerPixel
	if s.spillThreshold >= 0 && size >= s.spillThreshold {
		return s.SaveToFile(surf, rg)
	}
	return s.SaveToMemory(surf, rg)
}

// SaveToMemory captures rg into an in-memory buffer.
func (s *Store) SaveToMemory(surf *surface.Surface, rg region.Region) (*Handle, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	h := newHandle(s, surf, rg)
	h.buf = make([]byte, 0, h.size)
	for _, v := range h.vectors(surf) {
		h.buf = append(h.buf, v...)
	}
	return h, nil
}

// SaveToFile captures rg into a new temp file. On failure no file is left behind.
func (s *Store) SaveToFile(surf *surface.Surface, rg region.Region) (h *Handle, err error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(s.dir, tempPattern)
	if err != nil {
		return nil, fmt.Errorf("create snapshot file: %w", err)
	}
	path := f.Name()
	s.track(path)
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close snapshot file: %w", cerr)
		}
		if err != nil {
			s.remove(path)
			h = nil
		}
	}()

	h = newHandle(s, surf, rg)
	h.path = path
	if err := writeVectors(f, h.vectors(surf)); err != nil {
		return nil, fmt.Errorf("write snapshot file %s: %w", path, err)
	}
	logger.DebugTagf("snapshot", "Snapshot: wrote %d bytes in %d scans to %s", h.size, len(h.region.Scans()), path)
	return h, nil
}

// Live returns the number of snapshot files not yet deleted.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Close deletes every remaining snapshot file. Later saves fail with
// ErrStoreClosed. Deletion failures are returned joined but leave the
// store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	s.files = make(map[string]struct{})
	s.closed = true
	s.mu.Unlock()

	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(paths) > 0 {
		logger.DebugTagf("snapshot", "Snapshot: store closed, removed %d leftover file(s)", len(paths)-len(errs))
	}
	return errors.Join(errs...)
}

func (s *Store) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func (s *Store) track(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = struct{}{}
}

// remove deletes a tracked file. A failure is logged and swallowed; the
// file stays tracked so Close can try again.
func (s *Store) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnTagf("snapshot", "Snapshot: failed to delete %s: %v", path, err)
		return
	}
	s.mu.Lock()
	delete(s.files, path)
	s.mu.Unlock()
	logger.DebugTagf("snapshot", "Snapshot: deleted %s", path)
}
