// Package selection tracks the area of the document that edits apply to.
package selection

import (
	"fmt"
	"image"

	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/logger"
)

// CombineMode decides how the continuation merges into the base geometry.
type CombineMode int

const (
	Replace CombineMode = iota
	Union
	Exclude
	Intersect
	Xor
)

// idleMode is the mode held while no continuation is pending. Xor with an
// empty continuation leaves the base untouched.
const idleMode = Xor

func (m CombineMode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Union:
		return "union"
	case Exclude:
		return "exclude"
	case Intersect:
		return "intersect"
	case Xor:
		return "xor"
	}
	return fmt.Sprintf("CombineMode(%d)", int(m))
}

func (m CombineMode) apply(base, cont region.Region) region.Region {
	switch m {
	case Union:
		return base.Union(cont)
	case Exclude:
		return base.Subtract(cont)
	case Intersect:
		return base.Intersect(cont)
	case Xor:
		return base.Xor(cont)
	}
	return cont
}

// State is an opaque saved copy of a selection's geometry.
type State struct {
	base    region.Region
	cont    region.Region
	mode    CombineMode
	clip    image.Rectangle
	hasClip bool
}

// Selection is built from a committed base geometry plus an in-progress
// continuation, which tools update while the user drags. Callers bracket
// every change with PerformChanging and PerformChanged; nested brackets
// produce a single pair of notifications.
type Selection struct {
	base    region.Region
	cont    region.Region
	mode    CombineMode
	clip    image.Rectangle
	hasClip bool

	changing int
	events   *event.Manager
}

// New returns an empty selection.
func New() *Selection {
	return &Selection{mode: idleMode}
}

// SetEventManager routes SelectionChanging/SelectionChanged to m.
func (s *Selection) SetEventManager(m *event.Manager) {
	s.events = m
}

// SetClipRectangle limits the effective selection to r, usually the document bounds.
func (s *Selection) SetClipRectangle(r image.Rectangle) {
	s.PerformChanging()
	s.clip, s.hasClip = r, true
	s.PerformChanged()
}

// ClipRectangle returns the clip and whether one is set.
func (s *Selection) ClipRectangle() (image.Rectangle, bool) {
	return s.clip, s.hasClip
}

// Region returns the effective selection: the continuation combined into
// the base, clipped.
func (s *Selection) Region() region.Region {
	rg := s.mode.apply(s.base, s.cont)
	if s.hasClip {
		rg = rg.IntersectRect(s.clip)
	}
	return rg
}

// Bounds returns the bounding rectangle of Region.
func (s *Selection) Bounds() image.Rectangle {
	return s.Region().Bounds()
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return s.Region().IsEmpty()
}

// CombineMode returns the pending combine mode. It is Xor when nothing is
// pending.
func (s *Selection) CombineMode() CombineMode {
	return s.mode
}

// Save captures the geometry. Regions are immutable, so the state never
// aliases anything the selection will mutate later.
func (s *Selection) Save() State {
	return State{base: s.base, cont: s.cont, mode: s.mode, clip: s.clip, hasClip: s.hasClip}
}

// Restore replaces the geometry with a saved state.
func (s *Selection) Restore(st State) {
	s.PerformChanging()
	s.base, s.cont, s.mode = st.base, st.cont, st.mode
	s.clip, s.hasClip = st.clip, st.hasClip
	s.PerformChanged()
}

// Reset clears the selection. The clip rectangle is kept.
func (s *Selection) Reset() {
	s.PerformChanging()
	s.base = region.Region{}
	s.cont = region.Region{}
	s.mode = idleMode
	s.PerformChanged()
}

// SetContinuation replaces the in-progress geometry and its combine mode.
func (s *Selection) SetContinuation(rg region.Region, mode CombineMode) {
	s.PerformChanging()
	s.cont, s.mode = rg, mode
	s.PerformChanged()
}

// ResetContinuation drops the in-progress geometry.
func (s *Selection) ResetContinuation() {
	s.PerformChanging()
	s.cont = region.Region{}
	s.mode = idleMode
	s.PerformChanged()
}

// CommitContinuation folds the continuation into the base.
func (s *Selection) CommitContinuation() {
	s.PerformChanging()
	s.base = s.mode.apply(s.base, s.cont)
	s.cont = region.Region{}
	s.mode = idleMode
	s.PerformChanged()
}

// PerformChanging opens a change bracket. Only the outermost bracket
// dispatches SelectionChanging.
func (s *Selection) PerformChanging() {
	s.changing++
	if s.changing == 1 {
		s.events.Dispatch(event.TypeSelectionChanging, nil)
	}
}

// PerformChanged closes a change bracket. Only the outermost bracket
// dispatches SelectionChanged.
func (s *Selection) PerformChanged() {
	if s.changing <= 0 {
		logger.Warnf("Selection: PerformChanged without matching PerformChanging")
		return
	}
	s.changing--
	if s.changing == 0 {
		rg := s.Region()
		s.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{
			Bounds: rg.Bounds(),
			Empty:  rg.IsEmpty(),
		})
	}
}
