package selection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/easel/internal/core/region"
	"github.com/bethropolis/easel/internal/event"
)

func square(x, y, n int) region.Region {
	return region.FromRect(image.Rect(x, y, x+n, y+n))
}

func TestContinuationModes(t *testing.T) {
	tests := []struct {
		mode CombineMode
		area int
	}{
		{Replace, 16},
		{Union, 16 + 16 - 4},
		{Exclude, 12},
		{Intersect, 4},
		{Xor, 24},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := New()
			s.SetContinuation(square(0, 0, 4), Replace)
			s.CommitContinuation()

			s.SetContinuation(square(2, 2, 4), tt.mode)
			assert.Equal(t, tt.area, s.Region().Area())
			s.CommitContinuation()
			assert.Equal(t, tt.area, s.Region().Area())
			assert.Equal(t, Xor, s.CombineMode())
		})
	}
}

func TestCommittedSelectionSurvivesIdleMode(t *testing.T) {
	s := New()
	s.SetContinuation(square(0, 0, 4), Replace)
	s.CommitContinuation()
	assert.Equal(t, 16, s.Region().Area())
	assert.False(t, s.IsEmpty())

	s.SetContinuation(square(10, 10, 2), Replace)
	s.ResetContinuation()
	assert.Equal(t, 16, s.Region().Area())

	s.Reset()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, Xor, s.CombineMode())
}

func TestSaveRestore(t *testing.T) {
	s := New()
	s.SetContinuation(square(0, 0, 10), Replace)
	s.CommitContinuation()
	saved := s.Save()

	s.Reset()
	assert.True(t, s.IsEmpty())

	s.Restore(saved)
	assert.True(t, s.Region().Equal(square(0, 0, 10)))
}

func TestClipRectangle(t *testing.T) {
	s := New()
	s.SetClipRectangle(image.Rect(0, 0, 5, 5))
	s.SetContinuation(square(3, 3, 10), Replace)
	assert.Equal(t, image.Rect(3, 3, 5, 5), s.Bounds())

	s.Reset()
	_, ok := s.ClipRectangle()
	assert.True(t, ok)
}

func TestNestedChangeNotifications(t *testing.T) {
	m := event.NewManager()
	s := New()
	s.SetEventManager(m)

	var changing, changed int
	var last event.SelectionChangedData
	m.Subscribe(event.TypeSelectionChanging, func(event.Event) bool { changing++; return false })
	m.Subscribe(event.TypeSelectionChanged, func(e event.Event) bool {
		changed++
		last = e.Data.(event.SelectionChangedData)
		return false
	})

	s.PerformChanging()
	s.SetContinuation(square(1, 1, 2), Replace)
	s.CommitContinuation()
	s.PerformChanged()

	assert.Equal(t, 1, changing)
	assert.Equal(t, 1, changed)
	assert.Equal(t, image.Rect(1, 1, 3, 3), last.Bounds)
	assert.False(t, last.Empty)

	// An unmatched PerformChanged is ignored.
	s.PerformChanged()
	assert.Equal(t, 1, changed)
}
