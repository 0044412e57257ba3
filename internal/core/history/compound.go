package history

import (
	"fmt"

	"github.com/bethropolis/easel/internal/logger"
)

// CompoundMemento undoes several mementos as one step. Children are kept
// in the order they were applied and undone last to first. Nil children
// are placeholders and are skipped.
type CompoundMemento struct {
	base
	children []Memento
}

func NewCompoundMemento(name, image string, children ...Memento) *CompoundMemento {
	return &CompoundMemento{
		base:     newBase(name, image),
		children: append([]Memento(nil), children...),
	}
}

// PushNewAction appends a child applied after the existing ones.
func (c *CompoundMemento) PushNewAction(m Memento) {
	c.children = append(c.children, m)
}

// Children returns a copy of the child list.
func (c *CompoundMemento) Children() []Memento {
	return append([]Memento(nil), c.children...)
}

// Len returns the number of children, placeholders included.
func (c *CompoundMemento) Len() int { return len(c.children) }

// PerformUndo undoes the children last to first. The inverses are
// collected in that same visiting order, so undoing the returned compound
// replays the original order. If a child fails, the inverses produced so
// far are flushed and the error is returned; the document is left as the
// failed child left it.
func (c *CompoundMemento) PerformUndo() (Memento, error) {
	return c.perform(func() (Memento, error) {
		redo := make([]Memento, 0, len(c.children))
		for i := len(c.children) - 1; i >= 0; i-- {
			child := c.children[i]
			if child == nil {
				redo = append(redo, nil)
				continue
			}
			inv, err := child.PerformUndo()
			if err != nil {
				logger.Errorf("History: compound %q failed at step %d, document may be partially restored: %v", c.info.Name, i, err)
				for _, m := range redo {
					if m != nil {
						m.Flush()
					}
				}
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			redo = append(redo, inv)
		}
		return NewCompoundMemento(c.info.Name, c.info.Image, redo...), nil
	})
}

// Flush flushes every child.
func (c *CompoundMemento) Flush() {
	c.flush(func() {
		for _, child := range c.children {
			if child != nil {
				child.Flush()
			}
		}
	})
}
