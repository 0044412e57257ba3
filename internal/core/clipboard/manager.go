// Package clipboard copies text to the system clipboard, keeping an
// internal copy for terminals where the system one is unavailable.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/easel/internal/logger"
)

// Manager handles clipboard operations
type Manager struct {
	mu       sync.Mutex
	system   bool
	internal string

	writeAll func(string) error
	readAll  func() (string, error)
}

// NewManager creates a clipboard manager. With useSystem false only the
// internal clipboard is used.
func NewManager(useSystem bool) *Manager {
	return &Manager{
		system:   useSystem && !clipboard.Unsupported,
		writeAll: clipboard.WriteAll,
		readAll:  clipboard.ReadAll,
	}
}

// UsesSystem reports whether copies reach the system clipboard.
func (m *Manager) UsesSystem() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.system
}

// Copy stores text. It reports whether the system clipboard received it;
// when writing there fails the manager falls back to the internal
// clipboard for the rest of the session.
func (m *Manager) Copy(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.internal = text
	if !m.system {
		logger.Debugf("ClipboardManager: Copied %d bytes internally", len(text))
		return false
	}
	if err := m.writeAll(text); err != nil {
		logger.Warnf("ClipboardManager: system clipboard failed, using internal clipboard: %v", err)
		m.system = false
		return false
	}
	logger.Debugf("ClipboardManager: Copied %d bytes to system clipboard", len(text))
	return true
}

// Text returns the clipboard contents, preferring the system clipboard.
func (m *Manager) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.system {
		text, err := m.readAll()
		if err == nil {
			return text
		}
		logger.Warnf("ClipboardManager: reading system clipboard failed: %v", err)
	}
	return m.internal
}
