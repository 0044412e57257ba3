package document

import (
	"maps"
	"slices"
)

// Metadata is the key/value information attached to a document, such as
// EXIF fields or author notes. It never touches pixel data.
type Metadata struct {
	entries map[string]string
}

// NewMetadata returns an empty metadata set.
func NewMetadata() *Metadata {
	return &Metadata{entries: make(map[string]string)}
}

func (m *Metadata) Get(key string) (string, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *Metadata) Set(key, value string) {
	m.entries[key] = value
}

func (m *Metadata) Delete(key string) {
	delete(m.entries, key)
}

func (m *Metadata) Len() int {
	return len(m.entries)
}

// Keys returns the keys in sorted order.
func (m *Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m.entries))
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	return &Metadata{entries: maps.Clone(m.entries)}
}

// ReplaceWith discards every entry and copies all of o's entries.
func (m *Metadata) ReplaceWith(o *Metadata) {
	m.entries = maps.Clone(o.entries)
	if m.entries == nil {
		m.entries = make(map[string]string)
	}
}

// Equal reports whether both sets hold the same entries.
func (m *Metadata) Equal(o *Metadata) bool {
	return maps.Equal(m.entries, o.entries)
}
