package supertag

import (
	"strings"
	"sync"
)

// Category represents a single grammatical category such as "NP" or "S/NP".
// Categories are interned process-wide: InternCategory returns the same
// instance for equal strings, so interned categories compare by pointer.
type Category struct {
	raw string
}

// String returns the canonical string form of the category.
func (c *Category) String() string { return c.raw }

// IsFunctor reports whether the category contains a slash operator.
func (c *Category) IsFunctor() bool {
	return strings.ContainsAny(c.raw, "/\\")
}

var (
	catMu    sync.RWMutex
	catTable = make(map[string]*Category)
)

// InternCategory returns the shared Category for the given string form,
// creating it on first use. The returned pointer stays valid for the
// lifetime of the process.
func InternCategory(raw string) *Category {
	catMu.RLock()
	c, ok := catTable[raw]
	catMu.RUnlock()
	if ok {
		return c
	}
	catMu.Lock()
	defer catMu.Unlock()
	if c, ok := catTable[raw]; ok {
		return c
	}
	c = &Category{raw: raw}
	catTable[raw] = c
	return c
}
