package keymap

import "fmt"

// Entry is one key and its binding.
type Entry struct {
	Key     string
	Binding Binding
}

// Set maps canonical keys to bindings in declaration order.
type Set struct {
	entries []Entry
	index   map[string]int
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Add binds k. Rebinding an existing key replaces its binding but keeps
// its original position.
func (s *Set) Add(k string, b Binding) *Set {
	if i, ok := s.index[k]; ok {
		s.entries[i].Binding = b
		return s
	}
	s.index[k] = len(s.entries)
	s.entries = append(s.entries, Entry{Key: k, Binding: b})
	return s
}

// Lookup returns the binding for k.
func (s *Set) Lookup(k string) (Binding, bool) {
	if s == nil {
		return Binding{}, false
	}
	i, ok := s.index[k]
	if !ok {
		return Binding{}, false
	}
	return s.entries[i].Binding, true
}

// Has reports whether k is bound.
func (s *Set) Has(k string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[k]
	return ok
}

// Keys returns the bound keys in declaration order.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in declaration order.
func (s *Set) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of bound keys.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// IsEmpty reports whether the set is nil or binds nothing.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Validate checks every binding.
func (s *Set) Validate() error {
	if s == nil {
		return nil
	}
	for i, e := range s.entries {
		if e.Key == "" {
			return fmt.Errorf("binding %d: %w", i, ErrEmptyKey)
		}
		if err := e.Binding.validate(); err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, e.Key, err)
		}
	}
	return nil
}

// Clone returns a shallow copy. Bindings are values, but their callbacks
// are shared.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	c := &Set{
		entries: make([]Entry, len(s.entries)),
		index:   make(map[string]int, len(s.index)),
	}
	copy(c.entries, s.entries)
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}
