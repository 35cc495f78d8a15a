package contact

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Static is an in-memory [Directory], primarily for tests. It can be
// told to fail every lookup with an arbitrary error.
type Static struct {
	err      error
	contacts []Contact
	mu       sync.RWMutex
}

var _ Directory = (*Static)(nil)

// NewStatic creates a directory holding the given contacts.
func NewStatic(contacts ...Contact) *Static {
	return &Static{contacts: contacts}
}

// SetError makes every subsequent lookup fail with err.
// Pass nil to restore normal behavior.
func (s *Static) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// Rename updates the display name of the contact with the given key.
func (s *Static) Rename(key, displayName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.contacts {
		if s.contacts[i].LookupKey == key {
			s.contacts[i].DisplayName = displayName

			return true
		}
	}

	return false
}

func (s *Static) FindByKey(key string) (Contact, error) {
	return s.find(func(c Contact) bool {
		return c.LookupKey == key
	}, fmt.Sprintf("key %q", key))
}

func (s *Static) FindByURI(uri string) (Contact, error) {
	return s.find(func(c Contact) bool {
		if c.URI != "" && c.URI == uri {
			return true
		}

		return strings.TrimPrefix(uri, "contacts:") == c.LookupKey
	}, fmt.Sprintf("uri %q", uri))
}

func (s *Static) FindByNumber(number string) (Contact, error) {
	want := NormalizeNumber(number)

	return s.find(func(c Contact) bool {
		return slices.ContainsFunc(c.Numbers, func(n string) bool {
			return NormalizeNumber(n) == want
		})
	}, fmt.Sprintf("number %q", number))
}

func (s *Static) find(match func(Contact) bool, query string) (Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return Contact{}, s.err
	}

	for _, c := range s.contacts {
		if match(c) {
			return c, nil
		}
	}

	return Contact{}, fmt.Errorf("%s: %w", query, ErrNotFound)
}
