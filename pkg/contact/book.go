package contact

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/recwise/recrules/api/v1beta1/contactbooks"
)

// Book is a [Directory] backed by a ContactBook document on disk.
// The document is re-read on every lookup so edits take effect
// immediately. An absent document behaves as an empty, readable book.
type Book struct {
	path string
}

var _ Directory = (*Book)(nil)

// NewBook creates a file-backed directory at the given path.
func NewBook(path string) *Book {
	return &Book{path: path}
}

// Path returns the path of the backing document.
func (b *Book) Path() string {
	return b.path
}

func (b *Book) FindByKey(key string) (Contact, error) {
	return b.find(func(c Contact) bool {
		return c.LookupKey == key
	}, fmt.Sprintf("key %q", key))
}

func (b *Book) FindByURI(uri string) (Contact, error) {
	return b.find(func(c Contact) bool {
		if c.URI != "" && c.URI == uri {
			return true
		}
		// Accept the canonical "contacts:<key>" form even when the entry
		// doesn't carry an explicit URI.
		return strings.TrimPrefix(uri, "contacts:") == c.LookupKey
	}, fmt.Sprintf("uri %q", uri))
}

func (b *Book) FindByNumber(number string) (Contact, error) {
	want := NormalizeNumber(number)

	return b.find(func(c Contact) bool {
		for _, n := range c.Numbers {
			if NormalizeNumber(n) == want {
				return true
			}
		}

		return false
	}, fmt.Sprintf("number %q", number))
}

func (b *Book) find(match func(Contact) bool, query string) (Contact, error) {
	contacts, err := b.load()
	if err != nil {
		return Contact{}, err
	}

	for _, c := range contacts {
		if match(c) {
			return c, nil
		}
	}

	return Contact{}, fmt.Errorf("%s: %w", query, ErrNotFound)
}

func (b *Book) load() ([]Contact, error) {
	cb, err := contactbooks.LoadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load contact book: %w", err)
	}

	if cb.Permission == contactbooks.PermissionDenied {
		return nil, ErrPermissionDenied
	}

	contacts := make([]Contact, len(cb.Contacts))
	for i, entry := range cb.Contacts {
		contacts[i] = Contact{
			LookupKey:   entry.LookupKey,
			DisplayName: entry.DisplayName,
			URI:         entry.URI,
			Numbers:     entry.Numbers,
		}
	}

	return contacts, nil
}
