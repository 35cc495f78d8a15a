// Package contact resolves contacts from a directory.
//
// Lookups can fail for many reasons (revoked permission, missing
// entries, unreadable backing data). Callers that only enrich display
// output should treat every failure as "no contact found".
package contact

import (
	"errors"
	"strings"
)

// Sentinel errors for directory lookups.
var (
	// ErrPermissionDenied indicates the directory cannot be read at all.
	ErrPermissionDenied = errors.New("contact directory permission denied")
	// ErrNotFound indicates no contact matched the query.
	ErrNotFound = errors.New("contact not found")
)

// Contact is a resolved directory entry.
type Contact struct {
	// LookupKey is the stable identifier for the contact.
	LookupKey string
	// DisplayName is the human-readable name. May be empty.
	DisplayName string
	// URI is an opaque locator for the contact. May be empty.
	URI string
	// Numbers lists the contact's phone numbers.
	Numbers []string
}

// Directory looks up contacts.
type Directory interface {
	// FindByKey resolves a contact by its lookup key.
	FindByKey(key string) (Contact, error)
	// FindByURI resolves a contact from an opaque locator.
	FindByURI(uri string) (Contact, error)
	// FindByNumber resolves a contact from a phone number.
	FindByNumber(number string) (Contact, error)
}

// NormalizeNumber strips formatting characters from a phone number so
// that differently formatted numbers compare equal.
func NormalizeNumber(number string) string {
	var b strings.Builder

	for _, r := range number {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	return b.String()
}
