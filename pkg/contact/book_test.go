package contact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recwise/recrules/pkg/contact"
)

func writeBook(t *testing.T, doc string) *contact.Book {
	t.Helper()

	path := filepath.Join(t.TempDir(), "contacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	return contact.NewBook(path)
}

const sampleBook = `
apiVersion: recrules.recwise.io/v1beta1
kind: ContactBook
contacts:
  - lookupKey: k1
    displayName: Alice
    uri: contacts:k1
    numbers: ["+1 (555) 010-0001"]
  - lookupKey: k2
    numbers: ["+15550100002"]
`

func TestBookFindByKey(t *testing.T) {
	t.Parallel()

	b := writeBook(t, sampleBook)

	c, err := b.FindByKey("k1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.DisplayName)

	c, err = b.FindByKey("k2")
	require.NoError(t, err)
	assert.Empty(t, c.DisplayName)

	_, err = b.FindByKey("nope")
	assert.ErrorIs(t, err, contact.ErrNotFound)
}

func TestBookFindByURI(t *testing.T) {
	t.Parallel()

	b := writeBook(t, sampleBook)

	c, err := b.FindByURI("contacts:k1")
	require.NoError(t, err)
	assert.Equal(t, "k1", c.LookupKey)

	// Entries without an explicit uri still match the canonical form.
	c, err = b.FindByURI("contacts:k2")
	require.NoError(t, err)
	assert.Equal(t, "k2", c.LookupKey)

	_, err = b.FindByURI("contacts:k3")
	assert.ErrorIs(t, err, contact.ErrNotFound)
}

func TestBookFindByNumber(t *testing.T) {
	t.Parallel()

	b := writeBook(t, sampleBook)

	c, err := b.FindByNumber("+15550100001")
	require.NoError(t, err)
	assert.Equal(t, "k1", c.LookupKey, "formatting differences must not matter")

	_, err = b.FindByNumber("+15550109999")
	assert.ErrorIs(t, err, contact.ErrNotFound)
}

func TestBookPermissionDenied(t *testing.T) {
	t.Parallel()

	b := writeBook(t, `
apiVersion: recrules.recwise.io/v1beta1
kind: ContactBook
permission: denied
contacts:
  - lookupKey: k1
    displayName: Alice
`)

	_, err := b.FindByKey("k1")
	assert.ErrorIs(t, err, contact.ErrPermissionDenied)
}

func TestBookAbsentFile(t *testing.T) {
	t.Parallel()

	b := contact.NewBook(filepath.Join(t.TempDir(), "contacts.yaml"))

	_, err := b.FindByKey("k1")
	assert.ErrorIs(t, err, contact.ErrNotFound, "an absent book is an empty book")
}

func TestNormalizeNumber(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"already normalized": {input: "+15550100", want: "+15550100"},
		"spaces and dashes":  {input: "+1 555-010-0001", want: "+15550100001"},
		"parentheses":        {input: "(555) 010 0001", want: "5550100001"},
		"interior plus":      {input: "555+010", want: "555010"},
		"empty":              {input: "", want: ""},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, contact.NormalizeNumber(tc.input))
		})
	}
}

func TestStatic(t *testing.T) {
	t.Parallel()

	s := contact.NewStatic(
		contact.Contact{LookupKey: "k1", DisplayName: "Alice", Numbers: []string{"+15550100001"}},
		contact.Contact{LookupKey: "k2"},
	)

	c, err := s.FindByKey("k1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.DisplayName)

	c, err = s.FindByURI("contacts:k2")
	require.NoError(t, err)
	assert.Equal(t, "k2", c.LookupKey)

	c, err = s.FindByNumber("+1 555 010 0001")
	require.NoError(t, err)
	assert.Equal(t, "k1", c.LookupKey)

	require.True(t, s.Rename("k1", "Alicia"))

	c, err = s.FindByKey("k1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", c.DisplayName)

	s.SetError(contact.ErrPermissionDenied)

	_, err = s.FindByKey("k1")
	assert.ErrorIs(t, err, contact.ErrPermissionDenied)
}
