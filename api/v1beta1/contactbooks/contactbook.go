// Package contactbooks provides the persisted ContactBook document type.
//
// A ContactBook is the on-disk stand-in for a platform contact
// directory: a permission state plus a list of contact entries.
package contactbooks

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/recwise/recrules/api"
	"github.com/recwise/recrules/api/v1beta1"
	"github.com/recwise/recrules/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/contactbook/main.go -o contactbooks.v1beta1.json

// Permission states for the contact directory.
const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
)

var (
	//go:embed contacts.yaml
	defaultContactsYAML []byte

	//go:embed contactbooks.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for contact book documents.
	ValidKinds = []string{"ContactBook"}

	// DefaultValidator validates contact book documents against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/contactbooks.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*ContactBook)(nil)
)

// Entry is a single contact in the book.
type Entry struct {
	// LookupKey is the stable identifier for the contact.
	LookupKey string `json:"lookupKey" jsonschema:"title=Lookup Key,required"`
	// DisplayName is the human-readable name. May be empty.
	DisplayName string `json:"displayName,omitempty" jsonschema:"title=Display Name"`
	// URI is an optional opaque locator for the contact.
	URI string `json:"uri,omitempty" jsonschema:"title=Contact URI"`
	// Numbers lists the contact's phone numbers.
	Numbers []string `json:"numbers,omitempty" jsonschema:"title=Phone Numbers"`
}

// ContactBook is the persisted form of the contact directory.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type ContactBook struct {
	// Permission gates all lookups. "denied" makes every lookup fail.
	Permission string `json:"permission,omitempty" jsonschema:"title=Directory Permission,enum=granted,enum=denied,default=granted"`

	// Contacts lists the entries in the book.
	Contacts []Entry `json:"contacts,omitempty" jsonschema:"title=Contacts"`

	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new empty [ContactBook] with type metadata set.
func New() *ContactBook {
	cb := &ContactBook{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       "ContactBook",
		},
	}
	cb.EnsureDefaults()

	return cb
}

// EnsureDefaults initializes unset fields to their default values.
func (cb *ContactBook) EnsureDefaults() {
	if cb.Permission == "" {
		cb.Permission = PermissionGranted
	}
}

// Validate checks requirements the schema can't represent.
func (cb *ContactBook) Validate() error {
	seen := make(map[string]struct{}, len(cb.Contacts))

	for i, entry := range cb.Contacts {
		if entry.LookupKey == "" {
			return fmt.Errorf("contact %d: lookup key must not be empty", i)
		}

		if _, ok := seen[entry.LookupKey]; ok {
			return fmt.Errorf("contact %d: duplicate lookup key %q", i, entry.LookupKey)
		}

		seen[entry.LookupKey] = struct{}{}
	}

	return nil
}

func (cb ContactBook) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the document to YAML.
func (cb ContactBook) MarshalYAML() ([]byte, error) {
	type alias ContactBook

	b, err := api.MarshalYAML(alias(cb))
	if err != nil {
		return nil, fmt.Errorf("marshal contact book: %w", err)
	}

	return b, nil
}

// Load parses and validates a contact book document.
func Load(data []byte) (*ContactBook, error) {
	ew := yaml.NewErrorWrapper(yaml.WithSource(data))

	var anyDoc any

	dec := yaml.NewDecoder(bytes.NewReader(data))

	err := dec.Decode(&anyDoc)
	if err != nil {
		return nil, ew.Wrap(err)
	}

	err = DefaultValidator.Validate(anyDoc)
	if err != nil {
		return nil, ew.Wrap(err)
	}

	cb := New()

	dec = yaml.NewDecoder(bytes.NewReader(data))

	err = dec.Decode(cb)
	if err != nil {
		return nil, ew.Wrap(err)
	}

	cb.EnsureDefaults()

	err = cb.Validate()
	if err != nil {
		return nil, ew.Wrap(err)
	}

	return cb, nil
}

// LoadFile reads and parses a contact book document from disk.
func LoadFile(path string) (*ContactBook, error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return Load(data)
}

// WriteDefault writes the embedded default contacts.yaml to the specified
// path, plus the JSON schema alongside it.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultContactsYAML, force, "contact book")
	if err != nil {
		return fmt.Errorf("write default contact book: %w", err)
	}

	schemaPath := filepath.Join(filepath.Dir(path), "contactbooks.v1beta1.json")

	err = api.WriteFile(schemaPath, schemaJSON)
	if err != nil {
		return fmt.Errorf("write contact book schema: %w", err)
	}

	return nil
}

// GetPath returns the path to the contact book file.
func GetPath() string {
	return api.GetConfigPath("contacts.yaml")
}
