// Package rulesets provides the persisted RuleSet document type.
//
// A RuleSet holds the ordered call-recording rules. An absent document
// (or an empty rules list) means "use the built-in defaults".
package rulesets

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/recwise/recrules/api"
	"github.com/recwise/recrules/api/v1beta1"
	"github.com/recwise/recrules/pkg/rule"
	"github.com/recwise/recrules/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/ruleset/main.go -o rulesets.v1beta1.json

var (
	//go:embed rules.yaml
	defaultRulesYAML []byte

	//go:embed rulesets.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for rule set documents.
	ValidKinds = []string{"RuleSet"}

	// DefaultValidator validates rule set documents against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/rulesets.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*RuleSet)(nil)
)

// RuleSet is the persisted form of the recording rule list.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type RuleSet struct {
	// Rules holds the ordered recording rules. Empty means "use defaults".
	Rules []rule.Rule `json:"rules,omitempty" jsonschema:"title=Recording Rules"`

	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new empty [RuleSet] with type metadata set.
func New() *RuleSet {
	rs := &RuleSet{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       "RuleSet",
		},
	}
	rs.EnsureDefaults()

	return rs
}

// EnsureDefaults initializes unset fields to their default values.
func (rs *RuleSet) EnsureDefaults() {
	// An absent rules list is meaningful (it selects the built-in
	// defaults), so nothing is filled in here.
}

// Validate validates every rule in the document.
func (rs *RuleSet) Validate() error {
	for i := range rs.Rules {
		err := rs.Rules[i].Validate()
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}

	return nil
}

func (rs RuleSet) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the document to YAML.
func (rs RuleSet) MarshalYAML() ([]byte, error) {
	type alias RuleSet

	b, err := api.MarshalYAML(alias(rs))
	if err != nil {
		return nil, fmt.Errorf("marshal rule set: %w", err)
	}

	return b, nil
}

// Load parses and validates a rule set document.
func Load(data []byte) (*RuleSet, error) {
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

	rs := New()

	dec = yaml.NewDecoder(bytes.NewReader(data))

	err = dec.Decode(rs)
	if err != nil {
		return nil, ew.Wrap(err)
	}

	rs.EnsureDefaults()

	// Run Go validation for requirements the schema can't represent.
	err = rs.Validate()
	if err != nil {
		return nil, ew.Wrap(err)
	}

	return rs, nil
}

// LoadFile reads and parses a rule set document from disk.
func LoadFile(path string) (*RuleSet, error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return Load(data)
}

// WriteDefault writes the embedded default rules.yaml to the specified path,
// plus the JSON schema alongside it.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultRulesYAML, force, "rule set")
	if err != nil {
		return fmt.Errorf("write default rule set: %w", err)
	}

	schemaPath := filepath.Join(filepath.Dir(path), "rulesets.v1beta1.json")

	err = api.WriteFile(schemaPath, schemaJSON)
	if err != nil {
		return fmt.Errorf("write rule set schema: %w", err)
	}

	return nil
}

// GetPath returns the path to the rule set file.
func GetPath() string {
	return api.GetConfigPath("rules.yaml")
}
