package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recwise/recrules/pkg/yaml"
)

func TestSchemaGenerator(t *testing.T) {
	t.Parallel()

	type document struct {
		Name  string `json:"name"`
		Count int    `json:"count,omitempty"`
	}

	gen := yaml.NewSchemaGenerator(&document{})

	data, err := gen.Generate()
	require.NoError(t, err)

	got := string(data)
	assert.Contains(t, got, `"name"`)
	assert.Contains(t, got, `"count"`)
	assert.Contains(t, got, "json-schema.org")
}
