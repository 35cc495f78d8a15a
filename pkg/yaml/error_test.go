package yaml_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recwise/recrules/pkg/yaml"
)

func TestErrorWrapper_Wrap(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		ew := yaml.NewErrorWrapper()
		require.NoError(t, ew.Wrap(nil))
	})

	t.Run("plain error passes through", func(t *testing.T) {
		t.Parallel()

		ew := yaml.NewErrorWrapper(yaml.WithSource([]byte("a: b")))
		err := errors.New("boom")
		assert.Equal(t, err, ew.Wrap(err))
	})

	t.Run("yaml error gets source attached", func(t *testing.T) {
		t.Parallel()

		src := []byte("rules:\n  - kind: AllCalls\n")
		ew := yaml.NewErrorWrapper(yaml.WithSource(src))

		yamlErr := &yaml.Error{
			Err:  errors.New("bad value"),
			Path: yaml.NewPathBuilder().Root().Child("rules").Build(),
		}

		wrapped := ew.Wrap(yamlErr)

		got := &yaml.Error{}
		require.ErrorAs(t, wrapped, &got)
		assert.Equal(t, src, got.Source)
	})
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	t.Run("decode error carries position", func(t *testing.T) {
		t.Parallel()

		var v struct {
			Count int `json:"count"`
		}

		dec := yaml.NewDecoder(bytes.NewReader([]byte("count: notanumber\n")))
		err := dec.Decode(&v)
		require.Error(t, err)

		yamlErr := &yaml.Error{}
		require.ErrorAs(t, err, &yamlErr)
		assert.NotEmpty(t, yamlErr.Error())
	})

	t.Run("path error annotates source", func(t *testing.T) {
		t.Parallel()

		src := []byte("kind: RuleSet\nrules: 42\n")
		e := &yaml.Error{
			Err:    errors.New("expected array"),
			Path:   yaml.NewPathBuilder().Root().Child("rules").Build(),
			Source: src,
		}

		msg := e.Error()
		assert.Contains(t, msg, "$.rules")
		assert.Contains(t, msg, "expected array")
	})
}
