package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recwise/recrules/pkg/rule"
)

func TestRule_MatchCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule rule.Rule
		call rule.Call
		want bool
	}{
		{
			name: "contact rule matches its contact",
			rule: rule.NewContact("k1", true),
			call: rule.Call{Number: "+15550001", LookupKey: "k1", Known: true},
			want: true,
		},
		{
			name: "contact rule ignores other contacts",
			rule: rule.NewContact("k1", true),
			call: rule.Call{Number: "+15550002", LookupKey: "k2", Known: true},
			want: false,
		},
		{
			name: "contact rule ignores unknown callers",
			rule: rule.NewContact("k1", true),
			call: rule.Call{Number: "+15550003"},
			want: false,
		},
		{
			name: "unknown rule matches unknown callers",
			rule: rule.NewUnknownCalls(false),
			call: rule.Call{Number: "+15550003"},
			want: true,
		},
		{
			name: "unknown rule ignores known callers",
			rule: rule.NewUnknownCalls(false),
			call: rule.Call{Number: "+15550001", LookupKey: "k1", Known: true},
			want: false,
		},
		{
			name: "all calls matches everything",
			rule: rule.NewAllCalls(true),
			call: rule.Call{Number: "+15550003"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.NoError(t, tt.rule.CompileMatch())
			assert.Equal(t, tt.want, tt.rule.MatchCall(tt.call))
		})
	}
}

func TestRule_MatchCall_PanicsWithoutCompile(t *testing.T) {
	t.Parallel()

	r := rule.NewAllCalls(true)

	assert.Panics(t, func() {
		r.MatchCall(rule.Call{})
	})
}

func TestDecide(t *testing.T) {
	t.Parallel()

	// Sorted order: contact, unknown, all.
	rules := []rule.Rule{
		rule.NewContact("k1", false),
		rule.NewUnknownCalls(false),
		rule.NewAllCalls(true),
	}

	tests := []struct {
		name string
		call rule.Call
		want bool
	}{
		{
			name: "contact rule wins over catch-all",
			call: rule.Call{Number: "+15550001", LookupKey: "k1", Known: true},
			want: false,
		},
		{
			name: "unknown caller hits the unknown rule",
			call: rule.Call{Number: "+15559999"},
			want: false,
		},
		{
			name: "known caller without contact rule hits the catch-all",
			call: rule.Call{Number: "+15550002", LookupKey: "k2", Known: true},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rs := make([]rule.Rule, len(rules))
			copy(rs, rules)

			got, err := rule.Decide(rs, tt.call)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecide_EmptyList(t *testing.T) {
	t.Parallel()

	got, err := rule.Decide(nil, rule.Call{Number: "+15550001"})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestDecide_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := rule.Decide([]rule.Rule{{Kind: "SomeCalls"}}, rule.Call{})
	require.ErrorIs(t, err, rule.ErrUnknownKind)
}
