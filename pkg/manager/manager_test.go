package manager_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recwise/recrules/pkg/contact"
	"github.com/recwise/recrules/pkg/manager"
	"github.com/recwise/recrules/pkg/rule"
	"github.com/recwise/recrules/pkg/store"
)

func newManager(t *testing.T, contacts ...contact.Contact) (*manager.Manager, *store.Memory, *contact.Static) {
	t.Helper()

	st := store.NewMemory()
	dir := contact.NewStatic(contacts...)

	m, err := manager.New(st, dir)
	require.NoError(t, err)

	return m, st, dir
}

func alice() contact.Contact {
	return contact.Contact{
		LookupKey:   "k1",
		DisplayName: "Alice",
		URI:         "contacts:k1",
		Numbers:     []string{"+15550100001"},
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	m, st, _ := newManager(t)

	require.NoError(t, m.Load(t.Context()))

	got := m.Rules()
	require.Len(t, got, 2)
	assert.Equal(t, rule.KindUnknownCalls, got[0].Kind)
	assert.False(t, got[0].Record)
	assert.Equal(t, rule.KindAllCalls, got[1].Kind)
	assert.True(t, got[1].Record)

	_, ok, err := st.Get(t.Context())
	require.NoError(t, err)
	assert.False(t, ok, "a default list must not be persisted as an override")
}

func TestAddContactRule(t *testing.T) {
	t.Parallel()

	m, st, _ := newManager(t, alice())

	require.NoError(t, m.Load(t.Context()))
	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))

	got := m.Rules()
	require.Len(t, got, 3)
	assert.Equal(t, rule.KindContact, got[0].Kind)
	assert.Equal(t, "k1", got[0].LookupKey)
	assert.True(t, got[0].Record)
	assert.Equal(t, "Alice", got[0].Name())

	stored, ok, err := st.Get(t.Context())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored, 3)

	msg, ok := m.AcknowledgeFirstMessage()
	require.True(t, ok)
	assert.Equal(t, manager.MessageRuleAdded, msg.Kind)
	assert.Equal(t, "Alice", msg.DisplayName)

	_, ok = m.AcknowledgeFirstMessage()
	assert.False(t, ok)
}

func TestAddContactRuleDuplicate(t *testing.T) {
	t.Parallel()

	m, _, _ := newManager(t, alice())

	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))
	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))

	assert.Len(t, m.Rules(), 3, "a duplicate add must not grow the list")

	// Messages come back in FIFO order.
	msg, ok := m.AcknowledgeFirstMessage()
	require.True(t, ok)
	assert.Equal(t, manager.MessageRuleAdded, msg.Kind)

	msg, ok = m.AcknowledgeFirstMessage()
	require.True(t, ok)
	assert.Equal(t, manager.MessageRuleExists, msg.Kind)
	assert.Equal(t, "Alice", msg.DisplayName)

	_, ok = m.AcknowledgeFirstMessage()
	assert.False(t, ok)
}

func TestAddContactRuleUnresolvable(t *testing.T) {
	t.Parallel()

	m, _, _ := newManager(t)

	require.NoError(t, m.AddContactRule(t.Context(), "contacts:missing"),
		"a failed lookup is a no-op, not an error")

	assert.Len(t, m.Rules(), 2)
	assert.Empty(t, m.Messages())
}

func TestAddContactRuleSortsByName(t *testing.T) {
	t.Parallel()

	m, _, _ := newManager(t,
		alice(),
		contact.Contact{LookupKey: "k2", DisplayName: "Bob", URI: "contacts:k2"},
	)

	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k2"))
	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))

	got := m.Rules()
	require.Len(t, got, 4)
	assert.Equal(t, "Alice", got[0].Name())
	assert.Equal(t, "Bob", got[1].Name())
	assert.Equal(t, rule.KindUnknownCalls, got[2].Kind)
	assert.Equal(t, rule.KindAllCalls, got[3].Kind)
}

func TestSetRuleRecord(t *testing.T) {
	t.Parallel()

	m, st, _ := newManager(t)

	require.NoError(t, m.Load(t.Context()))
	require.NoError(t, m.SetRuleRecord(t.Context(), 1, false))

	got := m.Rules()
	require.Len(t, got, 2)
	assert.Equal(t, rule.KindUnknownCalls, got[0].Kind, "order must be stable across a toggle")
	assert.Equal(t, rule.KindAllCalls, got[1].Kind)
	assert.False(t, got[1].Record)

	stored, ok, err := st.Get(t.Context())
	require.NoError(t, err)
	require.True(t, ok, "a non-default list must be persisted")
	assert.Len(t, stored, 2)
}

func TestSetRuleRecordPanicsOutOfRange(t *testing.T) {
	t.Parallel()

	m, _, _ := newManager(t)
	require.NoError(t, m.Load(t.Context()))

	assert.Panics(t, func() {
		_ = m.SetRuleRecord(t.Context(), 5, true)
	})
	assert.Panics(t, func() {
		_ = m.DeleteRule(t.Context(), -1)
	})
}

func TestDeleteRuleRestoresDefaultState(t *testing.T) {
	t.Parallel()

	m, st, _ := newManager(t, alice())

	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))

	_, ok, err := st.Get(t.Context())
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, m.DeleteRule(t.Context(), 0))

	got := m.Rules()
	require.Len(t, got, 2)
	assert.True(t, rule.Equal(rule.Default(), rule.Strip(got)))

	_, ok, err = st.Get(t.Context())
	require.NoError(t, err)
	assert.False(t, ok, "a list equal to the defaults must clear the override")
}

func TestReset(t *testing.T) {
	t.Parallel()

	m, st, _ := newManager(t, alice())

	events := make(chan manager.Event, 16)
	m.Subscribe(events)

	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))
	require.NoError(t, m.SetRuleRecord(t.Context(), 0, false))

	require.NoError(t, m.Reset(t.Context()))

	got := m.Rules()
	assert.True(t, rule.Equal(rule.Default(), rule.Strip(got)))

	_, ok, err := st.Get(t.Context())
	require.NoError(t, err)
	assert.False(t, ok)

	var sawReset bool

	for len(events) > 0 {
		if _, isReset := (<-events).(manager.EventReset); isReset {
			sawReset = true
		}
	}

	assert.True(t, sawReset)
}

func TestLoadDegradesOnDirectoryFailure(t *testing.T) {
	t.Parallel()

	m, _, dir := newManager(t, alice())

	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))

	dir.SetError(contact.ErrPermissionDenied)

	require.NoError(t, m.Load(t.Context()), "a denied directory must not fail the load")

	got := m.Rules()
	require.Len(t, got, 3)
	assert.Equal(t, rule.KindContact, got[0].Kind)
	assert.False(t, got[0].HasDisplayName())
}

func TestRenamedContactReorders(t *testing.T) {
	t.Parallel()

	m, _, dir := newManager(t,
		alice(),
		contact.Contact{LookupKey: "k2", DisplayName: "Bob", URI: "contacts:k2"},
	)

	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))
	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k2"))

	require.True(t, dir.Rename("k1", "Zoe"))
	require.NoError(t, m.Load(t.Context()))

	got := m.Rules()
	require.Len(t, got, 4)
	assert.Equal(t, "Bob", got[0].Name())
	assert.Equal(t, "Zoe", got[1].Name())
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	m, _, _ := newManager(t,
		alice(),
		contact.Contact{LookupKey: "k2", DisplayName: "Bob", URI: "contacts:k2", Numbers: []string{"+15550100002"}},
	)

	// Alice gets an explicit do-not-record rule. Bob has no rule.
	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))
	require.NoError(t, m.SetRuleRecord(t.Context(), 0, false))

	tcs := map[string]struct {
		number string
		want   bool
	}{
		"contact rule wins over catch-alls": {number: "+15550100001", want: false},
		"known contact without a rule":      {number: "+15550100002", want: true},
		"unknown caller":                    {number: "+15550109999", want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := m.Evaluate(t.Context(), tc.number)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateDirectoryFailure(t *testing.T) {
	t.Parallel()

	m, _, dir := newManager(t, alice())

	require.NoError(t, m.Load(t.Context()))

	dir.SetError(contact.ErrPermissionDenied)

	got, err := m.Evaluate(t.Context(), "+15550100001")
	require.NoError(t, err)
	assert.False(t, got, "an unresolvable caller counts as unknown")
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	m, _, _ := newManager(t, alice())

	events := make(chan manager.Event, 16)
	m.Subscribe(events)

	require.NoError(t, m.AddContactRule(t.Context(), "contacts:k1"))

	var (
		gotRules   bool
		gotMessage bool
	)

	for len(events) > 0 {
		switch evt := (<-events).(type) {
		case manager.EventRules:
			gotRules = true

			assert.Len(t, evt.Rules, 3)
		case manager.EventMessage:
			gotMessage = true

			assert.Equal(t, manager.MessageRuleAdded, evt.Message.Kind)
		}
	}

	assert.True(t, gotRules)
	assert.True(t, gotMessage)
}
