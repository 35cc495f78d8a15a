package rule

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/cel-go/cel"

	"github.com/recwise/recrules/pkg/expr"
)

// Kind discriminates the closed set of rule variants. Switches over Kind
// must be exhaustive; adding a new variant forces updates at the
// persistence-mapping, sort-comparison, and match-compilation sites.
type Kind string

const (
	// KindContact records calls from one specific contact.
	KindContact Kind = "Contact"
	// KindUnknownCalls records calls from numbers with no contact entry.
	KindUnknownCalls Kind = "UnknownCalls"
	// KindAllCalls records every call.
	KindAllCalls Kind = "AllCalls"
)

var (
	ErrUnknownKind = errors.New("unknown rule kind")
	ErrInvalidRule = errors.New("invalid rule")
)

// Rule is one entry of the recording policy, in its persisted form.
// The persisted form never carries a display name.
type Rule struct {
	matchProgram cel.Program // Compiled CEL program for call matching.

	// Kind selects the rule variant.
	Kind Kind `json:"kind" jsonschema:"title=Rule Kind,enum=Contact,enum=UnknownCalls,enum=AllCalls"`
	// LookupKey is the stable contact identifier; set only for Contact rules.
	LookupKey string `json:"lookupKey,omitempty" jsonschema:"title=Contact Lookup Key"`
	// Record decides whether matching calls are recorded.
	Record bool `json:"record" jsonschema:"title=Record Flag"`
}

// NewContact creates a rule recording (or ignoring) one specific contact.
func NewContact(lookupKey string, record bool) Rule {
	return Rule{Kind: KindContact, LookupKey: lookupKey, Record: record}
}

// NewUnknownCalls creates a rule covering callers without a contact entry.
func NewUnknownCalls(record bool) Rule {
	return Rule{Kind: KindUnknownCalls, Record: record}
}

// NewAllCalls creates the catch-all rule.
func NewAllCalls(record bool) Rule {
	return Rule{Kind: KindAllCalls, Record: record}
}

// Default returns the built-in rule list used when no override is stored:
// unknown callers are not recorded, everything else is.
func Default() []Rule {
	return []Rule{
		NewUnknownCalls(false),
		NewAllCalls(true),
	}
}

// Validate checks the variant invariants.
func (r *Rule) Validate() error {
	switch r.Kind {
	case KindContact:
		if r.LookupKey == "" {
			return fmt.Errorf("%w: contact rule requires a lookup key", ErrInvalidRule)
		}

		return nil

	case KindUnknownCalls, KindAllCalls:
		if r.LookupKey != "" {
			return fmt.Errorf("%w: %s rule must not carry a lookup key", ErrInvalidRule, r.Kind)
		}

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
}

// MatchExpression returns the CEL expression implementing the rule's
// match criterion over call variables.
func (r *Rule) MatchExpression() (string, error) {
	switch r.Kind {
	case KindContact:
		return "known && lookupKey == " + strconv.Quote(r.LookupKey), nil
	case KindUnknownCalls:
		return "!known", nil
	case KindAllCalls:
		return "true", nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
}

// CompileMatch compiles the rule's match criterion into a CEL program.
func (r *Rule) CompileMatch() error {
	if r.matchProgram != nil {
		return nil
	}

	expression, err := r.MatchExpression()
	if err != nil {
		return err
	}

	env, err := expr.NewEnvironment()
	if err != nil {
		return fmt.Errorf("create CEL environment: %w", err)
	}

	program, err := env.Compile(expression)
	if err != nil {
		return fmt.Errorf("compile match expression: %w", err)
	}

	r.matchProgram = program

	return nil
}

// Equal reports whether two persisted rule lists are structurally equal.
// Used to detect when a stored override can fall back to [Default].
func Equal(a, b []Rule) bool {
	return slices.EqualFunc(a, b, func(x, y Rule) bool {
		return x.Kind == y.Kind && x.LookupKey == y.LookupKey && x.Record == y.Record
	})
}

func (r *Rule) String() string {
	switch r.Kind {
	case KindContact:
		return fmt.Sprintf("contact %s: record=%t", r.LookupKey, r.Record)
	case KindUnknownCalls:
		return fmt.Sprintf("unknown calls: record=%t", r.Record)
	case KindAllCalls:
		return fmt.Sprintf("all calls: record=%t", r.Record)
	}

	return fmt.Sprintf("unknown rule kind %q", r.Kind)
}
