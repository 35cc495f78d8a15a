package rule

import (
	"errors"
)

// Call describes a single call to evaluate against the rule list.
// LookupKey and Known are filled from the contact directory; a caller
// that could not be resolved (including permission denials) is Known=false.
type Call struct {
	Number    string
	LookupKey string
	Known     bool
}

// MatchCall evaluates the rule's compiled criterion against a call.
// Evaluation failures are treated as a non-match.
func (r *Rule) MatchCall(call Call) bool {
	if r.matchProgram == nil {
		panic(errors.New("rule missing a compiled match expression"))
	}

	result, _, err := r.matchProgram.Eval(map[string]any{
		"number":    call.Number,
		"lookupKey": call.LookupKey,
		"known":     call.Known,
	})
	if err != nil {
		return false
	}

	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	return false
}

// Decide returns the record flag of the first rule matching the call.
// The rules are expected in sorted order, which doubles as specificity
// order: contact rules win over the unknown-calls rule, which wins over
// the catch-all. An empty (or non-matching) list decides false.
func Decide(rules []Rule, call Call) (bool, error) {
	for i := range rules {
		r := &rules[i]

		err := r.CompileMatch()
		if err != nil {
			return false, err
		}

		if r.MatchCall(call) {
			return r.Record, nil
		}
	}

	return false, nil
}
