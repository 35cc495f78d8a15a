// Package store persists the recording rule list.
//
// A store distinguishes "no stored rules" from "an empty override":
// [Store.Get] reports ok=false when nothing usable is stored, in which
// case callers should fall back to the built-in defaults.
package store

import (
	"context"

	"github.com/recwise/recrules/pkg/rule"
)

// Store reads and writes the persisted rule list.
type Store interface {
	// Get returns the stored rules. ok is false when no usable rule list
	// is stored, in which case rules is nil.
	Get(ctx context.Context) (rules []rule.Rule, ok bool, err error)
	// Set replaces the stored rules.
	Set(ctx context.Context, rules []rule.Rule) error
	// Clear removes any stored rules, reverting to defaults.
	Clear(ctx context.Context) error
}
