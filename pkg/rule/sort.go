package rule

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// kindRank orders rule variants: specific contacts first, then the
// unknown-calls rule, then the catch-all.
func kindRank(k Kind) int {
	switch k {
	case KindContact:
		return 0
	case KindUnknownCalls:
		return 1
	case KindAllCalls:
		return 2
	}

	// Unknown kinds are rejected by Validate; order them last so the
	// sort stays total regardless.
	return 3
}

// Sort orders rules by the fixed display policy: contact rules first,
// by display name ascending (locale-aware, case-insensitive); contacts
// with an absent name sort after those with one, then by lookup key;
// then unknown calls, then all calls. Remaining ties are broken by the
// record flag (false first). The order is total, so sorting is
// idempotent and stable across loads.
func Sort(rules []DisplayRule) {
	c := collate.New(language.Und, collate.IgnoreCase)

	slices.SortStableFunc(rules, func(a, b DisplayRule) int {
		return compareDisplay(c, a, b)
	})
}

func compareDisplay(c *collate.Collator, a, b DisplayRule) int {
	if n := cmp.Compare(kindRank(a.Kind), kindRank(b.Kind)); n != 0 {
		return n
	}

	if a.Kind == KindContact {
		switch {
		case a.HasDisplayName() && !b.HasDisplayName():
			return -1
		case !a.HasDisplayName() && b.HasDisplayName():
			return 1
		case a.HasDisplayName() && b.HasDisplayName():
			if n := c.CompareString(a.Name(), b.Name()); n != 0 {
				return n
			}
		}

		if n := strings.Compare(a.LookupKey, b.LookupKey); n != 0 {
			return n
		}
	}

	return compareBool(a.Record, b.Record)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}

	return 1
}
