package rule

// DisplayRule is a [Rule] enriched with a transient display name for UI
// purposes. The name is resolved from the contact directory at load time
// and is never written back to storage; a nil DisplayName means the
// lookup was denied, failed, or found nothing.
type DisplayRule struct {
	DisplayName *string `json:"-"`

	Rule
}

// NewDisplay wraps a rule with an optional display name.
// An empty name is treated as absent.
func NewDisplay(r Rule, displayName string) DisplayRule {
	dr := DisplayRule{Rule: r}
	if displayName != "" {
		dr.DisplayName = &displayName
	}

	return dr
}

// HasDisplayName reports whether a display name was resolved.
func (d DisplayRule) HasDisplayName() bool {
	return d.DisplayName != nil
}

// Name returns the resolved display name, or an empty string if absent.
func (d DisplayRule) Name() string {
	if d.DisplayName == nil {
		return ""
	}

	return *d.DisplayName
}

// Strip returns the persisted form of a display rule list, with all
// display names removed.
func Strip(rules []DisplayRule) []Rule {
	raw := make([]Rule, 0, len(rules))
	for _, dr := range rules {
		raw = append(raw, dr.Rule)
	}

	return raw
}
