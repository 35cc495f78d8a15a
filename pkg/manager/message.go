package manager

// MessageKind identifies the outcome of an add operation.
type MessageKind int

const (
	// MessageRuleAdded indicates a new contact rule was created.
	MessageRuleAdded MessageKind = iota
	// MessageRuleExists indicates the contact already had a rule.
	MessageRuleExists
)

func (k MessageKind) String() string {
	switch k {
	case MessageRuleAdded:
		return "RuleAdded"
	case MessageRuleExists:
		return "RuleExists"
	}

	return "Unknown"
}

// Message is a pending user-facing notification. Messages queue in FIFO
// order and are consumed with [Manager.AcknowledgeFirstMessage].
type Message struct {
	// DisplayName is the contact's name for UX. May be empty.
	DisplayName string
	// Kind is the notification type.
	Kind MessageKind
}
