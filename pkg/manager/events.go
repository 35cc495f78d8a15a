package manager

import "github.com/recwise/recrules/pkg/rule"

// Event is a notification delivered to subscribers.
type Event any

// EventRules carries a new sorted rule snapshot.
type EventRules struct {
	Rules []rule.DisplayRule
}

// EventMessage carries a newly enqueued [Message].
type EventMessage struct {
	Message Message
}

// EventReset signals that the stored override was cleared.
type EventReset struct{}
