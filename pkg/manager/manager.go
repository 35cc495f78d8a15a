// Package manager owns the rule list lifecycle: loading it from a
// store, enriching it with contact display names, keeping it sorted,
// persisting the normalized form, and publishing changes to observers.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/recwise/recrules/pkg/contact"
	"github.com/recwise/recrules/pkg/log"
	"github.com/recwise/recrules/pkg/rule"
	"github.com/recwise/recrules/pkg/store"
)

// Manager serializes every rule list operation behind one mutex. Each
// mutating operation runs a full load, resolve, sort, persist cycle and
// broadcasts the resulting snapshot to subscribers.
type Manager struct {
	store     store.Store
	directory contact.Directory
	tracer    trace.Tracer
	watcher   *fsnotify.Watcher
	watchPath string
	rules     []rule.DisplayRule
	messages  []Message
	listeners []chan<- Event
	mu        sync.Mutex
}

// Opt configures a [Manager] during construction.
type Opt func(*Manager) error

// WithWatchPath makes the manager watch the given settings file and
// reload on external changes. Collect updates via [Manager.Subscribe]
// after starting [Manager.RunOnEvent].
func WithWatchPath(path string) Opt {
	return func(m *Manager) error {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve watch path: %w", err)
		}

		// The file itself may not exist yet, so watch its directory.
		dir := filepath.Dir(absPath)

		err = os.MkdirAll(dir, 0o700)
		if err != nil {
			return fmt.Errorf("create watch directory: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create fsnotify watcher: %w", err)
		}

		err = watcher.Add(dir)
		if err != nil {
			cErr := watcher.Close()

			return fmt.Errorf("watch %s: %w", dir, errors.Join(err, cErr))
		}

		m.watcher = watcher
		m.watchPath = absPath

		return nil
	}
}

// New creates a [Manager] reading rules from st and display names
// from dir.
func New(st store.Store, dir contact.Directory, opts ...Opt) (*Manager, error) {
	m := &Manager{
		store:     st,
		directory: dir,
		tracer:    otel.Tracer("rule-manager"),
	}

	for _, opt := range opts {
		err := opt(m)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Load reads the stored rules (or the defaults when nothing is
// stored), resolves display names, sorts, persists the normalized
// list, and publishes the new snapshot.
func (m *Manager) Load(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "load")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.reloadLocked(ctx)
	if err != nil {
		return err
	}

	return m.commitLocked(ctx)
}

// AddContactRule resolves a contact from uri and appends a Contact
// rule with Record=true for it. A failed lookup is a logged no-op. If
// the contact already has a rule, a [MessageRuleExists] is enqueued
// and the list is unchanged; otherwise a [MessageRuleAdded] is
// enqueued.
func (m *Manager) AddContactRule(ctx context.Context, uri string) error {
	ctx, span := m.tracer.Start(ctx, "add contact rule")
	defer span.End()

	logger := log.WithContext(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.reloadLocked(ctx)
	if err != nil {
		return err
	}

	c, err := m.directory.FindByURI(uri)
	if err != nil {
		logger.WarnContext(ctx, "resolve contact, no rule added",
			slog.String("uri", uri),
			slog.Any("error", err),
		)

		return nil
	}

	for _, d := range m.rules {
		if d.Kind == rule.KindContact && d.LookupKey == c.LookupKey {
			logger.DebugContext(ctx, "contact rule already exists",
				slog.String("lookupKey", c.LookupKey),
			)
			m.enqueueLocked(ctx, Message{DisplayName: c.DisplayName, Kind: MessageRuleExists})

			return nil
		}
	}

	m.rules = append(m.rules, rule.NewDisplay(rule.NewContact(c.LookupKey, true), c.DisplayName))

	err = m.commitLocked(ctx)
	if err != nil {
		return err
	}

	m.enqueueLocked(ctx, Message{DisplayName: c.DisplayName, Kind: MessageRuleAdded})

	return nil
}

// SetRuleRecord sets the Record flag of the rule at the given position
// of the current sorted list. An out-of-range index panics: indexes
// come from a snapshot the caller just obtained, so a bad one is a
// caller bug.
func (m *Manager) SetRuleRecord(ctx context.Context, index int, record bool) error {
	ctx, span := m.tracer.Start(ctx, "set rule record")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.reloadLocked(ctx)
	if err != nil {
		return err
	}

	m.checkIndexLocked(index)

	m.rules[index].Record = record

	return m.commitLocked(ctx)
}

// DeleteRule removes the rule at the given position of the current
// sorted list. An out-of-range index panics.
func (m *Manager) DeleteRule(ctx context.Context, index int) error {
	ctx, span := m.tracer.Start(ctx, "delete rule")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.reloadLocked(ctx)
	if err != nil {
		return err
	}

	m.checkIndexLocked(index)

	m.rules = slices.Delete(m.rules, index, index+1)

	return m.commitLocked(ctx)
}

// Reset clears the stored override and reloads the defaults.
func (m *Manager) Reset(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "reset")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear stored rules: %w", err)
	}

	m.broadcastLocked(ctx, EventReset{})

	err = m.reloadLocked(ctx)
	if err != nil {
		return err
	}

	return m.commitLocked(ctx)
}

// Evaluate decides whether a call from the given number should be
// recorded under the current rules. Any directory failure is treated
// as an unknown caller.
func (m *Manager) Evaluate(ctx context.Context, number string) (bool, error) {
	ctx, span := m.tracer.Start(ctx, "evaluate")
	defer span.End()

	logger := log.WithContext(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rules == nil {
		err := m.reloadLocked(ctx)
		if err != nil {
			return false, err
		}
	}

	call := rule.Call{Number: number}

	c, err := m.directory.FindByNumber(number)
	if err != nil {
		logger.DebugContext(ctx, "caller not resolved",
			slog.String("number", number),
			slog.Any("error", err),
		)
	} else {
		call.Known = true
		call.LookupKey = c.LookupKey
	}

	record, err := rule.Decide(rule.Strip(m.rules), call)
	if err != nil {
		return false, fmt.Errorf("decide: %w", err)
	}

	return record, nil
}

// AcknowledgeFirstMessage pops the oldest pending message.
func (m *Manager) AcknowledgeFirstMessage() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.messages) == 0 {
		return Message{}, false
	}

	msg := m.messages[0]
	m.messages = m.messages[1:]

	return msg, true
}

// Rules returns a copy of the current sorted snapshot.
func (m *Manager) Rules() []rule.DisplayRule {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.rules)
}

// Messages returns a copy of the pending message queue.
func (m *Manager) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.messages)
}

// Subscribe allows other components to listen for rule list events.
func (m *Manager) Subscribe(ch chan<- Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, ch)
}

// RunOnEvent listens for file system events on the watched settings
// file and reloads in response. It returns when the watcher closes.
func (m *Manager) RunOnEvent() {
	if m.watcher == nil {
		return
	}

	for {
		select {
		case evt, ok := <-m.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(evt.Name) != m.watchPath {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			ctx := context.Background()

			err := m.Load(ctx)
			if err != nil {
				log.WithContext(ctx).ErrorContext(ctx, "reload rules",
					slog.String("event", evt.String()),
					slog.Any("error", err),
				)
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}

			slog.Error("watch rules file", slog.Any("error", err))
		}
	}
}

// Close stops the settings file watcher, if any.
func (m *Manager) Close() {
	if m.watcher == nil {
		return
	}

	err := m.watcher.Close()
	if err != nil {
		slog.Error("close watcher", slog.Any("error", err))
	}
}

// reloadLocked rebuilds the sorted display snapshot from the store.
func (m *Manager) reloadLocked(ctx context.Context) error {
	rules, ok, err := m.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("get stored rules: %w", err)
	}

	if !ok {
		rules = rule.Default()
	}

	display := make([]rule.DisplayRule, 0, len(rules))
	for _, r := range rules {
		display = append(display, rule.NewDisplay(r, m.resolveName(ctx, r)))
	}

	rule.Sort(display)

	m.rules = display

	return nil
}

// resolveName looks up the display name for a contact rule. Every
// failure degrades to an absent name.
func (m *Manager) resolveName(ctx context.Context, r rule.Rule) string {
	if r.Kind != rule.KindContact {
		return ""
	}

	c, err := m.directory.FindByKey(r.LookupKey)
	if err != nil {
		log.WithContext(ctx).DebugContext(ctx, "resolve display name",
			slog.String("lookupKey", r.LookupKey),
			slog.Any("error", err),
		)

		return ""
	}

	return c.DisplayName
}

// commitLocked sorts, persists the normalized list, and publishes the
// snapshot. A list equal to the defaults is persisted as "nothing
// stored" so the defaults can evolve.
func (m *Manager) commitLocked(ctx context.Context) error {
	rule.Sort(m.rules)

	stripped := rule.Strip(m.rules)

	var err error
	if rule.Equal(stripped, rule.Default()) {
		err = m.store.Clear(ctx)
	} else {
		err = m.store.Set(ctx, stripped)
	}

	if err != nil {
		return fmt.Errorf("persist rules: %w", err)
	}

	m.broadcastLocked(ctx, EventRules{Rules: slices.Clone(m.rules)})

	return nil
}

func (m *Manager) enqueueLocked(ctx context.Context, msg Message) {
	m.messages = append(m.messages, msg)
	m.broadcastLocked(ctx, EventMessage{Message: msg})
}

func (m *Manager) broadcastLocked(ctx context.Context, evt Event) {
	log.WithContext(ctx).DebugContext(ctx, "broadcasting event",
		slog.String("event", fmt.Sprintf("%T", evt)),
	)

	for _, ch := range m.listeners {
		ch <- evt
	}
}

func (m *Manager) checkIndexLocked(index int) {
	if index < 0 || index >= len(m.rules) {
		panic(fmt.Sprintf("rule index %d out of range [0,%d)", index, len(m.rules)))
	}
}
