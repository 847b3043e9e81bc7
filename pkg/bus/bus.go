// Package bus carries out-of-band selection signals between wizard
// components. The review panel publishes here when it changes a selected-
// names list behind a picker's back; each picker subscribes and patches its
// own map. Events are typed per payload and addressed by catalog kind, so a
// picker never has to string-match event names to know whether a signal is
// for it.
package bus

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/veldhuizen/scopick/pkg/catalog"
)

// ItemToggled reports that the sender flipped one item in the host list it
// owns. Selected carries the new state; the original UI only ever sends
// false (a summary-panel deselect), but the payload allows both.
type ItemToggled struct {
	Kind     catalog.Kind
	Name     string
	Selected bool
}

// SelectionCleared reports that the sender emptied the host list for one
// kind. Clearing both kinds is two events, never one.
type SelectionCleared struct {
	Kind catalog.Kind
}

// Bus is a synchronous in-process event bus scoped to one wizard session.
// Dispatch happens inline on the publisher's goroutine, which makes it safe
// for use from the Bubble Tea Update loop; the mutex only guards the
// subscriber slices so registration from other goroutines cannot race a
// publish.
type Bus struct {
	logger zerolog.Logger

	mu        sync.Mutex
	itemSubs  []func(ItemToggled)
	clearSubs []func(SelectionCleared)
}

// New creates a bus that logs nowhere. Use NewWithLogger when a session log
// is available.
func New() *Bus {
	return &Bus{logger: zerolog.Nop()}
}

// NewWithLogger creates a bus that records publishes and subscriber panics
// to the given logger.
func NewWithLogger(logger zerolog.Logger) *Bus {
	return &Bus{logger: logger}
}

// SubscribeItemToggled registers a callback for item events.
func (b *Bus) SubscribeItemToggled(fn func(ItemToggled)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.itemSubs = append(b.itemSubs, fn)
}

// SubscribeSelectionCleared registers a callback for clear events.
func (b *Bus) SubscribeSelectionCleared(fn func(SelectionCleared)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearSubs = append(b.clearSubs, fn)
}

// PublishItemToggled dispatches an item event to every subscriber inline.
func (b *Bus) PublishItemToggled(ev ItemToggled) {
	b.logger.Debug().
		Str("kind", ev.Kind.String()).
		Str("name", ev.Name).
		Bool("selected", ev.Selected).
		Msg("publish item toggled")

	b.mu.Lock()
	subs := make([]func(ItemToggled), len(b.itemSubs))
	copy(subs, b.itemSubs)
	b.mu.Unlock()

	for _, fn := range subs {
		b.dispatch("item_toggled", func() { fn(ev) })
	}
}

// PublishSelectionCleared dispatches a clear event to every subscriber
// inline.
func (b *Bus) PublishSelectionCleared(ev SelectionCleared) {
	b.logger.Debug().
		Str("kind", ev.Kind.String()).
		Msg("publish selection cleared")

	b.mu.Lock()
	subs := make([]func(SelectionCleared), len(b.clearSubs))
	copy(subs, b.clearSubs)
	b.mu.Unlock()

	for _, fn := range subs {
		b.dispatch("selection_cleared", func() { fn(ev) })
	}
}

// dispatch shields the publisher from a panicking subscriber: one broken
// handler must not take down the whole update loop.
func (b *Bus) dispatch(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("event", event).
				Interface("panic", r).
				Msg("subscriber panicked")
		}
	}()
	fn()
}
