package events

import (
	"log/slog"
	"sync"

	"github.com/perceptd/go-percept/internal/log"
)

// Bus fans emitted events out to per-channel subscribers. Publish runs
// synchronously on the caller's goroutine, invoking handlers in
// registration order. Each handler runs inside its own panic boundary so
// one failing subscriber cannot starve its siblings or the publisher.
//
// Subscribers that need to do slow work must hand off to their own
// goroutine and return immediately; publish happens on the pipeline's
// middle stage.
type Bus struct {
	mu      sync.RWMutex
	emotion []func(EmotionEvent)
	action  []func(ActionEvent)
	gesture []func(GestureEvent)
	logger  *slog.Logger
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{logger: log.With("component", "events")}
}

// OnEmotion registers a handler for emotion change events.
func (b *Bus) OnEmotion(fn func(EmotionEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.emotion = append(b.emotion, fn)
}

// OnAction registers a handler for action change events.
func (b *Bus) OnAction(fn func(ActionEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.action = append(b.action, fn)
}

// OnGesture registers a handler for gesture change events.
func (b *Bus) OnGesture(fn func(GestureEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gesture = append(b.gesture, fn)
}

// EmitEmotion publishes an emotion event to every emotion subscriber.
func (b *Bus) EmitEmotion(ev EmotionEvent) {
	b.mu.RLock()
	handlers := append(([]func(EmotionEvent))(nil), b.emotion...)
	b.mu.RUnlock()

	for _, fn := range handlers {
		b.safely("emotion", func() { fn(ev) })
	}
}

// EmitAction publishes an action event to every action subscriber.
func (b *Bus) EmitAction(ev ActionEvent) {
	b.mu.RLock()
	handlers := append(([]func(ActionEvent))(nil), b.action...)
	b.mu.RUnlock()

	for _, fn := range handlers {
		b.safely("action", func() { fn(ev) })
	}
}

// EmitGesture publishes a gesture event to every gesture subscriber.
func (b *Bus) EmitGesture(ev GestureEvent) {
	b.mu.RLock()
	handlers := append(([]func(GestureEvent))(nil), b.gesture...)
	b.mu.RUnlock()

	for _, fn := range handlers {
		b.safely("gesture", func() { fn(ev) })
	}
}

// safely runs one handler inside its own panic boundary.
func (b *Bus) safely(channel string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("event handler panicked", "channel", channel, "panic", r)
		}
	}()
	fn()
}
