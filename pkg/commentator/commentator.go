// Package commentator turns the pipeline's event stream into short
// live-commentary lines via a remote text-generation model. It subscribes
// to the event bus, batches state into periodic snapshots, and generates
// in its own goroutine so a slow model call never blocks the publisher.
package commentator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/perceptd/go-percept/internal/log"
	"github.com/perceptd/go-percept/pkg/events"
)

// Defaults for commentary pacing.
const (
	DefaultInterval    = 4 * time.Second
	DefaultHistorySize = 10
)

const systemPrompt = `You are an energetic, hype esports caster doing live onstage commentary. You're observing a person through their webcam and commentating on their emotions, actions and hand gestures in real time, like a play-by-play sports announcer.

Rules:
- Keep each line SHORT (1-2 sentences max, ~20 words)
- Be dramatic, entertaining, and funny
- Reference the specific emotion/action/gesture you see
- Vary your style, don't repeat the same phrases
- Use ALL CAPS sparingly for emphasis on key moments
- No emojis`

// Generator produces one commentary line from a system prompt and a user
// message. Best-effort and possibly failing; calls must have bounded
// latency.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// SceneSource supplies an optional free-text description of the current
// scene. May return "".
type SceneSource interface {
	Description() string
}

// Snapshot is the batched state handed to the model for one line.
type Snapshot struct {
	Emotion           string
	EmotionConfidence float64
	PrevEmotion       string
	Action            string
	ActionConfidence  float64
	Gesture           string
	GestureHand       string
	Scene             string
}

// Commentator batches bus events and periodically generates commentary.
type Commentator struct {
	generator Generator
	scene     SceneSource
	interval  time.Duration

	mu          sync.Mutex
	current     Snapshot
	hasNewEvent bool

	history     []string
	historySize int

	// OnLine is called with each generated line. Optional; lines are
	// always logged.
	OnLine func(line string)

	logger *slog.Logger
}

// New creates a commentator and registers it on the bus. The scene
// source may be nil.
func New(bus *events.Bus, generator Generator, scene SceneSource, interval time.Duration) *Commentator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Commentator{
		generator:   generator,
		scene:       scene,
		interval:    interval,
		historySize: DefaultHistorySize,
		logger:      log.With("component", "commentator"),
	}

	bus.OnEmotion(c.onEmotion)
	bus.OnAction(c.onAction)
	bus.OnGesture(c.onGesture)
	return c
}

func (c *Commentator) onEmotion(ev events.EmotionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.PrevEmotion = c.current.Emotion
	c.current.Emotion = ev.Dominant
	c.current.EmotionConfidence = ev.Confidence
	c.hasNewEvent = true
}

func (c *Commentator) onAction(ev events.ActionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Action = ev.Action
	c.current.ActionConfidence = ev.Confidence
	c.hasNewEvent = true
}

func (c *Commentator) onGesture(ev events.GestureEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Gesture = ev.Gesture
	c.current.GestureHand = ev.Hand
	// A gesture ending is not worth a commentary line on its own.
	if !ev.Stopped() {
		c.hasNewEvent = true
	}
}

// Run generates commentary until ctx is cancelled.
func (c *Commentator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("commentator running", "interval", c.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

func (c *Commentator) tick(ctx context.Context) {
	c.mu.Lock()
	if !c.hasNewEvent {
		c.mu.Unlock()
		return
	}
	c.hasNewEvent = false
	snap := c.current
	c.mu.Unlock()

	if c.scene != nil {
		snap.Scene = c.scene.Description()
	}

	user := BuildUserMessage(snap, c.recentLines())
	if user == "" {
		return
	}

	start := time.Now()
	line, err := c.generator.Generate(ctx, systemPrompt, user)
	if err != nil {
		c.logger.Warn("commentary generation failed", "error", err)
		return
	}
	line = strings.Trim(strings.TrimSpace(line), `"`)
	if line == "" {
		return
	}

	c.mu.Lock()
	c.history = append(c.history, line)
	if len(c.history) > c.historySize {
		c.history = c.history[1:]
	}
	c.mu.Unlock()

	c.logger.Info("commentary", "line", line, "elapsed", time.Since(start))
	if c.OnLine != nil {
		c.OnLine(line)
	}
}

func (c *Commentator) recentLines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.history)
	if n > 3 {
		n = 3
	}
	return append([]string(nil), c.history[len(c.history)-n:]...)
}

// BuildUserMessage renders the snapshot and recent history into the user
// message for the model. Returns "" when there is nothing to comment on.
func BuildUserMessage(snap Snapshot, recent []string) string {
	var parts []string
	if snap.Emotion != "" {
		if snap.PrevEmotion != "" && snap.PrevEmotion != snap.Emotion {
			parts = append(parts, fmt.Sprintf(
				"Emotion just changed from %s to %s (confidence: %.0f%%)",
				snap.PrevEmotion, snap.Emotion, snap.EmotionConfidence*100))
		} else {
			parts = append(parts, fmt.Sprintf(
				"Current emotion: %s (%.0f%%)", snap.Emotion, snap.EmotionConfidence*100))
		}
	}
	if snap.Action != "" {
		parts = append(parts, fmt.Sprintf(
			"Action detected: %s (%.0f%%)", snap.Action, snap.ActionConfidence*100))
	}
	if snap.Gesture != "" {
		g := snap.Gesture
		if snap.GestureHand != "" {
			g += " (" + strings.ToLower(snap.GestureHand) + " hand)"
		}
		parts = append(parts, "Hand gesture: "+g)
	}
	if len(parts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("What's happening now: ")
	b.WriteString(strings.Join(parts, ". "))
	b.WriteString(".")
	if snap.Scene != "" {
		b.WriteString("\nScene: ")
		b.WriteString(snap.Scene)
	}
	if len(recent) > 0 {
		b.WriteString("\n\nYour last few lines (DO NOT repeat these):\n")
		for _, line := range recent {
			b.WriteString(fmt.Sprintf("- %q\n", line))
		}
	}
	b.WriteString("\nYour commentary line:")
	return b.String()
}
