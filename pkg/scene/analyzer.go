// Package scene periodically describes the current camera frame with a
// remote vision model. The description is cached and pulled by the
// commentator for richer context; the pipeline never waits on it.
package scene

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/perceptd/go-percept/internal/log"
)

const scenePrompt = `You are analyzing a webcam frame of a person. Briefly describe what the person is doing in 1-2 short sentences. Focus on physical actions, body language, objects they are interacting with, and notable gestures. Be concise and factual.`

// DefaultInterval is the pause between vision calls.
const DefaultInterval = 6 * time.Second

// Describer turns an image into a short scene description. Implemented
// by the Gemini client in this package; best-effort and possibly
// failing.
type Describer interface {
	Describe(imageData []byte, prompt string) (string, error)
}

// Analyzer runs a background loop: every interval it sends the latest
// frame to the describer and caches the result. Frame handoff and
// description reads are thread-safe; everything else stays on the
// analyzer's own goroutine.
type Analyzer struct {
	describer Describer
	interval  time.Duration

	mu          sync.Mutex
	latestFrame []byte
	description string

	logger *slog.Logger
}

// NewAnalyzer creates an analyzer over a describer.
func NewAnalyzer(describer Describer, interval time.Duration) *Analyzer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Analyzer{
		describer: describer,
		interval:  interval,
		logger:    log.With("component", "scene"),
	}
}

// SetFrame hands the analyzer the most recent frame. Called from the
// pipeline's consumer stage; cheap and non-blocking.
func (a *Analyzer) SetFrame(frame []byte) {
	a.mu.Lock()
	a.latestFrame = frame
	a.mu.Unlock()
}

// Description returns the latest cached scene description, or "" before
// the first successful call.
func (a *Analyzer) Description() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.description
}

// Run analyzes frames until ctx is cancelled.
func (a *Analyzer) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("scene analyzer running", "interval", a.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.analyze()
		}
	}
}

func (a *Analyzer) analyze() {
	a.mu.Lock()
	frame := a.latestFrame
	a.mu.Unlock()
	if frame == nil {
		return
	}

	start := time.Now()
	desc, err := a.describer.Describe(frame, scenePrompt)
	if err != nil {
		// Collaborator failure means no new information this cycle; the
		// previous description stays in place.
		a.logger.Warn("scene analysis failed", "error", err)
		return
	}

	a.mu.Lock()
	a.description = desc
	a.mu.Unlock()
	a.logger.Debug("scene updated", "description", truncate(desc, 100), "elapsed", time.Since(start))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
