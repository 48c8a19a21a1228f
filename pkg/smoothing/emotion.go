// Package smoothing holds the temporal smoothing and debounce state
// machines that turn noisy per-frame candidates into stable, rate-limited
// events. There are two variants: a continuous-score rolling average for
// emotions and a discrete-label majority vote for actions and gestures.
// Both gate externally visible changes behind a minimum interval since
// the last emission.
//
// Smoothers are owned by the pipeline's middle stage and are not safe for
// concurrent use.
package smoothing

import (
	"math"
	"sort"
	"time"

	"github.com/perceptd/go-percept/pkg/emotion"
	"github.com/perceptd/go-percept/pkg/events"
)

// Defaults for the emotion channel.
const (
	DefaultEmotionWindow   = 5
	DefaultEmotionDebounce = time.Second
)

// EmotionState is the current smoothed emotion. Confidence is the
// averaged winning score normalized to [0,1].
type EmotionState struct {
	Dominant   string             `json:"dominant"`
	Scores     map[string]float64 `json:"scores"` // averaged, 0-100
	Confidence float64            `json:"confidence"`
}

// EmotionSmoother keeps a rolling average of raw classifier scores and
// emits a debounced EmotionEvent when the dominant label changes.
type EmotionSmoother struct {
	bus      *events.Bus
	window   int
	debounce time.Duration

	history     []emotion.Scores
	lastEmitted string
	lastEmit    time.Time
	state       EmotionState

	now func() time.Time
}

// NewEmotionSmoother creates a smoother emitting through bus. A nil bus
// disables emission, which is useful for standalone smoothing.
func NewEmotionSmoother(bus *events.Bus, window int, debounce time.Duration) *EmotionSmoother {
	if window < 1 {
		window = 1
	}
	return &EmotionSmoother{
		bus:      bus,
		window:   window,
		debounce: debounce,
		state:    EmotionState{Dominant: "neutral", Scores: map[string]float64{}},
		now:      time.Now,
	}
}

// State returns the current smoothed emotion state.
func (s *EmotionSmoother) State() EmotionState {
	return s.state
}

// Update feeds one raw score mapping (0-100 per label) into the window
// and returns the new smoothed state. An empty mapping still advances the
// window so stale history ages out; it simply produces no dominant label
// for that cycle.
func (s *EmotionSmoother) Update(raw emotion.Scores, region emotion.Region) EmotionState {
	s.history = append(s.history, raw.Clone())
	if len(s.history) > s.window {
		s.history = s.history[1:]
	}

	averaged := s.average()
	dominant := emotion.Scores(averaged).Dominant()

	if dominant == "" {
		s.state = EmotionState{Scores: averaged}
		return s.state
	}

	confidence := averaged[dominant] / 100
	s.state = EmotionState{
		Dominant:   dominant,
		Scores:     averaged,
		Confidence: confidence,
	}

	now := s.now()
	if dominant != s.lastEmitted && now.Sub(s.lastEmit) >= s.debounce {
		s.lastEmitted = dominant
		s.lastEmit = now

		if s.bus != nil {
			s.bus.EmitEmotion(events.EmotionEvent{
				ID:         events.NewID(),
				Timestamp:  now,
				Dominant:   dominant,
				Confidence: round3(confidence),
				Scores:     emotion.Scores(averaged).Normalized(),
				Region:     region,
			})
		}
	}

	return s.state
}

// average computes, for every label seen anywhere in the window, the
// arithmetic mean across all samples currently held. Labels missing from
// a sample contribute zero for that sample.
func (s *EmotionSmoother) average() map[string]float64 {
	seen := map[string]struct{}{}
	for _, sample := range s.history {
		for label := range sample {
			seen[label] = struct{}{}
		}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	averaged := make(map[string]float64, len(labels))
	for _, label := range labels {
		sum := 0.0
		for _, sample := range s.history {
			sum += sample[label]
		}
		averaged[label] = sum / float64(len(s.history))
	}
	return averaged
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
