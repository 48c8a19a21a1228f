package smoothing

import (
	"time"

	"github.com/perceptd/go-percept/pkg/events"
	"github.com/perceptd/go-percept/pkg/gestures"
)

// GestureState is the current smoothed hand gesture. Gesture is empty
// when no label clears the minimum vote ratio.
type GestureState struct {
	Gesture    string  `json:"gesture,omitempty"`
	Confidence float64 `json:"confidence"`
	Hand       string  `json:"hand,omitempty"`
}

// Detected reports whether a gesture is currently held.
func (s GestureState) Detected() bool {
	return s.Gesture != ""
}

// GestureSmoother is the discrete state machine for the gesture channel:
// the same rolling vote and debounce gate as actions, keyed on the
// per-frame best gesture.
type GestureSmoother struct {
	bus          *events.Bus
	minVoteRatio float64

	votes    voter
	gate     gate
	state    GestureState
	lastHand string
}

// NewGestureSmoother creates a smoother emitting through bus. A nil bus
// disables emission.
func NewGestureSmoother(bus *events.Bus, window int, debounce time.Duration, minVoteRatio float64) *GestureSmoother {
	return &GestureSmoother{
		bus:          bus,
		minVoteRatio: minVoteRatio,
		votes:        newVoter(window),
		gate:         newGate(debounce),
	}
}

// State returns the current smoothed gesture state.
func (s *GestureSmoother) State() GestureState {
	return s.state
}

// Update feeds one frame's gesture result into the vote window and
// returns the new smoothed state.
func (s *GestureSmoother) Update(result gestures.Result) GestureState {
	s.votes.push(result.Gesture)
	if result.Detected() {
		s.lastHand = result.Hand
	}

	winner, ratio := s.votes.vote()
	switch {
	case winner == "":
		s.state = GestureState{}
	case ratio >= s.minVoteRatio:
		s.state = GestureState{Gesture: winner, Confidence: ratio, Hand: s.lastHand}
	default:
		s.state = GestureState{}
	}

	if s.gate.admit(s.state.Gesture) && s.bus != nil {
		s.bus.EmitGesture(events.GestureEvent{
			ID:         events.NewID(),
			Timestamp:  s.gate.lastEmit,
			Gesture:    s.state.Gesture,
			Confidence: round3(s.state.Confidence),
			Hand:       s.state.Hand,
		})
	}

	return s.state
}
