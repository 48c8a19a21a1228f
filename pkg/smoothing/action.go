package smoothing

import (
	"time"

	"github.com/perceptd/go-percept/pkg/actions"
	"github.com/perceptd/go-percept/pkg/events"
)

// ActionState is the current smoothed action. Action is empty when no
// label clears the minimum vote ratio; Raw carries the per-frame
// candidate scores for diagnostics.
type ActionState struct {
	Action     string             `json:"action,omitempty"`
	Confidence float64            `json:"confidence"`
	Raw        map[string]float64 `json:"raw_actions,omitempty"`
}

// Detected reports whether an action is currently held.
func (s ActionState) Detected() bool {
	return s.Action != ""
}

// ActionSmoother keeps a rolling majority vote over per-frame dominant
// actions and emits debounced ActionEvents on label changes, including
// the change to "no action".
type ActionSmoother struct {
	bus          *events.Bus
	minVoteRatio float64

	votes voter
	gate  gate
	state ActionState
}

// NewActionSmoother creates a smoother emitting through bus. A nil bus
// disables emission.
func NewActionSmoother(bus *events.Bus, window int, debounce time.Duration, minVoteRatio float64) *ActionSmoother {
	return &ActionSmoother{
		bus:          bus,
		minVoteRatio: minVoteRatio,
		votes:        newVoter(window),
		gate:         newGate(debounce),
	}
}

// State returns the current smoothed action state.
func (s *ActionSmoother) State() ActionState {
	return s.state
}

// Update feeds one frame's rule result into the vote window and returns
// the new smoothed state. An empty result still advances the window.
func (s *ActionSmoother) Update(result actions.Result) ActionState {
	dominant, _ := result.Dominant()
	s.votes.push(dominant)

	winner, ratio := s.votes.vote()
	switch {
	case winner == "":
		s.state = ActionState{}
	case ratio >= s.minVoteRatio:
		s.state = ActionState{Action: winner, Confidence: ratio, Raw: result.Actions}
	default:
		// A plurality exists but not enough of the window agrees.
		s.state = ActionState{Raw: result.Actions}
	}

	if s.gate.admit(s.state.Action) && s.bus != nil {
		s.bus.EmitAction(events.ActionEvent{
			ID:         events.NewID(),
			Timestamp:  s.gate.lastEmit,
			Action:     s.state.Action,
			Confidence: round3(s.state.Confidence),
		})
	}

	return s.state
}
