package smoothing

import (
	"math"
	"testing"
	"time"

	"github.com/perceptd/go-percept/pkg/emotion"
	"github.com/perceptd/go-percept/pkg/events"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestEmotionSmootherAveragesWindow(t *testing.T) {
	s := NewEmotionSmoother(nil, 5, 0)

	s.Update(emotion.Scores{"happy": 90}, emotion.Region{})
	s.Update(emotion.Scores{"happy": 60}, emotion.Region{})
	state := s.Update(emotion.Scores{"happy": 30}, emotion.Region{})

	if !floatEquals(state.Scores["happy"], 60) {
		t.Errorf("averaged happy = %v, want 60", state.Scores["happy"])
	}
	if state.Dominant != "happy" {
		t.Errorf("Dominant = %q, want happy", state.Dominant)
	}
	if !floatEquals(state.Confidence, 0.6) {
		t.Errorf("Confidence = %v, want 0.6", state.Confidence)
	}
}

func TestEmotionSmootherEvictsOldSamples(t *testing.T) {
	s := NewEmotionSmoother(nil, 2, 0)

	s.Update(emotion.Scores{"happy": 90}, emotion.Region{})
	s.Update(emotion.Scores{"sad": 80}, emotion.Region{})
	state := s.Update(emotion.Scores{"sad": 80}, emotion.Region{})

	// The happy sample has aged out of the two-deep window.
	if state.Scores["happy"] != 0 {
		t.Errorf("averaged happy = %v after eviction, want 0", state.Scores["happy"])
	}
	if state.Dominant != "sad" {
		t.Errorf("Dominant = %q, want sad", state.Dominant)
	}
}

func TestEmotionSmootherMissingLabelCountsAsZero(t *testing.T) {
	s := NewEmotionSmoother(nil, 5, 0)

	s.Update(emotion.Scores{"happy": 90}, emotion.Region{})
	state := s.Update(emotion.Scores{"sad": 30}, emotion.Region{})

	if !floatEquals(state.Scores["happy"], 45) {
		t.Errorf("averaged happy = %v, want 45", state.Scores["happy"])
	}
	if !floatEquals(state.Scores["sad"], 15) {
		t.Errorf("averaged sad = %v, want 15", state.Scores["sad"])
	}
}

func TestEmotionSmootherStableUnderConstantInput(t *testing.T) {
	bus := events.NewBus()
	var emitted []events.EmotionEvent
	bus.OnEmotion(func(ev events.EmotionEvent) { emitted = append(emitted, ev) })

	s := NewEmotionSmoother(bus, 5, time.Second)

	var state EmotionState
	for i := 0; i < 20; i++ {
		state = s.Update(emotion.Scores{"happy": 80, "neutral": 10}, emotion.Region{})
	}

	if state.Dominant != "happy" {
		t.Errorf("Dominant = %q, want happy", state.Dominant)
	}
	// Constant input averages to itself.
	if !floatEquals(state.Scores["happy"], 80) {
		t.Errorf("averaged happy = %v under constant input, want 80", state.Scores["happy"])
	}
	if !floatEquals(state.Confidence, 0.8) {
		t.Errorf("Confidence = %v, want 0.8", state.Confidence)
	}
	// The label never changes after the first emission, so exactly one
	// event regardless of how many frames arrive.
	if len(emitted) != 1 {
		t.Fatalf("events emitted = %d, want 1", len(emitted))
	}
	if emitted[0].Dominant != "happy" {
		t.Errorf("event Dominant = %q, want happy", emitted[0].Dominant)
	}
}

func TestEmotionSmootherDebouncesLabelChanges(t *testing.T) {
	bus := events.NewBus()
	var emitted []events.EmotionEvent
	bus.OnEmotion(func(ev events.EmotionEvent) { emitted = append(emitted, ev) })

	s := NewEmotionSmoother(bus, 1, time.Second)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	// First dominant label emits immediately.
	s.Update(emotion.Scores{"happy": 90}, emotion.Region{})
	if len(emitted) != 1 {
		t.Fatalf("events after first update = %d, want 1", len(emitted))
	}

	// Flip-flopping faster than the debounce interval is suppressed.
	now = now.Add(100 * time.Millisecond)
	s.Update(emotion.Scores{"sad": 90}, emotion.Region{})
	now = now.Add(100 * time.Millisecond)
	s.Update(emotion.Scores{"happy": 90}, emotion.Region{})
	if len(emitted) != 1 {
		t.Fatalf("events during debounce = %d, want 1", len(emitted))
	}

	// After the interval elapses the change goes through.
	now = now.Add(time.Second)
	s.Update(emotion.Scores{"sad": 90}, emotion.Region{})
	if len(emitted) != 2 {
		t.Fatalf("events after interval = %d, want 2", len(emitted))
	}
	if emitted[1].Dominant != "sad" {
		t.Errorf("second event Dominant = %q, want sad", emitted[1].Dominant)
	}
}

func TestEmotionSmootherEmptyScoresAdvanceWindow(t *testing.T) {
	s := NewEmotionSmoother(nil, 2, 0)

	s.Update(emotion.Scores{"happy": 90}, emotion.Region{})
	s.Update(emotion.Scores{}, emotion.Region{})
	state := s.Update(emotion.Scores{}, emotion.Region{})

	if state.Dominant != "" {
		t.Errorf("Dominant = %q after empty window, want none", state.Dominant)
	}
}

func TestEmotionSmootherEventScoresNormalized(t *testing.T) {
	bus := events.NewBus()
	var emitted []events.EmotionEvent
	bus.OnEmotion(func(ev events.EmotionEvent) { emitted = append(emitted, ev) })

	s := NewEmotionSmoother(bus, 1, 0)
	s.Update(emotion.Scores{"happy": 80}, emotion.Region{X: 10, Y: 20, W: 100, H: 120})

	if len(emitted) != 1 {
		t.Fatalf("events = %d, want 1", len(emitted))
	}
	if !floatEquals(emitted[0].Scores["happy"], 0.8) {
		t.Errorf("event score = %v, want 0.8", emitted[0].Scores["happy"])
	}
	if emitted[0].Region.W != 100 {
		t.Errorf("event Region.W = %d, want 100", emitted[0].Region.W)
	}
}
