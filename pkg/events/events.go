// Package events defines the semantic event records emitted by the
// smoothers and the bus that fans them out to subscribers.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/perceptd/go-percept/pkg/emotion"
)

// EmotionEvent records a debounced change of dominant emotion. Events are
// immutable after creation; the score map is built fresh at the emission
// site and never shared.
type EmotionEvent struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Dominant   string             `json:"dominant_emotion"`
	Confidence float64            `json:"confidence"` // 0-1
	Scores     map[string]float64 `json:"all_scores"` // normalized 0-1
	Region     emotion.Region     `json:"face_region"`
}

// ActionEvent records a debounced change of dominant action. An empty
// Action marks the debounced transition to "no action detected".
type ActionEvent struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Confidence float64   `json:"confidence"`
}

// Stopped reports whether this event marks the end of an action.
func (e ActionEvent) Stopped() bool {
	return e.Action == ""
}

// GestureEvent records a debounced change of dominant hand gesture. An
// empty Gesture marks the debounced transition to "no gesture".
type GestureEvent struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Gesture    string    `json:"gesture"`
	Confidence float64   `json:"confidence"`
	Hand       string    `json:"hand,omitempty"`
}

// Stopped reports whether this event marks the end of a gesture.
func (e GestureEvent) Stopped() bool {
	return e.Gesture == ""
}

// NewID returns a fresh event identifier.
func NewID() string {
	return uuid.NewString()
}

// JSON renders any event as a JSON string for logging.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
