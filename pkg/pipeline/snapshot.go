// Package pipeline wires the perception stages together: a frame source
// feeding an input relay, the multi-rate scheduler that runs the rule
// engines and smoothers, and an output relay feeding the consumer.
package pipeline

import (
	"time"

	"github.com/perceptd/go-percept/pkg/emotion"
	"github.com/perceptd/go-percept/pkg/gestures"
	"github.com/perceptd/go-percept/pkg/smoothing"
)

// Snapshot is the combined per-frame output pushed to the consumer. On
// frames where the emotion classifier was skipped, Emotion and
// EmotionState carry the most recent known values, never zeroed.
type Snapshot struct {
	Frame        []byte                  `json:"-"`
	Timestamp    time.Time               `json:"timestamp"`
	Emotion      emotion.DetectionResult `json:"emotion"`
	EmotionState smoothing.EmotionState  `json:"emotion_state"`
	ActionState  smoothing.ActionState   `json:"action_state"`
	GestureState smoothing.GestureState  `json:"gesture_state"`
	Gesture      gestures.Result         `json:"gesture"` // raw per-frame result
}
