package gestures

import (
	"log/slog"

	"github.com/perceptd/go-percept/internal/log"
	"github.com/perceptd/go-percept/pkg/landmarks"
)

// Hand is one detected hand: its 21 landmarks and which side it is
// ("Left" or "Right", as labeled by the estimator).
type Hand struct {
	Landmarks landmarks.Set `json:"landmarks"`
	Side      string        `json:"side"`
}

// Result is the best gesture found on one frame. The zero value means no
// gesture was detected.
type Result struct {
	Gesture    string  `json:"gesture,omitempty"`
	Confidence float64 `json:"confidence"`
	Hand       string  `json:"hand,omitempty"`
}

// Detected reports whether a gesture was found.
func (r Result) Detected() bool {
	return r.Gesture != ""
}

// Estimator is the external hand landmark collaborator. No hands found is
// an empty slice with a nil error, never an error.
type Estimator interface {
	// Hands returns the landmark sets for every visible hand, up to the
	// estimator's limit (two in practice).
	Hands(frame []byte) ([]Hand, error)

	// Close releases estimator resources.
	Close() error
}

// Detector runs hand landmark estimation and the gesture rules per frame.
// Not safe for concurrent use; owned by the pipeline's middle stage.
type Detector struct {
	estimator Estimator
	logger    *slog.Logger
}

// NewDetector creates a detector over the given hand estimator.
func NewDetector(estimator Estimator) *Detector {
	return &Detector{
		estimator: estimator,
		logger:    log.With("component", "gestures"),
	}
}

// Detect classifies every visible hand independently and returns the
// highest-confidence gesture across them. Estimator failures degrade to
// the zero Result.
func (d *Detector) Detect(frame []byte) Result {
	hands, err := d.estimator.Hands(frame)
	if err != nil {
		d.logger.Warn("hand estimation failed", "error", err)
		return Result{}
	}

	var best Result
	for _, hand := range hands {
		if !hand.Landmarks.Valid(landmarks.HandCount) {
			d.logger.Warn("invalid hand landmark set", "got", len(hand.Landmarks), "want", landmarks.HandCount)
			continue
		}
		if r := Classify(hand.Landmarks, hand.Side); r.Detected() && r.Confidence > best.Confidence {
			best = r
		}
	}
	return best
}

// Close releases the underlying estimator.
func (d *Detector) Close() error {
	return d.estimator.Close()
}
