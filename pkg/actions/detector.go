package actions

import (
	"log/slog"

	"github.com/perceptd/go-percept/internal/log"
	"github.com/perceptd/go-percept/pkg/landmarks"
)

// DefaultBufferSize is the temporal buffer depth for multi-frame rules.
const DefaultBufferSize = 15

// Estimator is the external pose landmark collaborator. An empty set with
// a nil error means no subject was found; absence is a value, not an
// error. Implementations must tolerate unreadable frames.
type Estimator interface {
	// Pose returns the body landmark set detected in the frame, or an
	// empty set when no subject is visible.
	Pose(frame []byte) (landmarks.Set, error)

	// Close releases estimator resources.
	Close() error
}

// Detector runs pose estimation and the action rules on each frame,
// maintaining the temporal buffer that multi-frame rules consume.
//
// Detector is not safe for concurrent use; it is owned by the pipeline's
// middle stage.
type Detector struct {
	estimator Estimator
	buffer    *landmarks.Buffer
	logger    *slog.Logger
}

// NewDetector creates a detector over the given pose estimator.
func NewDetector(estimator Estimator) *Detector {
	return &Detector{
		estimator: estimator,
		buffer:    landmarks.NewBuffer(DefaultBufferSize),
		logger:    log.With("component", "actions"),
	}
}

// Detect runs estimation and every action rule on one frame. Estimator
// failures and malformed landmark sets degrade to an empty result so one
// bad frame cannot stall the pipeline.
func (d *Detector) Detect(frame []byte) Result {
	set, err := d.estimator.Pose(frame)
	if err != nil {
		d.logger.Warn("pose estimation failed", "error", err)
		return Result{Actions: map[string]float64{}}
	}
	if len(set) == 0 {
		return Result{Actions: map[string]float64{}}
	}
	if !set.Valid(landmarks.PoseCount) {
		d.logger.Warn("invalid pose landmark set", "got", len(set), "want", landmarks.PoseCount)
		return Result{Actions: map[string]float64{}}
	}

	d.buffer.Push(set)
	return Detect(set, d.buffer)
}

// Close releases the underlying estimator.
func (d *Detector) Close() error {
	return d.estimator.Close()
}
