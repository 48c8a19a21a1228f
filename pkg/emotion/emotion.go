// Package emotion defines the face-emotion data model and the classifier
// collaborator boundary. The classifier itself (a remote model service)
// is external; this package only carries its inputs and outputs.
package emotion

import (
	"sort"
	"time"
)

// Labels is the closed set of emotion labels the classifier scores.
var Labels = []string{
	"angry", "disgust", "fear", "happy", "sad", "surprise", "neutral",
}

// Scores maps each emotion label to a raw score in [0,100].
type Scores map[string]float64

// Clone returns an independent copy of the score map.
func (s Scores) Clone() Scores {
	if s == nil {
		return nil
	}
	out := make(Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Dominant returns the highest-scoring label, or "" when the map is
// empty. Ties break on label order for determinism.
func (s Scores) Dominant() string {
	if len(s) == 0 {
		return ""
	}
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best, bestScore := "", -1.0
	for _, label := range labels {
		if s[label] > bestScore {
			best, bestScore = label, s[label]
		}
	}
	return best
}

// Normalized returns the scores scaled from [0,100] to [0,1].
func (s Scores) Normalized() map[string]float64 {
	out := make(map[string]float64, len(s))
	for k, v := range s {
		out[k] = v / 100
	}
	return out
}

// Region is the face bounding box in pixel coordinates.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// DetectionResult is the raw outcome of one classifier invocation.
// FaceFound false is the well-defined "nothing found" value substituted
// for classifier failures and empty frames.
type DetectionResult struct {
	FaceFound  bool          `json:"face_found"`
	Dominant   string        `json:"dominant_emotion,omitempty"`
	Scores     Scores        `json:"emotion_scores,omitempty"`
	Region     Region        `json:"face_region"`
	Processing time.Duration `json:"-"`
}

// NoFace returns the canonical "no face found" result.
func NoFace() DetectionResult {
	return DetectionResult{FaceFound: false}
}

// Classifier is the external face-emotion collaborator, invoked on the
// pipeline's every-Kth-frame cadence. Implementations must have bounded
// latency and must return NoFace-style results, not errors, for frames
// with no visible face.
type Classifier interface {
	Analyze(frame []byte) (DetectionResult, error)
}
