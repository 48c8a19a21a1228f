// Package landmarks defines the pose and hand landmark model shared by the
// geometric rule engines. A landmark set is a fixed-length ordered sequence
// where each index has a fixed anatomical meaning for the lifetime of the
// process; sets with the wrong length are invalid and must be rejected
// before indexing.
package landmarks

import "math"

// Expected set lengths per estimator kind.
const (
	PoseCount = 33 // full-body pose landmarks
	HandCount = 21 // single-hand landmarks
)

// Pose landmark indices (MediaPipe Pose convention).
const (
	PoseNose          = 0
	PoseMouthLeft     = 9
	PoseMouthRight    = 10
	PoseLeftShoulder  = 11
	PoseRightShoulder = 12
	PoseLeftElbow     = 13
	PoseRightElbow    = 14
	PoseLeftWrist     = 15
	PoseRightWrist    = 16
	PoseLeftHip       = 23
	PoseRightHip      = 24
)

// Hand landmark indices (MediaPipe Hands convention).
const (
	HandWrist     = 0
	HandThumbCMC  = 1
	HandThumbMCP  = 2
	HandThumbIP   = 3
	HandThumbTip  = 4
	HandIndexMCP  = 5
	HandIndexPIP  = 6
	HandIndexDIP  = 7
	HandIndexTip  = 8
	HandMiddleMCP = 9
	HandMiddlePIP = 10
	HandMiddleDIP = 11
	HandMiddleTip = 12
	HandRingMCP   = 13
	HandRingPIP   = 14
	HandRingDIP   = 15
	HandRingTip   = 16
	HandPinkyMCP  = 17
	HandPinkyPIP  = 18
	HandPinkyDIP  = 19
	HandPinkyTip  = 20
)

// DefaultVisibility is the minimum visibility for a landmark to contribute
// evidence to a rule.
const DefaultVisibility = 0.5

// Landmark is one estimated key point. X and Y are normalized 0-1 image
// coordinates, Z is depth-relative with the estimator's sign convention,
// Visibility is the estimator's 0-1 presence score.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Visible reports whether the landmark clears the default visibility gate.
func (l Landmark) Visible() bool {
	return l.Visibility >= DefaultVisibility
}

// Set is one detection pass worth of landmarks for one subject or hand.
type Set []Landmark

// Valid reports whether the set has the expected length for its kind.
func (s Set) Valid(count int) bool {
	return len(s) == count
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Distance returns the 2D Euclidean distance between two landmarks in
// normalized image space.
func Distance(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// JointAngle returns the angle in degrees at point b formed by the
// segments ba and bc. The cosine is clamped so floating-point overshoot
// of ±1 cannot produce a NaN.
func JointAngle(a, b, c Landmark) float64 {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	dot := bax*bcx + bay*bcy
	magBA := math.Sqrt(bax*bax + bay*bay)
	magBC := math.Sqrt(bcx*bcx + bcy*bcy)
	if magBA*magBC == 0 {
		return 0
	}

	cos := dot / (magBA * magBC)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
