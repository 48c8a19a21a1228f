// Package actions classifies full-body pose landmark sets into coarse
// action labels (hand raised, waving, clapping, drinking, arms crossed).
//
// Each rule is a pure function from a landmark set (plus, for multi-frame
// rules, a temporal buffer of past sets) to a confidence score in [0,1].
// A score of 0 means "not detected", never "error": rules degrade to zero
// evidence when landmarks are missing or below the visibility gate.
package actions

import (
	"math"

	"github.com/perceptd/go-percept/pkg/landmarks"
)

// Rule thresholds. Distances are in normalized image space.
const (
	// Hand raised: wrist must be this far above the shoulder to count,
	// and reaches full confidence at raiseFullDelta.
	raiseMinDelta  = 0.08
	raiseFullDelta = 0.25

	// Waving: buffered frames needed before oscillation evidence counts,
	// minimum usable wrist samples, minimum per-change magnitude to
	// reject jitter-induced sign flips, and direction changes for full
	// confidence.
	waveMinBuffer   = 8
	waveMinSamples  = 6
	waveMinMove     = 0.005
	waveMinChanges  = 2
	waveFullChanges = 4

	// Clapping: hysteresis thresholds for wrist-to-wrist distance. A
	// cycle counts only on far→close re-entry.
	clapMinBuffer  = 5
	clapMinSamples = 4
	clapCloseDist  = 0.08
	clapFarDist    = 0.15
	clapMinCycles  = 1
	clapFullCycles = 2

	// Drinking: wrist-to-mouth distance and maximum elbow angle.
	drinkMaxDist  = 0.12
	drinkMaxAngle = 120

	// Arms crossed: wrist height tolerance around chest level and the
	// fixed confidence reported on a match.
	crossChestTol    = 0.15
	crossConfidence  = 0.8
	activationFloor  = 0.3 // minimum confidence for a rule to contribute
	waveRaisedFloor  = 0.3 // hand must be at least this raised to wave
	waveTrackedDelta = 0.05
)

// HandRaised detects one or both wrists held above the shoulders.
// Confidence scales with how far the wrist sits above the shoulder.
func HandRaised(s landmarks.Set) float64 {
	if !s.Valid(landmarks.PoseCount) {
		return 0
	}

	lShoulder := s[landmarks.PoseLeftShoulder]
	rShoulder := s[landmarks.PoseRightShoulder]
	if !lShoulder.Visible() && !rShoulder.Visible() {
		return 0
	}

	best := 0.0

	// Image y grows downward, so a raised wrist has smaller y than the
	// shoulder.
	lWrist := s[landmarks.PoseLeftWrist]
	if lWrist.Visible() && lShoulder.Visible() {
		if delta := lShoulder.Y - lWrist.Y; delta > raiseMinDelta {
			best = math.Max(best, math.Min(1, delta/raiseFullDelta))
		}
	}

	rWrist := s[landmarks.PoseRightWrist]
	if rWrist.Visible() && rShoulder.Visible() {
		if delta := rShoulder.Y - rWrist.Y; delta > raiseMinDelta {
			best = math.Max(best, math.Min(1, delta/raiseFullDelta))
		}
	}

	return best
}

// Waving detects a raised hand oscillating horizontally across recent
// frames. Below the minimum buffer fill it returns 0 rather than guessing.
func Waving(s landmarks.Set, buf *landmarks.Buffer) float64 {
	if !s.Valid(landmarks.PoseCount) || buf == nil || buf.Len() < waveMinBuffer {
		return 0
	}
	if HandRaised(s) < waveRaisedFloor {
		return 0
	}

	pairs := [2][2]int{
		{landmarks.PoseLeftWrist, landmarks.PoseLeftShoulder},
		{landmarks.PoseRightWrist, landmarks.PoseRightShoulder},
	}

	for _, pair := range pairs {
		wristIdx, shoulderIdx := pair[0], pair[1]

		// Collect the horizontal track of this wrist while it was raised.
		var xs []float64
		buf.Each(func(frame landmarks.Set) {
			if !frame.Valid(landmarks.PoseCount) {
				return
			}
			wrist := frame[wristIdx]
			shoulder := frame[shoulderIdx]
			if wrist.Visible() && shoulder.Visible() && shoulder.Y-wrist.Y > waveTrackedDelta {
				xs = append(xs, wrist.X)
			}
		})
		if len(xs) < waveMinSamples {
			continue
		}

		// Count direction changes, ignoring sub-jitter movements.
		changes := 0
		for i := 2; i < len(xs); i++ {
			prevDir := xs[i-1] - xs[i-2]
			currDir := xs[i] - xs[i-1]
			if prevDir*currDir < 0 && math.Abs(currDir) > waveMinMove {
				changes++
			}
		}

		if changes >= waveMinChanges {
			return math.Min(1, float64(changes)/waveFullChanges)
		}
	}

	return 0
}

// Clapping detects both wrists repeatedly coming together and apart. The
// close/far hysteresis pair keeps a single noisy sample near the boundary
// from registering a spurious cycle.
func Clapping(s landmarks.Set, buf *landmarks.Buffer) float64 {
	if !s.Valid(landmarks.PoseCount) || buf == nil || buf.Len() < clapMinBuffer {
		return 0
	}

	lWrist := s[landmarks.PoseLeftWrist]
	rWrist := s[landmarks.PoseRightWrist]
	if !lWrist.Visible() || !rWrist.Visible() {
		return 0
	}

	var dists []float64
	buf.Each(func(frame landmarks.Set) {
		if !frame.Valid(landmarks.PoseCount) {
			return
		}
		lw := frame[landmarks.PoseLeftWrist]
		rw := frame[landmarks.PoseRightWrist]
		if lw.Visible() && rw.Visible() {
			dists = append(dists, landmarks.Distance(lw, rw))
		}
	})
	if len(dists) < clapMinSamples {
		return 0
	}

	cycles := 0
	wasClose := dists[0] < clapCloseDist
	for _, d := range dists[1:] {
		switch {
		case wasClose && d > clapFarDist:
			wasClose = false
		case !wasClose && d < clapCloseDist:
			wasClose = true
			cycles++
		}
	}

	// Only report while the wrists are currently together.
	if landmarks.Distance(lWrist, rWrist) < clapCloseDist && cycles >= clapMinCycles {
		return math.Min(1, float64(cycles)/clapFullCycles)
	}

	return 0
}

// Drinking detects a wrist held near the mouth with the elbow flexed.
func Drinking(s landmarks.Set) float64 {
	if !s.Valid(landmarks.PoseCount) {
		return 0
	}

	mouthL := s[landmarks.PoseMouthLeft]
	mouthR := s[landmarks.PoseMouthRight]
	mouth := landmarks.Landmark{
		X: (mouthL.X + mouthR.X) / 2,
		Y: (mouthL.Y + mouthR.Y) / 2,
	}

	arms := [2][3]int{
		{landmarks.PoseLeftWrist, landmarks.PoseLeftElbow, landmarks.PoseLeftShoulder},
		{landmarks.PoseRightWrist, landmarks.PoseRightElbow, landmarks.PoseRightShoulder},
	}

	for _, arm := range arms {
		wrist := s[arm[0]]
		elbow := s[arm[1]]
		shoulder := s[arm[2]]
		if !wrist.Visible() || !elbow.Visible() || !shoulder.Visible() {
			continue
		}

		dist := landmarks.Distance(wrist, mouth)
		angle := landmarks.JointAngle(shoulder, elbow, wrist)

		// Wrist close to the mouth and the elbow bent, not a straight
		// arm passing across the face.
		if dist < drinkMaxDist && angle < drinkMaxAngle {
			return math.Max(0, 1-dist/drinkMaxDist)
		}
	}

	return 0
}

// ArmsCrossed detects wrists crossed over the chest midline at chest
// height.
func ArmsCrossed(s landmarks.Set) float64 {
	if !s.Valid(landmarks.PoseCount) {
		return 0
	}

	lWrist := s[landmarks.PoseLeftWrist]
	rWrist := s[landmarks.PoseRightWrist]
	lElbow := s[landmarks.PoseLeftElbow]
	rElbow := s[landmarks.PoseRightElbow]
	lShoulder := s[landmarks.PoseLeftShoulder]
	rShoulder := s[landmarks.PoseRightShoulder]

	for _, lm := range []landmarks.Landmark{lWrist, rWrist, lElbow, rElbow, lShoulder, rShoulder} {
		if !lm.Visible() {
			return 0
		}
	}

	midX := (lShoulder.X + rShoulder.X) / 2
	chestY := (lShoulder.Y + rShoulder.Y) / 2

	crossed := lWrist.X > midX && rWrist.X < midX
	atChest := math.Abs(lWrist.Y-chestY) < crossChestTol &&
		math.Abs(rWrist.Y-chestY) < crossChestTol

	if crossed && atChest {
		return crossConfidence
	}

	return 0
}

// Detect runs every rule and composes the result. The more specific
// oscillation rule (waving) supersedes the generic raised-hand rule when
// its own confidence clears the activation floor.
func Detect(s landmarks.Set, buf *landmarks.Buffer) Result {
	result := Result{Actions: map[string]float64{}}

	if raised := HandRaised(s); raised > activationFloor {
		if waving := Waving(s, buf); waving > activationFloor {
			result.Actions[ActionWaving] = waving
		} else {
			result.Actions[ActionHandRaised] = raised
		}
	}

	if clapping := Clapping(s, buf); clapping > activationFloor {
		result.Actions[ActionClapping] = clapping
	}
	if drinking := Drinking(s); drinking > activationFloor {
		result.Actions[ActionDrinking] = drinking
	}
	if crossed := ArmsCrossed(s); crossed > activationFloor {
		result.Actions[ActionArmsCrossed] = crossed
	}

	return result
}
