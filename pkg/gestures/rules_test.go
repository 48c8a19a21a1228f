package gestures

import (
	"testing"

	"github.com/perceptd/go-percept/pkg/landmarks"
)

// newHand builds a 21-point hand with each finger either extended
// (tip above the PIP, y grows downward) or curled (tip below the MCP),
// and the thumb either extended away from the palm or tucked.
func newHand(index, middle, ring, pinky, thumb bool) landmarks.Set {
	s := make(landmarks.Set, landmarks.HandCount)
	s[landmarks.HandWrist] = landmarks.Landmark{X: 0.5, Y: 0.9}

	fingers := []struct {
		x        float64
		mcp      int
		extended bool
	}{
		{0.45, landmarks.HandIndexMCP, index},
		{0.50, landmarks.HandMiddleMCP, middle},
		{0.55, landmarks.HandRingMCP, ring},
		{0.60, landmarks.HandPinkyMCP, pinky},
	}
	for _, f := range fingers {
		ys := []float64{0.6, 0.62, 0.68, 0.75} // curled: tip below MCP
		if f.extended {
			ys = []float64{0.6, 0.5, 0.4, 0.3} // extended: tip above PIP
		}
		for j, y := range ys {
			s[f.mcp+j] = landmarks.Landmark{X: f.x, Y: y}
		}
	}

	if thumb {
		s[landmarks.HandThumbCMC] = landmarks.Landmark{X: 0.44, Y: 0.75}
		s[landmarks.HandThumbMCP] = landmarks.Landmark{X: 0.40, Y: 0.60}
		s[landmarks.HandThumbIP] = landmarks.Landmark{X: 0.35, Y: 0.50}
		s[landmarks.HandThumbTip] = landmarks.Landmark{X: 0.30, Y: 0.40}
	} else {
		s[landmarks.HandThumbCMC] = landmarks.Landmark{X: 0.47, Y: 0.75}
		s[landmarks.HandThumbMCP] = landmarks.Landmark{X: 0.46, Y: 0.70}
		s[landmarks.HandThumbIP] = landmarks.Landmark{X: 0.455, Y: 0.66}
		s[landmarks.HandThumbTip] = landmarks.Landmark{X: 0.46, Y: 0.62}
	}
	return s
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		hand landmarks.Set
		want string
		conf float64
	}{
		{"open palm", newHand(true, true, true, true, true), GestureOpenPalm, 0.8},
		{"fist", newHand(false, false, false, false, false), GestureFist, 0.85},
		{"thumbs up", newHand(false, false, false, false, true), GestureThumbsUp, 0.9},
		{"peace sign", newHand(true, true, false, false, false), GesturePeaceSign, 0.85},
		{"middle finger", newHand(false, true, false, false, false), GestureMiddleFinger, 0.9},
		{"no match", newHand(true, false, false, true, false), "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.hand, "Right")
			if got.Gesture != tt.want {
				t.Errorf("Classify = %q, want %q", got.Gesture, tt.want)
			}
			if got.Confidence != tt.conf {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.conf)
			}
			if got.Hand != "Right" {
				t.Errorf("Hand = %q, want Right", got.Hand)
			}
		})
	}
}

func TestClassify_WrongLength(t *testing.T) {
	got := Classify(make(landmarks.Set, 5), "Left")
	if got.Detected() {
		t.Errorf("Classify short set = %q, want no gesture", got.Gesture)
	}
	if got.Hand != "Left" {
		t.Errorf("Hand = %q, want Left", got.Hand)
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A middle-finger pose also fails no other rule here, but the point
	// is the fixed order: the first matching rule decides. An ambiguous
	// extended-middle-only hand must never come back as fist even though
	// three fingers are curled.
	got := Classify(newHand(false, true, false, false, false), "Left")
	if got.Gesture != GestureMiddleFinger {
		t.Errorf("Classify = %q, want %q", got.Gesture, GestureMiddleFinger)
	}
}
