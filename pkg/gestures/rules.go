// Package gestures classifies single-hand landmark sets into finger-level
// gestures (thumbs up, peace sign, fist, open palm, middle finger).
//
// Rules test finger postures geometrically: a finger is extended when its
// tip sits above its PIP joint in image space (y grows downward), curled
// when the tip drops below its MCP joint. When several postures match the
// same hand, a fixed priority order decides; hands are evaluated
// independently and the highest-confidence match across all visible hands
// wins the frame.
package gestures

import (
	"math"

	"github.com/perceptd/go-percept/pkg/landmarks"
)

// Gesture labels, in priority order.
const (
	GestureMiddleFinger = "middle_finger"
	GestureThumbsUp     = "thumbs_up"
	GesturePeaceSign    = "peace_sign"
	GestureFist         = "fist"
	GestureOpenPalm     = "open_palm"
)

// thumbSpread is the minimum L1 distance between the thumb tip and the
// index MCP for the thumb to count as extended.
const thumbSpread = 0.1

func fingerExtended(s landmarks.Set, mcp, pip, dip, tip int) bool {
	return s[tip].Y < s[pip].Y && s[dip].Y < s[mcp].Y
}

func fingerCurled(s landmarks.Set, mcp, tip int) bool {
	return s[tip].Y > s[mcp].Y
}

func thumbExtended(s landmarks.Set) bool {
	dx := math.Abs(s[landmarks.HandThumbTip].X - s[landmarks.HandIndexMCP].X)
	dy := math.Abs(s[landmarks.HandThumbTip].Y - s[landmarks.HandIndexMCP].Y)
	return dx+dy > thumbSpread
}

func thumbUp(s landmarks.Set) bool {
	return s[landmarks.HandThumbTip].Y < s[landmarks.HandThumbMCP].Y
}

// MiddleFinger detects only the middle finger extended, all others curled.
func MiddleFinger(s landmarks.Set) (bool, float64) {
	if fingerExtended(s, landmarks.HandMiddleMCP, landmarks.HandMiddlePIP, landmarks.HandMiddleDIP, landmarks.HandMiddleTip) &&
		fingerCurled(s, landmarks.HandIndexMCP, landmarks.HandIndexTip) &&
		fingerCurled(s, landmarks.HandRingMCP, landmarks.HandRingTip) &&
		fingerCurled(s, landmarks.HandPinkyMCP, landmarks.HandPinkyTip) {
		return true, 0.9
	}
	return false, 0
}

// ThumbsUp detects the thumb extended upward with every finger curled.
func ThumbsUp(s landmarks.Set) (bool, float64) {
	if thumbUp(s) && thumbExtended(s) &&
		fingerCurled(s, landmarks.HandIndexMCP, landmarks.HandIndexTip) &&
		fingerCurled(s, landmarks.HandMiddleMCP, landmarks.HandMiddleTip) &&
		fingerCurled(s, landmarks.HandRingMCP, landmarks.HandRingTip) &&
		fingerCurled(s, landmarks.HandPinkyMCP, landmarks.HandPinkyTip) {
		return true, 0.9
	}
	return false, 0
}

// PeaceSign detects index and middle extended with ring and pinky curled.
func PeaceSign(s landmarks.Set) (bool, float64) {
	if fingerExtended(s, landmarks.HandIndexMCP, landmarks.HandIndexPIP, landmarks.HandIndexDIP, landmarks.HandIndexTip) &&
		fingerExtended(s, landmarks.HandMiddleMCP, landmarks.HandMiddlePIP, landmarks.HandMiddleDIP, landmarks.HandMiddleTip) &&
		fingerCurled(s, landmarks.HandRingMCP, landmarks.HandRingTip) &&
		fingerCurled(s, landmarks.HandPinkyMCP, landmarks.HandPinkyTip) {
		return true, 0.85
	}
	return false, 0
}

// Fist detects all fingers curled with the thumb tucked.
func Fist(s landmarks.Set) (bool, float64) {
	if fingerCurled(s, landmarks.HandIndexMCP, landmarks.HandIndexTip) &&
		fingerCurled(s, landmarks.HandMiddleMCP, landmarks.HandMiddleTip) &&
		fingerCurled(s, landmarks.HandRingMCP, landmarks.HandRingTip) &&
		fingerCurled(s, landmarks.HandPinkyMCP, landmarks.HandPinkyTip) &&
		!thumbExtended(s) {
		return true, 0.85
	}
	return false, 0
}

// OpenPalm detects all four fingers and the thumb extended.
func OpenPalm(s landmarks.Set) (bool, float64) {
	if fingerExtended(s, landmarks.HandIndexMCP, landmarks.HandIndexPIP, landmarks.HandIndexDIP, landmarks.HandIndexTip) &&
		fingerExtended(s, landmarks.HandMiddleMCP, landmarks.HandMiddlePIP, landmarks.HandMiddleDIP, landmarks.HandMiddleTip) &&
		fingerExtended(s, landmarks.HandRingMCP, landmarks.HandRingPIP, landmarks.HandRingDIP, landmarks.HandRingTip) &&
		fingerExtended(s, landmarks.HandPinkyMCP, landmarks.HandPinkyPIP, landmarks.HandPinkyDIP, landmarks.HandPinkyTip) &&
		thumbExtended(s) {
		return true, 0.8
	}
	return false, 0
}

// gestureChecks is the fixed evaluation order; the first match wins.
var gestureChecks = []struct {
	name  string
	check func(landmarks.Set) (bool, float64)
}{
	{GestureMiddleFinger, MiddleFinger},
	{GestureThumbsUp, ThumbsUp},
	{GesturePeaceSign, PeaceSign},
	{GestureFist, Fist},
	{GestureOpenPalm, OpenPalm},
}

// Classify runs the rules against one hand in priority order and returns
// the first match, or the zero Result when nothing matches. Sets with the
// wrong length yield the zero Result.
func Classify(s landmarks.Set, side string) Result {
	if !s.Valid(landmarks.HandCount) {
		return Result{Hand: side}
	}
	for _, g := range gestureChecks {
		if ok, conf := g.check(s); ok {
			return Result{Gesture: g.name, Confidence: conf, Hand: side}
		}
	}
	return Result{Hand: side}
}
