package actions

import "sort"

// Action labels produced by the rule engine.
const (
	ActionHandRaised  = "hand_raised"
	ActionWaving      = "waving"
	ActionClapping    = "clapping"
	ActionDrinking    = "drinking"
	ActionArmsCrossed = "arms_crossed"
)

// Result holds the per-label confidence scores detected in one frame.
type Result struct {
	Actions map[string]float64 `json:"actions"`
}

// Dominant returns the highest-confidence action label and its score.
// The label is empty when no action scored above zero. Ties break on
// label order so the result is deterministic.
func (r Result) Dominant() (string, float64) {
	if len(r.Actions) == 0 {
		return "", 0
	}

	labels := make([]string, 0, len(r.Actions))
	for label := range r.Actions {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best, bestScore := "", 0.0
	for _, label := range labels {
		if score := r.Actions[label]; score > bestScore {
			best, bestScore = label, score
		}
	}
	return best, bestScore
}
