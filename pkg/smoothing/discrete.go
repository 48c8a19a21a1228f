package smoothing

import (
	"sort"
	"time"
)

// Defaults for the discrete (action/gesture) channels.
const (
	DefaultVoteWindow      = 8
	DefaultVoteDebounce    = 500 * time.Millisecond
	DefaultMinVoteRatio    = 0.3
	DefaultGestureWindow   = 6
	DefaultGestureDebounce = time.Second
)

// voter holds a rolling window of per-frame dominant labels ("" = none)
// and computes the majority winner with its vote ratio.
type voter struct {
	window  int
	history []string
}

func newVoter(window int) voter {
	if window < 1 {
		window = 1
	}
	return voter{window: window}
}

// push appends a label, evicting the oldest when the window is full. An
// empty label still advances the window so stale votes age out.
func (v *voter) push(label string) {
	v.history = append(v.history, label)
	if len(v.history) > v.window {
		v.history = v.history[1:]
	}
}

// vote returns the most frequent non-empty label in the window and its
// ratio votes/window_length. Ties break on label order. The label is
// empty when the window holds no votes at all.
func (v *voter) vote() (string, float64) {
	counts := map[string]int{}
	for _, label := range v.history {
		if label != "" {
			counts[label]++
		}
	}
	if len(counts) == 0 {
		return "", 0
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best, bestCount := "", 0
	for _, label := range labels {
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best, float64(bestCount) / float64(len(v.history))
}

// gate rate-limits label changes: a change is admitted only when the new
// label differs from the last admitted one and the debounce interval has
// elapsed. A transition to the empty ("none") label is itself a label
// change and passes through the same gate, so the channel cannot flicker
// between "X detected" and "nothing detected".
type gate struct {
	debounce  time.Duration
	lastLabel string
	lastEmit  time.Time
	now       func() time.Time
}

func newGate(debounce time.Duration) gate {
	return gate{debounce: debounce, now: time.Now}
}

// admit reports whether the label change may be published now, recording
// it as the new last-emitted state when it may.
func (g *gate) admit(label string) bool {
	now := g.now()
	if label == g.lastLabel || now.Sub(g.lastEmit) < g.debounce {
		return false
	}
	g.lastLabel = label
	g.lastEmit = now
	return true
}
