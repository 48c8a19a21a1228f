package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/perceptd/go-percept/pkg/actions"
	"github.com/perceptd/go-percept/pkg/emotion"
	"github.com/perceptd/go-percept/pkg/gestures"
	"github.com/perceptd/go-percept/pkg/landmarks"
	"github.com/perceptd/go-percept/pkg/relay"
	"github.com/perceptd/go-percept/pkg/smoothing"
)

type mockPoseEstimator struct {
	PoseFunc func(frame []byte) (landmarks.Set, error)
}

func (m *mockPoseEstimator) Pose(frame []byte) (landmarks.Set, error) {
	if m.PoseFunc != nil {
		return m.PoseFunc(frame)
	}
	return nil, nil
}

func (m *mockPoseEstimator) Close() error { return nil }

type mockHandEstimator struct {
	HandsFunc func(frame []byte) ([]gestures.Hand, error)
}

func (m *mockHandEstimator) Hands(frame []byte) ([]gestures.Hand, error) {
	if m.HandsFunc != nil {
		return m.HandsFunc(frame)
	}
	return nil, nil
}

func (m *mockHandEstimator) Close() error { return nil }

type mockClassifier struct {
	AnalyzeFunc func(frame []byte) (emotion.DetectionResult, error)
	calls       int
}

func (m *mockClassifier) Analyze(frame []byte) (emotion.DetectionResult, error) {
	m.calls++
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(frame)
	}
	return emotion.NoFace(), nil
}

func newTestScheduler(classifier emotion.Classifier, everyN int) (*Scheduler, *relay.Queue[Snapshot]) {
	in := relay.New[[]byte](2)
	out := relay.New[Snapshot](16)
	return NewScheduler(
		SchedulerConfig{EmotionEveryN: everyN, GetTimeout: 10 * time.Millisecond},
		in, out,
		actions.NewDetector(&mockPoseEstimator{}),
		gestures.NewDetector(&mockHandEstimator{}),
		classifier,
		smoothing.NewEmotionSmoother(nil, smoothing.DefaultEmotionWindow, 0),
		smoothing.NewActionSmoother(nil, smoothing.DefaultVoteWindow, 0, smoothing.DefaultMinVoteRatio),
		smoothing.NewGestureSmoother(nil, smoothing.DefaultGestureWindow, 0, smoothing.DefaultMinVoteRatio),
	), out
}

func TestSchedulerClassifierCadence(t *testing.T) {
	classifier := &mockClassifier{
		AnalyzeFunc: func([]byte) (emotion.DetectionResult, error) {
			return emotion.DetectionResult{
				FaceFound: true,
				Dominant:  "happy",
				Scores:    emotion.Scores{"happy": 90},
			}, nil
		},
	}
	s, out := newTestScheduler(classifier, 3)

	for i := 0; i < 6; i++ {
		s.Process([]byte("frame"))
	}

	// Frames 0 and 3 hit the classifier; the rest reuse the cache.
	if classifier.calls != 2 {
		t.Errorf("classifier calls = %d over 6 frames, want 2", classifier.calls)
	}
	if s.Frames() != 6 {
		t.Errorf("Frames = %d, want 6", s.Frames())
	}

	for i := 0; i < 6; i++ {
		snap, ok := out.Get(10 * time.Millisecond)
		if !ok {
			t.Fatalf("snapshot %d missing", i)
		}
		// Skipped frames carry the cached classifier result verbatim.
		if !snap.Emotion.FaceFound {
			t.Errorf("snapshot %d FaceFound = false, want cached true", i)
		}
		if snap.Emotion.Dominant != "happy" {
			t.Errorf("snapshot %d Dominant = %q, want happy", i, snap.Emotion.Dominant)
		}
	}
}

func TestSchedulerEveryFrameCadenceForActions(t *testing.T) {
	poseCalls := 0
	pose := &mockPoseEstimator{
		PoseFunc: func([]byte) (landmarks.Set, error) {
			poseCalls++
			return nil, nil
		},
	}

	in := relay.New[[]byte](2)
	out := relay.New[Snapshot](16)
	s := NewScheduler(
		SchedulerConfig{EmotionEveryN: 3, GetTimeout: 10 * time.Millisecond},
		in, out,
		actions.NewDetector(pose),
		gestures.NewDetector(&mockHandEstimator{}),
		&mockClassifier{},
		smoothing.NewEmotionSmoother(nil, smoothing.DefaultEmotionWindow, 0),
		smoothing.NewActionSmoother(nil, smoothing.DefaultVoteWindow, 0, smoothing.DefaultMinVoteRatio),
		smoothing.NewGestureSmoother(nil, smoothing.DefaultGestureWindow, 0, smoothing.DefaultMinVoteRatio),
	)

	for i := 0; i < 6; i++ {
		s.Process([]byte("frame"))
	}

	// The cheap pose path runs on every frame, unlike the classifier.
	if poseCalls != 6 {
		t.Errorf("pose calls = %d over 6 frames, want 6", poseCalls)
	}
}

func TestSchedulerSubstitutesNoFaceOnClassifierError(t *testing.T) {
	classifier := &mockClassifier{
		AnalyzeFunc: func([]byte) (emotion.DetectionResult, error) {
			return emotion.DetectionResult{}, errors.New("model crashed")
		},
	}
	s, out := newTestScheduler(classifier, 1)

	s.Process([]byte("frame"))

	snap, ok := out.Get(10 * time.Millisecond)
	if !ok {
		t.Fatal("no snapshot produced after classifier error")
	}
	if snap.Emotion.FaceFound {
		t.Error("FaceFound = true after classifier error, want false")
	}
}

func TestSchedulerNoFaceKeepsSmoothedState(t *testing.T) {
	found := true
	classifier := &mockClassifier{
		AnalyzeFunc: func([]byte) (emotion.DetectionResult, error) {
			if found {
				return emotion.DetectionResult{
					FaceFound: true,
					Dominant:  "happy",
					Scores:    emotion.Scores{"happy": 90},
				}, nil
			}
			return emotion.NoFace(), nil
		},
	}
	s, out := newTestScheduler(classifier, 1)

	s.Process([]byte("frame"))
	found = false
	s.Process([]byte("frame"))

	out.Get(10 * time.Millisecond)
	snap, _ := out.Get(10 * time.Millisecond)

	// The raw result reports the lost face, but the smoothed state only
	// moves when a face is actually scored.
	if snap.Emotion.FaceFound {
		t.Error("FaceFound = true, want false")
	}
	if snap.EmotionState.Dominant != "happy" {
		t.Errorf("EmotionState.Dominant = %q, want held happy", snap.EmotionState.Dominant)
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	s, _ := newTestScheduler(&mockClassifier{}, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
