package pipeline

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/perceptd/go-percept/internal/log"
	"github.com/perceptd/go-percept/pkg/actions"
	"github.com/perceptd/go-percept/pkg/emotion"
	"github.com/perceptd/go-percept/pkg/gestures"
	"github.com/perceptd/go-percept/pkg/relay"
	"github.com/perceptd/go-percept/pkg/smoothing"
)

// DefaultEmotionEveryN runs the expensive emotion classifier on every
// third frame; the cheap pose and hand paths run on all of them.
const DefaultEmotionEveryN = 3

// SchedulerConfig holds the scheduler's tunables. Data only; wiring is
// done by the caller.
type SchedulerConfig struct {
	EmotionEveryN int           // classifier cadence (every Nth frame)
	GetTimeout    time.Duration // input relay poll timeout
}

// DefaultSchedulerConfig returns production defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		EmotionEveryN: DefaultEmotionEveryN,
		GetTimeout:    time.Second,
	}
}

// Scheduler is the pipeline's middle stage. For each frame pulled from
// the input relay it always runs the per-frame action and gesture paths,
// runs the emotion classifier only on its every-Nth cadence (reusing the
// cached result verbatim in between), and pushes the combined snapshot
// into the output relay.
//
// The scheduler exclusively owns the smoothers and the temporal buffer;
// only the two relay queues are shared with other stages.
type Scheduler struct {
	cfg SchedulerConfig

	in  *relay.Queue[[]byte]
	out *relay.Queue[Snapshot]

	actions    *actions.Detector
	gestures   *gestures.Detector
	classifier emotion.Classifier

	emotions     *smoothing.EmotionSmoother
	actionVotes  *smoothing.ActionSmoother
	gestureVotes *smoothing.GestureSmoother

	// Cached between classifier invocations.
	latestResult emotion.DetectionResult
	latestState  smoothing.EmotionState

	// Observability only, not part of the correctness contract.
	frameCount uint64
	started    time.Time
	firstFrame time.Duration

	logger *slog.Logger
}

// NewScheduler wires a scheduler over its collaborators and smoothers.
func NewScheduler(
	cfg SchedulerConfig,
	in *relay.Queue[[]byte],
	out *relay.Queue[Snapshot],
	actionDet *actions.Detector,
	gestureDet *gestures.Detector,
	classifier emotion.Classifier,
	emotions *smoothing.EmotionSmoother,
	actionVotes *smoothing.ActionSmoother,
	gestureVotes *smoothing.GestureSmoother,
) *Scheduler {
	if cfg.EmotionEveryN < 1 {
		cfg.EmotionEveryN = 1
	}
	if cfg.GetTimeout <= 0 {
		cfg.GetTimeout = time.Second
	}
	return &Scheduler{
		cfg:          cfg,
		in:           in,
		out:          out,
		actions:      actionDet,
		gestures:     gestureDet,
		classifier:   classifier,
		emotions:     emotions,
		actionVotes:  actionVotes,
		gestureVotes: gestureVotes,
		latestResult: emotion.NoFace(),
		latestState:  emotions.State(),
		logger:       log.With("component", "scheduler"),
	}
}

// Run processes frames until ctx is cancelled. Every queue read uses the
// configured timeout so cancellation is observed within one interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.started = time.Now()
	s.logger.Info("scheduler running", "emotion_every_n", s.cfg.EmotionEveryN)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "frames", s.frameCount)
			return
		default:
		}

		frame, ok := s.in.Get(s.cfg.GetTimeout)
		if !ok {
			continue
		}
		s.Process(frame)
	}
}

// Process runs one frame through the interleaved detection paths and
// pushes the combined snapshot downstream.
func (s *Scheduler) Process(frame []byte) {
	// Cheap paths: every frame.
	actionResult := s.actions.Detect(frame)
	actionState := s.actionVotes.Update(actionResult)

	gestureResult := s.gestures.Detect(frame)
	gestureState := s.gestureVotes.Update(gestureResult)

	// Expensive path: every Nth frame, cached result reused in between.
	if s.frameCount%uint64(s.cfg.EmotionEveryN) == 0 {
		start := time.Now()
		result, err := s.classifier.Analyze(frame)
		if err != nil {
			// One bad frame must not stall the pipeline; absence of a
			// face is the substitute value.
			s.logger.Warn("emotion classification failed", "error", err)
			result = emotion.NoFace()
		}
		result.Processing = time.Since(start)

		if result.FaceFound {
			s.latestState = s.emotions.Update(result.Scores, result.Region)
		}
		s.latestResult = result
	}

	s.frameCount++
	if s.frameCount == 1 {
		s.firstFrame = time.Since(s.started)
		s.logger.Info("first frame processed", "elapsed", s.firstFrame)
	} else if s.frameCount%100 == 0 {
		s.logger.Debug("processing progress", "frames", s.frameCount, "fps", round1(s.FPS()))
	}

	s.out.Put(Snapshot{
		Frame:        frame,
		Timestamp:    time.Now(),
		Emotion:      s.latestResult,
		EmotionState: s.latestState,
		ActionState:  actionState,
		GestureState: gestureState,
		Gesture:      gestureResult,
	})
}

// Frames returns the number of frames processed so far.
func (s *Scheduler) Frames() uint64 {
	return s.frameCount
}

// FPS returns the average processing rate since the scheduler started, or
// 0 before the first frame.
func (s *Scheduler) FPS() float64 {
	if s.frameCount == 0 {
		return 0
	}
	elapsed := time.Since(s.started).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.frameCount) / elapsed
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
