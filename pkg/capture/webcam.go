// Package capture acquires webcam frames and feeds them into the input
// relay with drop-oldest backpressure, so the scheduler always processes
// the freshest frame the camera produced.
package capture

import (
	"context"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/perceptd/go-percept/internal/log"
	"github.com/perceptd/go-percept/pkg/relay"
)

// Config holds webcam capture settings.
type Config struct {
	DeviceIndex int
	Width       int
	Height      int
	FPS         int
}

// DefaultConfig returns the standard 640x480@30 capture settings.
func DefaultConfig() Config {
	return Config{
		DeviceIndex: 0,
		Width:       640,
		Height:      480,
		FPS:         30,
	}
}

// Webcam reads frames from a local camera and JPEG-encodes them for the
// pipeline. Open must succeed before the pipeline starts; a camera that
// cannot be acquired is a startup error, not a steady-state one.
type Webcam struct {
	cfg    Config
	cam    *gocv.VideoCapture
	logger *slog.Logger
}

// NewWebcam creates an unopened webcam source.
func NewWebcam(cfg Config) *Webcam {
	return &Webcam{
		cfg:    cfg,
		logger: log.With("component", "capture"),
	}
}

// Open acquires the camera device and applies the capture settings.
func (w *Webcam) Open() error {
	cam, err := gocv.OpenVideoCapture(w.cfg.DeviceIndex)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", w.cfg.DeviceIndex, err)
	}

	cam.Set(gocv.VideoCaptureFrameWidth, float64(w.cfg.Width))
	cam.Set(gocv.VideoCaptureFrameHeight, float64(w.cfg.Height))
	cam.Set(gocv.VideoCaptureFPS, float64(w.cfg.FPS))
	cam.Set(gocv.VideoCaptureBufferSize, 1)

	w.cam = cam
	w.logger.Info("camera opened",
		"device", w.cfg.DeviceIndex,
		"width", cam.Get(gocv.VideoCaptureFrameWidth),
		"height", cam.Get(gocv.VideoCaptureFrameHeight),
	)
	return nil
}

// Run reads frames until ctx is cancelled, pushing each JPEG into the
// relay. The relay's drop-oldest policy means this loop never blocks on
// a slow consumer.
func (w *Webcam) Run(ctx context.Context, out *relay.Queue[[]byte]) {
	img := gocv.NewMat()
	defer img.Close()

	frames := 0
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("capture stopped", "frames", frames)
			return
		default:
		}

		if ok := w.cam.Read(&img); !ok {
			w.logger.Error("camera read failed, stopping capture")
			return
		}
		if img.Empty() {
			continue
		}

		buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
		if err != nil {
			w.logger.Warn("frame encode failed", "error", err)
			continue
		}
		frame := make([]byte, len(buf.GetBytes()))
		copy(frame, buf.GetBytes())
		buf.Close()

		out.Put(frame)
		frames++

		if frames == 1 {
			w.logger.Info("first frame captured")
		} else if frames%300 == 0 {
			w.logger.Debug("capture progress", "frames", frames)
		}
	}
}

// Close releases the camera device.
func (w *Webcam) Close() error {
	if w.cam == nil {
		return nil
	}
	err := w.cam.Close()
	w.cam = nil
	return err
}
