package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/perceptd/go-percept/internal/config"
	"github.com/perceptd/go-percept/internal/log"
	"github.com/perceptd/go-percept/pkg/actions"
	"github.com/perceptd/go-percept/pkg/capture"
	"github.com/perceptd/go-percept/pkg/commentator"
	"github.com/perceptd/go-percept/pkg/estimate"
	"github.com/perceptd/go-percept/pkg/events"
	"github.com/perceptd/go-percept/pkg/gestures"
	"github.com/perceptd/go-percept/pkg/pipeline"
	"github.com/perceptd/go-percept/pkg/relay"
	"github.com/perceptd/go-percept/pkg/scene"
	"github.com/perceptd/go-percept/pkg/smoothing"
	"github.com/perceptd/go-percept/pkg/web"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Config file path (default: config/<env>/percept.yaml)")
	camera := flag.Int("camera", -1, "Camera device index (overrides config)")
	port := flag.String("port", "", "Dashboard port (overrides config)")
	sidecar := flag.String("sidecar", "", "Inference sidecar URL (overrides config)")
	noWeb := flag.Bool("no-web", false, "Disable the dashboard server")
	noCommentary := flag.Bool("no-commentary", false, "Disable live commentary")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}
	if *camera >= 0 {
		cfg.Camera.Index = *camera
	}
	if *port != "" {
		cfg.Web.Port = *port
	}
	if *sidecar != "" {
		cfg.Sidecar.URL = *sidecar
	}
	if *noWeb {
		cfg.Web.Enabled = false
	}
	if *noCommentary {
		cfg.Commentary.Enabled = false
	}

	level := cfg.Pipeline.LogLevel
	if *debug {
		level = "debug"
	}
	log.Init(level)

	fmt.Println("👁  perceptd")
	fmt.Printf("   Camera:  %d (%dx%d@%d)\n", cfg.Camera.Index, cfg.Camera.Width, cfg.Camera.Height, cfg.Camera.FPS)
	fmt.Printf("   Sidecar: %s\n", cfg.Sidecar.URL)
	if cfg.Web.Enabled {
		fmt.Printf("   Web:     http://localhost:%s\n", cfg.Web.Port)
	}
	fmt.Println()

	if cfg.Commentary.Enabled && cfg.OpenAIKey == "" {
		log.Warn("OPENAI_API_KEY not set, commentary disabled")
		cfg.Commentary.Enabled = false
	}
	if cfg.Scene.Enabled && cfg.GoogleKey == "" {
		log.Warn("GOOGLE_API_KEY not set, scene analysis disabled")
		cfg.Scene.Enabled = false
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Shutting down...")
		cancel()
	}()

	// Shared stages: capture -> scheduler -> consumer, decoupled by
	// drop-oldest relays.
	in := relay.New[[]byte](cfg.Detect.QueueCapacity)
	out := relay.New[pipeline.Snapshot](cfg.Detect.QueueCapacity)

	sidecarClient := estimate.NewClient(cfg.Sidecar.URL, cfg.SidecarTimeout())
	defer sidecarClient.Close()

	bus := events.NewBus()
	bus.OnEmotion(func(ev events.EmotionEvent) {
		log.Info("emotion event", "event", events.JSON(ev))
	})
	bus.OnAction(func(ev events.ActionEvent) {
		log.Info("action event", "event", events.JSON(ev))
	})
	bus.OnGesture(func(ev events.GestureEvent) {
		log.Info("gesture event", "event", events.JSON(ev))
	})

	scheduler := pipeline.NewScheduler(
		pipeline.SchedulerConfig{
			EmotionEveryN: cfg.Detect.EmotionEveryN,
			GetTimeout:    cfg.QueueTimeout(),
		},
		in, out,
		actions.NewDetector(sidecarClient),
		gestures.NewDetector(sidecarClient),
		sidecarClient,
		smoothing.NewEmotionSmoother(bus, smoothing.DefaultEmotionWindow, smoothing.DefaultEmotionDebounce),
		smoothing.NewActionSmoother(bus, smoothing.DefaultVoteWindow, smoothing.DefaultVoteDebounce, smoothing.DefaultMinVoteRatio),
		smoothing.NewGestureSmoother(bus, smoothing.DefaultGestureWindow, smoothing.DefaultGestureDebounce, smoothing.DefaultMinVoteRatio),
	)

	var server *web.Server
	if cfg.Web.Enabled {
		server = web.NewServer(cfg.Web.Port)
		server.AttachBus(bus)
		server.StartAsync()
		defer server.Shutdown()
	}

	var analyzer *scene.Analyzer
	if cfg.Scene.Enabled {
		analyzer = scene.NewAnalyzer(scene.NewGemini(cfg.GoogleKey), cfg.SceneInterval())
		go analyzer.Run(ctx)
	}

	if cfg.Commentary.Enabled {
		gen := commentator.NewOpenAI(cfg.OpenAIKey, cfg.Commentary.Model)
		var src commentator.SceneSource
		if analyzer != nil {
			src = analyzer
		}
		comm := commentator.New(bus, gen, src, cfg.CommentaryInterval())
		if server != nil {
			comm.OnLine = server.PushCommentary
		}
		go comm.Run(ctx)
	}

	consumer := func(snap pipeline.Snapshot) {
		if server != nil {
			server.SetSnapshot(snap)
		}
		if analyzer != nil {
			analyzer.SetFrame(snap.Frame)
		}
	}

	cam := capture.NewWebcam(capture.Config{
		DeviceIndex: cfg.Camera.Index,
		Width:       cfg.Camera.Width,
		Height:      cfg.Camera.Height,
		FPS:         cfg.Camera.FPS,
	})

	runner := pipeline.NewRunner(cam, in, scheduler, out, consumer, cfg.QueueTimeout())
	if err := runner.Run(ctx); err != nil {
		stdlog.Fatalf("Pipeline failed: %v", err)
	}

	fmt.Println("👋 Goodbye!")
}
