// Package web provides the real-time dashboard for perceptd: REST
// endpoints for the current perception state and websocket streams for
// events, snapshots and camera frames. It is a pipeline consumer; the
// pipeline never waits on it.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/perceptd/go-percept/internal/log"
	"github.com/perceptd/go-percept/pkg/events"
	"github.com/perceptd/go-percept/pkg/hub"
	"github.com/perceptd/go-percept/pkg/pipeline"
)

// maxRecentEvents bounds the per-channel history kept for /api/events.
const maxRecentEvents = 100

// StreamEvent is the envelope sent on the events websocket.
type StreamEvent struct {
	Type string `json:"type"` // emotion | action | gesture | commentary
	Data any    `json:"data"`
}

// State summarizes the latest snapshot for /api/state.
type State struct {
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Action     string    `json:"action,omitempty"`
	Gesture    string    `json:"gesture,omitempty"`
	FaceFound  bool      `json:"face_found"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Server is the dashboard web server.
type Server struct {
	app  *fiber.App
	port string

	stateMu sync.RWMutex
	state   State

	eventsMu sync.RWMutex
	recent   []StreamEvent

	eventsHub *hub.Hub
	frameHub  *hub.Hub
}

// NewServer creates the dashboard server and its routes.
func NewServer(port string) *Server {
	s := &Server{
		port:      port,
		eventsHub: hub.New("events"),
		frameHub:  hub.New("frames"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "percept dashboard",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/events", s.handleRecentEvents)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// AttachBus subscribes the server to the pipeline's event bus so every
// emitted event reaches the websocket clients.
func (s *Server) AttachBus(bus *events.Bus) {
	bus.OnEmotion(func(ev events.EmotionEvent) {
		s.pushEvent(StreamEvent{Type: "emotion", Data: ev})
	})
	bus.OnAction(func(ev events.ActionEvent) {
		s.pushEvent(StreamEvent{Type: "action", Data: ev})
	})
	bus.OnGesture(func(ev events.GestureEvent) {
		s.pushEvent(StreamEvent{Type: "gesture", Data: ev})
	})
}

// SetSnapshot records the latest pipeline snapshot and broadcasts it.
// Called from the pipeline's consumer stage.
func (s *Server) SetSnapshot(snap pipeline.Snapshot) {
	s.stateMu.Lock()
	s.state = State{
		Emotion:    snap.EmotionState.Dominant,
		Confidence: snap.EmotionState.Confidence,
		Action:     snap.ActionState.Action,
		Gesture:    snap.GestureState.Gesture,
		FaceFound:  snap.Emotion.FaceFound,
		UpdatedAt:  snap.Timestamp,
	}
	s.stateMu.Unlock()

	if snap.Frame != nil {
		s.frameHub.BroadcastBinary(snap.Frame)
	}
}

// PushCommentary broadcasts a generated commentary line.
func (s *Server) PushCommentary(line string) {
	s.pushEvent(StreamEvent{Type: "commentary", Data: fiber.Map{
		"line":      line,
		"timestamp": time.Now(),
	}})
}

func (s *Server) pushEvent(ev StreamEvent) {
	s.eventsMu.Lock()
	s.recent = append(s.recent, ev)
	if len(s.recent) > maxRecentEvents {
		s.recent = s.recent[1:]
	}
	s.eventsMu.Unlock()

	s.eventsHub.BroadcastJSON(ev)
}

// Start runs the hubs and the HTTP listener; blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)
	go s.eventsHub.Run()
	go s.frameHub.Run()
	return s.app.Listen(":" + s.port)
}

// StartAsync runs the server in its own goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server failed", "error", err)
		}
	}()
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
