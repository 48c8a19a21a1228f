package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/perceptd/go-percept/pkg/hub"
)

// handleState returns the latest smoothed perception state.
func (s *Server) handleState(c *fiber.Ctx) error {
	s.stateMu.RLock()
	state := s.state
	s.stateMu.RUnlock()
	return c.JSON(state)
}

// handleRecentEvents returns the recent event history, newest last.
func (s *Server) handleRecentEvents(c *fiber.Ctx) error {
	s.eventsMu.RLock()
	recent := make([]StreamEvent, len(s.recent))
	copy(recent, s.recent)
	s.eventsMu.RUnlock()
	return c.JSON(fiber.Map{
		"count":  len(recent),
		"events": recent,
	})
}

// handleEventsWS streams emitted events and commentary as JSON.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	hub.NewClient(s.eventsHub, c).Run()
}

// handleFramesWS streams raw JPEG frames as binary messages.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	hub.NewClient(s.frameHub, c).Run()
}
