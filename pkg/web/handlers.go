package web

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-coach/internal/log"
	"github.com/teslashibe/go-coach/pkg/exercise"
	"github.com/teslashibe/go-coach/pkg/session"
)

// handleHealth reports server liveness and the active session count.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "healthy",
		"active_sessions": s.manager.Active(),
	})
}

// ExerciseInfo describes one selectable exercise profile.
type ExerciseInfo struct {
	Name    string `json:"name"`
	Machine string `json:"machine"`
}

// handleListExercises returns the built-in exercise profiles.
func (s *Server) handleListExercises(c *fiber.Ctx) error {
	var out []ExerciseInfo
	for _, p := range exercise.Profiles() {
		machine := "hysteresis"
		if p.Machine == exercise.KindAccumulator {
			machine = "accumulator"
		}
		out = append(out, ExerciseInfo{Name: p.Name, Machine: machine})
	}
	return c.JSON(out)
}

// StartSessionRequest is the body for POST /api/sessions.
type StartSessionRequest struct {
	Exercise string `json:"exercise"`
}

// handleStartSession creates a session and returns its handle.
func (s *Server) handleStartSession(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil || req.Exercise == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "exercise is required",
		})
	}

	sess, err := s.manager.Start(req.Exercise)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"id":       sess.ID.String(),
		"exercise": sess.Exercise.Name,
	})
}

// handleGetSession returns the live state of a session.
func (s *Server) handleGetSession(c *fiber.Ctx) error {
	sess, ok := s.sessionFromParam(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{
		"id":        sess.ID.String(),
		"exercise":  sess.Exercise.Name,
		"rep_count": sess.RepCount(),
	})
}

// CalibrateRequest is the body for POST /api/sessions/:id/calibrate.
type CalibrateRequest struct {
	Frame string `json:"frame"` // base64 JPEG, optionally a data URL
}

// handleCalibrate captures a one-shot shoulder-width scale reference.
func (s *Server) handleCalibrate(c *fiber.Ctx) error {
	sess, ok := s.sessionFromParam(c)
	if !ok {
		return nil
	}

	var req CalibrateRequest
	if err := c.BodyParser(&req); err != nil || req.Frame == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "frame is required",
		})
	}

	jpeg, err := decodeFrame(req.Frame)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid frame encoding",
		})
	}

	frame, found, err := s.detector.Detect(jpeg)
	if err != nil || !found {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "no person detected",
		})
	}

	scale, err := sess.Calibrate(frame)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"scale": scale})
}

// handleEndSession removes a session and returns the final rep count.
func (s *Server) handleEndSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session id",
		})
	}

	final, err := s.manager.End(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}

	return c.JSON(fiber.Map{"final_rep_count": final})
}

// FrameMessage is one inbound websocket message carrying a video frame.
type FrameMessage struct {
	Frame string `json:"frame"` // base64 JPEG, optionally a data URL
}

// handleSessionWS streams frames in and per-frame results out for one
// session. The socket closes when the client disconnects; the session itself
// stays alive until explicitly ended.
func (s *Server) handleSessionWS(c *websocket.Conn) {
	defer c.Close()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.WriteJSON(fiber.Map{"error": "invalid session id"})
		return
	}

	sess, err := s.manager.Get(id)
	if err != nil {
		c.WriteJSON(fiber.Map{"error": "session not found"})
		return
	}

	for {
		var msg FrameMessage
		if err := c.ReadJSON(&msg); err != nil {
			return
		}

		jpeg, err := decodeFrame(msg.Frame)
		if err != nil {
			c.WriteJSON(session.FrameResult{
				Success:  false,
				Error:    "invalid frame encoding",
				RepCount: sess.RepCount(),
			})
			continue
		}

		frame, found, err := s.detector.Detect(jpeg)
		if err != nil {
			log.Warn("detector failed", "session", id, "error", err)
			c.WriteJSON(session.FrameResult{
				Success:  false,
				Error:    "pose detection failed",
				RepCount: sess.RepCount(),
			})
			continue
		}

		result := sess.ProcessDetection(frame, found)
		if err := c.WriteJSON(result); err != nil {
			return
		}
	}
}

// sessionFromParam resolves the :id route param to an active session. On
// failure it writes the error response itself and reports ok=false.
func (s *Server) sessionFromParam(c *fiber.Ctx) (*session.Session, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session id",
		})
		return nil, false
	}
	sess, err := s.manager.Get(id)
	if err != nil {
		c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
		return nil, false
	}
	return sess, true
}

// decodeFrame decodes a base64 JPEG, tolerating a data-URL prefix.
func decodeFrame(data string) ([]byte, error) {
	if i := strings.IndexByte(data, ','); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
