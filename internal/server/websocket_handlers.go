package server

import (
	"errors"

	"lotusnews/internal/featureflags"
	"lotusnews/internal/middleware"
	"lotusnews/internal/models"
	"lotusnews/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LiveFeedRequired admits WebSocket upgrades to the live feed while the
// live_feed flag is on for the caller. Rollouts are keyed by user id when
// OptionalAuth found a token, otherwise by remote address.
func (s *Server) LiveFeedRequired(c *fiber.Ctx) error {
	subject := c.IP()
	if id, ok := middleware.CurrentUserID(c); ok {
		subject = id.String()
	}
	if !s.featureFlags.Enabled(featureflags.LiveFeed, subject) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Live feed is not enabled"})
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return models.RespondWithError(c, fiber.StatusUpgradeRequired,
			models.NewValidationError("WebSocket upgrade required"))
	}
	return c.Next()
}

// FeedWebSocketHandler streams every newly created post to the client as a
// JSON text frame.
func (s *Server) FeedWebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		sub, err := s.feedHub.Subscribe()
		if err != nil {
			code := websocket.CloseTryAgainLater
			if errors.Is(err, notifications.ErrHubClosed) {
				code = websocket.CloseGoingAway
			}
			middleware.Logger.Warn("live feed subscription refused", "error", err)
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, err.Error()))
			_ = conn.Close()
			return
		}

		notifications.ServeFeed(s.shutdownCtx, conn, sub, conn.RemoteAddr().String())
	})
}
