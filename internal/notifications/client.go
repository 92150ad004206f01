package notifications

import (
	"context"
	"time"

	"lotusnews/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// The feed is receive-only; inbound frames are discarded.
	maxMessageSize = 512
)

// Conn is the part of a WebSocket connection the feed pump needs. Both the
// Fiber and gorilla connection types satisfy it.
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteJSON(v interface{}) error
	Close() error
}

// ServeFeed streams sub to conn as one JSON text frame per post until ctx is
// cancelled, the peer disconnects, a write fails, or the subscription is
// closed. Whichever happens first tears down the other side too.
func ServeFeed(ctx context.Context, conn Conn, sub *Subscription, remote string) {
	logger := observability.NewWSLogger("feed hub")
	logger.LogConnect(ctx, remote)

	reason := "subscription closed"
	go readPump(conn, sub)
	defer func() {
		sub.Close()
		_ = conn.Close()
		logger.LogDisconnect(ctx, remote, reason, sub.Dropped())
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			reason = "server shutting down"
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case post, ok := <-sub.C():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := conn.WriteJSON(post); err != nil {
				reason = "write failed"
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				reason = "ping failed"
				return
			}
		}
	}
}

// readPump drains inbound frames so pongs and close frames are processed.
// A read error means the peer is gone, which ends the subscription.
func readPump(conn Conn, sub *Subscription) {
	defer sub.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
