package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hallgate/augustlink/internal/stream"
)

// eventBuffer is the per-client event queue depth. Clients that fall
// this far behind are disconnected rather than slowing the stream.
const eventBuffer = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Localhost API; browsers are not the expected clients.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsEvent is the wire shape of one state-change notification.
type wsEvent struct {
	DeviceID       string     `json:"device_id"`
	DeviceType     string     `json:"device_type"`
	At             time.Time  `json:"at"`
	LockStatus     string     `json:"lock_status,omitempty"`
	DoorState      string     `json:"door_state,omitempty"`
	BridgeOnline   *bool      `json:"bridge_online,omitempty"`
	ImageURL       string     `json:"image_url,omitempty"`
	ImageCreatedAt *time.Time `json:"image_created_at,omitempty"`
}

// handleWebSocket streams state-change events to one client until it
// disconnects or falls too far behind.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close() //nolint:errcheck // Connection teardown

	events, cancel := s.coordinator.Subscribe(eventBuffer)
	defer cancel()

	conn.SetReadLimit(int64(s.wsCfg.MaxMessageSize))
	pongTimeout := time.Duration(s.wsCfg.PongTimeout) * time.Second
	pingInterval := time.Duration(s.wsCfg.PingInterval) * time.Second

	conn.SetReadDeadline(time.Now().Add(pongTimeout)) //nolint:errcheck // Deadline best effort
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	// Drain client frames so pongs and close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil,
				time.Now().Add(pingInterval)); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(eventToWire(event)); err != nil {
				return
			}
		}
	}
}

func eventToWire(event stream.Event) wsEvent {
	out := wsEvent{
		DeviceID:   event.DeviceID,
		DeviceType: event.DeviceType,
		At:         event.At,
	}
	switch event.DeviceType {
	case "lock":
		out.LockStatus = string(event.LockStatus)
		out.DoorState = string(event.DoorState)
		online := event.BridgeOnline
		out.BridgeOnline = &online
	case "doorbell":
		out.ImageURL = event.ImageURL
		if !event.ImageCreatedAt.IsZero() {
			at := event.ImageCreatedAt
			out.ImageCreatedAt = &at
		}
	}
	return out
}
