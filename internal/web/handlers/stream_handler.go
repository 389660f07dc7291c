package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
	"github.com/Ondalf/spothinta/internal/infrastructure/metrics"
	"github.com/Ondalf/spothinta/internal/model"
	"github.com/Ondalf/spothinta/internal/stream"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// StreamHandler upgrades subscribers onto the price stream. Every
// quarter-hour tick the scheduler publishes resolved prices to the hub and
// the handler forwards them to connected clients.
type StreamHandler struct {
	hub      *stream.Hub
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a stream handler over the hub.
func NewStreamHandler(hub *stream.Hub) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The daemon serves host-local integrations only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream handles GET /api/v1/stream?region=FI&variant=with_tax.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	region, err := model.ParseRegion(defaulted(r.URL.Query().Get("region"), model.DefaultRegion.String()))
	if err != nil {
		writeError(w, r.Context(), http.StatusBadRequest, "INVALID_REGION", err.Error())
		return
	}
	variant, err := model.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		writeError(w, r.Context(), http.StatusBadRequest, "INVALID_VARIANT", err.Error())
		return
	}

	ctx := r.Context()
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logging.WarnWithError(ctx, "Websocket upgrade failed", err, nil)
		return
	}

	sub := h.hub.Subscribe(region, variant)
	metrics.StreamClients.Set(float64(h.hub.Subscribers()))

	logging.Info(ctx, "Stream subscriber connected", logging.Fields{
		logging.FieldRegion:  region.String(),
		logging.FieldVariant: string(variant),
	})

	done := make(chan struct{})
	go h.readLoop(conn, done)
	h.writeLoop(conn, sub, done)

	h.hub.Unsubscribe(sub)
	metrics.StreamClients.Set(float64(h.hub.Subscribers()))
	_ = conn.Close()

	logging.Info(ctx, "Stream subscriber disconnected", logging.Fields{
		logging.FieldRegion:  region.String(),
		logging.FieldVariant: string(variant),
	})
}

// readLoop drains inbound frames so close and pong control messages are
// processed; subscribers are not expected to send data.
func (h *StreamHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

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

func (h *StreamHandler) writeLoop(conn *websocket.Conn, sub *stream.Subscriber, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-sub.Updates():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(update); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
