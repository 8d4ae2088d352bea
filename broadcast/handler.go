// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kaushiknetcode/Voting-admin/middleware"
)

const (
	// ClientIDHeader identifies the peer on stream and emit requests.
	ClientIDHeader = "X-Client-ID"

	maxPayloadBytes  = 8 << 20
	defaultHeartbeat = 15 * time.Second
)

// EmitResponse is returned by POST /rooms/{room}/events/{event}.
type EmitResponse struct {
	ID        string `json:"id"`
	Delivered int    `json:"delivered"`
}

// Handler exposes a Hub over HTTP: a Server-Sent Events stream per room
// and a POST endpoint to publish into it.
type Handler struct {
	hub       *Hub
	heartbeat time.Duration
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub, heartbeat: defaultHeartbeat}
}

// Stream handles GET /rooms/{room}/stream
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	room := r.PathValue("room")
	if room == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	clientID := r.Header.Get(ClientIDHeader)
	if clientID == "" {
		clientID = NewClientID()
	}

	sub := h.hub.Subscribe(room, clientID)
	defer func() {
		sub.Close()
		slog.Info("client left room", "room", room, "client_id", clientID)
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// The subscription is live before the first byte is flushed, so a
	// client that has read this line will see every later publish.
	fmt.Fprintf(w, ": joined %s\n\n", room)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			if err := writeEvent(w, msg); err != nil {
				slog.Warn("failed to write event", "room", room, "client_id", clientID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", msg.ID, msg.Event, data)
	return err
}

// Emit handles POST /rooms/{room}/events/{event}
func (h *Handler) Emit(w http.ResponseWriter, r *http.Request) {
	room := r.PathValue("room")
	event := r.PathValue("event")
	if room == "" || event == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room and event are required")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}
	if !json.Valid(body) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	msg := NewMessage(room, event, r.Header.Get(ClientIDHeader), body)
	delivered := h.hub.Publish(msg)

	slog.Info("event published", "room", room, "event", event, "id", msg.ID, "delivered", delivered)

	middleware.JSONResponse(w, http.StatusAccepted, EmitResponse{ID: msg.ID, Delivered: delivered})
}
