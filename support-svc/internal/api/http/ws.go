package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveThread streams a support thread over a websocket. Frames sent by the
// client are stored as new messages; every stored message, from any client,
// comes back through the thread subscription.
func (h *Handler) serveThread(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["threadId"]
	id := caller(r)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	msgs, closeSub, err := h.Support.Subscribe(ctx, threadID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer closeSub()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", "thread_id", threadID, "error", err)
		return
	}
	defer conn.Close()

	// Only this goroutine writes to conn.
	go func() {
		for msg := range msgs {
			if err := conn.WriteJSON(msg); err != nil {
				h.Log.Debug("websocket write failed", "thread_id", threadID, "error", err)
				cancel()
				conn.Close()
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var payload struct {
			Body string `json:"body"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			h.Log.Debug("invalid websocket payload", "thread_id", threadID, "error", err)
			continue
		}
		if _, err := h.Support.Send(ctx, threadID, id, payload.Body); err != nil {
			h.Log.Warn("websocket message rejected", "thread_id", threadID, "error", err)
		}
	}
}
