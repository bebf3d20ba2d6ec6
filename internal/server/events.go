package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// handleEvents streams the Event Bus as Server-Sent Events for the lifetime
// of the connection. Disconnecting unregisters the subscriber without
// affecting producers (spec §4.B, §6 cancellation rules).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, unsub := s.bus.Subscribe(r.Context())
	defer unsub()
	for ev := range ch {
		data, err := json.Marshal(ev.Payload)
		if err != nil {
			slog.Warn("server: marshal SSE payload", "event", ev.Name, "err", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
			return // client disconnected.
		}
		flusher.Flush()
	}
}
