package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hyperjump/vanban/internal/models"
	"github.com/hyperjump/vanban/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API already allows any origin; the socket follows.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const wsWriteTimeout = 10 * time.Second

// handleWebSocket subscribes a client to one document's processing
// events. A job that is already terminal gets an immediate notice so
// late subscribers never wait forever.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.String("doc_id", id), zap.Error(err))
		return
	}
	defer conn.Close()

	subID, events := s.hub.Subscribe(id)
	defer s.hub.Unsubscribe(id, subID)

	// Reader and event loop both write; gorilla allows one writer at a
	// time.
	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteJSON(v)
	}

	if job, err := s.store.GetJob(r.Context(), id); err == nil {
		switch job.Status {
		case models.StatusCompleted:
			_ = write(notify.Event{
				Type:       "processing_completed",
				DocumentID: id,
				Status:     string(models.StatusCompleted),
			})
		case models.StatusFailed:
			_ = write(notify.Event{
				Type:       "processing_failed",
				DocumentID: id,
				Status:     string(models.StatusFailed),
				Message:    job.Error,
			})
		}
	}

	// Reader goroutine: answers pings and detects disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType == websocket.TextMessage && string(msg) == "ping" {
				if err := write(map[string]string{"status": "pong"}); err != nil {
					return
				}
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := write(ev); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
