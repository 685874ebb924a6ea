package web

import (
	"encoding/json"
	"net/http"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/auth"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

// handleItemEvents streams the caller's item list as SSE snapshots. The
// first event carries the current list; every later event is a wholesale
// replacement. The stream ends when the client disconnects.
func (s *Server) handleItemEvents(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	snapshots, err := s.inventory.SubscribeItems(r.Context(), sess.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to subscribe")
		s.logger.Error("item subscription failed", "user_id", sess.UserID, "error", err)
		return
	}
	streamSSE(w, r, s, snapshots, func(items []*domain.Item) any {
		return toItemResponses(items)
	})
}

// handleTransactionEvents is the transaction counterpart of
// handleItemEvents.
func (s *Server) handleTransactionEvents(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	snapshots, err := s.inventory.SubscribeTransactions(r.Context(), sess.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to subscribe")
		s.logger.Error("transaction subscription failed", "user_id", sess.UserID, "error", err)
		return
	}
	streamSSE(w, r, s, snapshots, func(txs []*domain.Transaction) any {
		return toTransactionResponses(txs)
	})
}

// streamSSE writes each received snapshot as one "snapshot" SSE event
// until the channel closes or the client goes away.
func streamSSE[T any](w http.ResponseWriter, r *http.Request, s *Server, snapshots <-chan []T, view func([]T) any) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)

	enc := json.NewEncoder(w)
	for snapshot := range snapshots {
		if r.Context().Err() != nil {
			return
		}
		if _, err := w.Write([]byte("event: snapshot\ndata: ")); err != nil {
			return
		}
		if err := enc.Encode(view(snapshot)); err != nil {
			s.logger.Error("encode snapshot failed", "error", err)
			return
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}
