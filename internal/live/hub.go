// Package live fans wholesale list snapshots out to per-owner
// subscribers. Consumers replace their local view on every emission;
// there are no partial or merge updates.
package live

import (
	"context"
	"log/slog"
	"sync"
)

// LoadFunc loads the full current list for one owner.
type LoadFunc[T any] func(ctx context.Context, ownerID string) ([]T, error)

// Hub is one subscription channel per backing store. Each Notify reloads
// the owner's full list and broadcasts the replacement to that owner's
// subscribers. A slow subscriber only ever sees the latest snapshot:
// pending snapshots are coalesced, never queued.
type Hub[T any] struct {
	load   LoadFunc[T]
	logger *slog.Logger

	mu   sync.Mutex
	subs map[string]map[*subscriber[T]]struct{}
}

type subscriber[T any] struct {
	ch     chan []T
	closed bool
}

func NewHub[T any](load LoadFunc[T], logger *slog.Logger) *Hub[T] {
	return &Hub[T]{
		load:   load,
		logger: logger,
		subs:   make(map[string]map[*subscriber[T]]struct{}),
	}
}

// Subscribe registers a subscription for ownerID and returns a channel
// that first carries the current snapshot, then a full replacement after
// every notified change. The subscription ends, and the channel closes,
// when ctx is cancelled.
func (h *Hub[T]) Subscribe(ctx context.Context, ownerID string) (<-chan []T, error) {
	snapshot, err := h.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sub := &subscriber[T]{ch: make(chan []T, 1)}
	sub.ch <- snapshot

	h.mu.Lock()
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[*subscriber[T]]struct{})
	}
	h.subs[ownerID][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[ownerID]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.subs, ownerID)
			}
		}
		sub.closed = true
		close(sub.ch)
	}()

	return sub.ch, nil
}

// Notify reloads ownerID's list and broadcasts it to the owner's
// subscribers. A load failure drops this update; subscribers keep their
// previous snapshot and catch up on the next notify.
func (h *Hub[T]) Notify(ctx context.Context, ownerID string) {
	h.mu.Lock()
	hasSubs := len(h.subs[ownerID]) > 0
	h.mu.Unlock()
	if !hasSubs {
		return
	}

	snapshot, err := h.load(ctx, ownerID)
	if err != nil {
		h.logger.Warn("failed to load snapshot for subscribers", "owner_id", ownerID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[ownerID] {
		if sub.closed {
			continue
		}
		// Replace any undelivered snapshot with the newer one.
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snapshot
	}
}

// SubscriberCount reports the number of active subscriptions for ownerID.
func (h *Hub[T]) SubscriberCount(ownerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[ownerID])
}
