// Package stock turns user-requested stock movements into a consistent
// pair of writes: one item-quantity update and one transaction append.
package stock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

var (
	// ErrInvalidQuantity rejects movements whose quantity is not a
	// positive integer. No writes are attempted.
	ErrInvalidQuantity = errors.New("movement quantity must be a positive integer")

	// ErrInvalidKind rejects movements with an unknown direction.
	ErrInvalidKind = errors.New("movement kind must be add or take")
)

// InsufficientStockError rejects a take that exceeds the item's current
// quantity. It names both sides so callers can report them.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot take %d: only %d available in stock", e.Requested, e.Available)
}

// itemUpdater is the subset of store.ItemStore that Processor requires.
type itemUpdater interface {
	Update(ctx context.Context, id, userID string, patch domain.ItemPatch) error
}

// transactionAppender is the subset of store.TransactionStore that
// Processor requires.
type transactionAppender interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
}

type Processor struct {
	items  itemUpdater
	txs    transactionAppender
	logger *slog.Logger
}

func NewProcessor(items itemUpdater, txs transactionAppender, logger *slog.Logger) *Processor {
	return &Processor{items: items, txs: txs, logger: logger}
}

// Result reports the outcome of an applied movement.
type Result struct {
	NewQuantity int
	Transaction *domain.Transaction
}

// Apply validates a movement against the given item snapshot and, on
// success, updates the item's quantity and appends a transaction record
// carrying a snapshot of the item's descriptive fields.
//
// The item update is issued before the transaction append. If the append
// fails after the update succeeded, the quantity change stands with no
// matching transaction; there is no compensating rollback. The snapshot
// is not re-read before writing, so concurrent movements against the same
// item race and the last write wins.
func (p *Processor) Apply(ctx context.Context, item *domain.Item, kind domain.MovementKind, quantity int, reason string) (*Result, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	if kind == domain.MovementTake && quantity > item.Quantity {
		return nil, &InsufficientStockError{Requested: quantity, Available: item.Quantity}
	}

	newQuantity := item.Quantity + quantity
	if kind == domain.MovementTake {
		newQuantity = item.Quantity - quantity
		if newQuantity < 0 {
			newQuantity = 0
		}
	}

	if err := p.items.Update(ctx, item.ID, item.UserID, domain.ItemPatch{Quantity: &newQuantity}); err != nil {
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}

	tx, err := p.txs.Create(ctx, &domain.Transaction{
		UserID:       item.UserID,
		ItemID:       item.ID,
		ItemName:     item.Name,
		ItemSKU:      item.SKU,
		ItemCategory: item.Category,
		ItemPrice:    item.Price,
		Kind:         kind,
		Quantity:     quantity,
		Reason:       reason,
	})
	if err != nil {
		// The quantity change is already durable at this point. The
		// missing audit record is not repaired; the partial Result lets
		// callers see that the item did change.
		p.logger.Warn("transaction append failed after quantity update",
			"item_id", item.ID,
			"kind", kind,
			"quantity", quantity,
			"error", err,
		)
		return &Result{NewQuantity: newQuantity}, fmt.Errorf("failed to record transaction: %w", err)
	}

	return &Result{NewQuantity: newQuantity, Transaction: tx}, nil
}
