package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

// TransactionStore persists stock transactions. Transactions are
// append-mostly: they can be edited or deleted afterwards, but doing so
// never touches the referenced item's quantity.
type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

const txColumns = "id, user_id, item_id, item_name, item_sku, item_category, item_price, kind, quantity, reason, date"

// Create appends a transaction record. The caller supplies the item
// snapshot fields; tx.ID and tx.Date are assigned here.
func (s *TransactionStore) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if !tx.Kind.Valid() {
		return nil, fmt.Errorf("invalid transaction kind %q", tx.Kind)
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_transactions (id, user_id, item_id, item_name, item_sku, item_category, item_price, kind, quantity, reason, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, tx.UserID, tx.ItemID, tx.ItemName, tx.ItemSKU, tx.ItemCategory, tx.ItemPrice, tx.Kind, tx.Quantity, tx.Reason, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return s.GetByID(ctx, id, tx.UserID)
}

func (s *TransactionStore) GetByID(ctx context.Context, id, userID string) (*domain.Transaction, error) {
	tx := &domain.Transaction{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+txColumns+` FROM stock_transactions WHERE id = ? AND user_id = ?
	`, id, userID).Scan(
		&tx.ID, &tx.UserID, &tx.ItemID, &tx.ItemName, &tx.ItemSKU, &tx.ItemCategory,
		&tx.ItemPrice, &tx.Kind, &tx.Quantity, &tx.Reason, &tx.Date,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// ListByUser returns all of the user's transactions, newest first.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+txColumns+` FROM stock_transactions WHERE user_id = ? ORDER BY date DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var txs []*domain.Transaction
	for rows.Next() {
		tx := &domain.Transaction{}
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.ItemID, &tx.ItemName, &tx.ItemSKU, &tx.ItemCategory,
			&tx.ItemPrice, &tx.Kind, &tx.Quantity, &tx.Reason, &tx.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

// Update applies the non-nil fields of patch. The referenced item's
// quantity is deliberately left alone: an edited transaction changes the
// audit trail only.
func (s *TransactionStore) Update(ctx context.Context, id, userID string, patch domain.TransactionPatch) error {
	var sets []string
	var args []any

	if patch.ItemID != nil {
		sets = append(sets, "item_id = ?")
		args = append(args, *patch.ItemID)
	}
	if patch.ItemName != nil {
		sets = append(sets, "item_name = ?")
		args = append(args, *patch.ItemName)
	}
	if patch.ItemSKU != nil {
		sets = append(sets, "item_sku = ?")
		args = append(args, *patch.ItemSKU)
	}
	if patch.ItemCategory != nil {
		sets = append(sets, "item_category = ?")
		args = append(args, *patch.ItemCategory)
	}
	if patch.ItemPrice != nil {
		sets = append(sets, "item_price = ?")
		args = append(args, *patch.ItemPrice)
	}
	if patch.Kind != nil {
		if !patch.Kind.Valid() {
			return fmt.Errorf("invalid transaction kind %q", *patch.Kind)
		}
		sets = append(sets, "kind = ?")
		args = append(args, *patch.Kind)
	}
	if patch.Quantity != nil {
		if *patch.Quantity <= 0 {
			return fmt.Errorf("transaction quantity must be positive")
		}
		sets = append(sets, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	if patch.Reason != nil {
		sets = append(sets, "reason = ?")
		args = append(args, *patch.Reason)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id, userID)
	result, err := s.db.ExecContext(ctx,
		"UPDATE stock_transactions SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *TransactionStore) Delete(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM stock_transactions WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
