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

// ItemStore persists inventory items. Every operation is scoped to the
// owning user: reads and writes against another user's records behave as
// if the record does not exist.
type ItemStore struct {
	db *sql.DB
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

const itemColumns = "id, user_id, name, description, category, sku, quantity, price, date_added, last_updated"

func (s *ItemStore) Create(ctx context.Context, userID, name, description, category, sku string, price float64) (*domain.Item, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	// New items always start at zero quantity; stock arrives through
	// movements so every quantity change has a transaction record.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, user_id, name, description, category, sku, quantity, price, date_added, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)
	`, id, userID, name, description, category, sku, price, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return s.GetByID(ctx, id, userID)
}

func (s *ItemStore) GetByID(ctx context.Context, id, userID string) (*domain.Item, error) {
	item := &domain.Item{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id = ? AND user_id = ?
	`, id, userID).Scan(
		&item.ID, &item.UserID, &item.Name, &item.Description, &item.Category,
		&item.SKU, &item.Quantity, &item.Price, &item.DateAdded, &item.LastUpdated,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// ListByUser returns all of the user's items, most recently updated first.
func (s *ItemStore) ListByUser(ctx context.Context, userID string) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE user_id = ? ORDER BY last_updated DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		item := &domain.Item{}
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Name, &item.Description, &item.Category,
			&item.SKU, &item.Quantity, &item.Price, &item.DateAdded, &item.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// Update applies the non-nil fields of patch and bumps last_updated.
func (s *ItemStore) Update(ctx context.Context, id, userID string, patch domain.ItemPatch) error {
	sets := []string{"last_updated = ?"}
	args := []any{time.Now().UTC()}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.SKU != nil {
		sets = append(sets, "sku = ?")
		args = append(args, *patch.SKU)
	}
	if patch.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *patch.Quantity)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}

	args = append(args, id, userID)
	result, err := s.db.ExecContext(ctx,
		"UPDATE items SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
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

func (s *ItemStore) Delete(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM items WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
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
