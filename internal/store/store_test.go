package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	d, err := sql.Open("sqlite", "file::memory:?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	// Create tables manually for test
	_, err = d.Exec(`
		CREATE TABLE users (
			id                 TEXT PRIMARY KEY,
			email              TEXT NOT NULL UNIQUE,
			password_hash      TEXT NOT NULL,
			verified           BOOLEAN NOT NULL DEFAULT 0,
			verification_token TEXT NOT NULL DEFAULT '',
			created_at         DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE items (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			category     TEXT NOT NULL DEFAULT '',
			sku          TEXT NOT NULL DEFAULT '',
			quantity     INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			price        REAL NOT NULL DEFAULT 0 CHECK (price >= 0),
			date_added   DATETIME NOT NULL,
			last_updated DATETIME NOT NULL
		);
		CREATE INDEX idx_items_user_id ON items(user_id);

		CREATE TABLE stock_transactions (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			item_id       TEXT NOT NULL,
			item_name     TEXT NOT NULL,
			item_sku      TEXT NOT NULL DEFAULT '',
			item_category TEXT NOT NULL DEFAULT '',
			item_price    REAL NOT NULL DEFAULT 0,
			kind          TEXT NOT NULL CHECK (kind IN ('add', 'take')),
			quantity      INTEGER NOT NULL CHECK (quantity > 0),
			reason        TEXT NOT NULL DEFAULT '',
			date          DATETIME NOT NULL
		);
		CREATE INDEX idx_stock_transactions_user_id ON stock_transactions(user_id);
		CREATE INDEX idx_stock_transactions_date    ON stock_transactions(date);
	`)
	require.NoError(t, err)

	return d
}

// createTestUser inserts a user directly and returns its id.
func createTestUser(t *testing.T, d *sql.DB, email string) string {
	users := NewUserStore(d)
	user, err := users.Create(context.Background(), email, "hash", "")
	require.NoError(t, err)
	return user.ID
}

func createTestItem(t *testing.T, d *sql.DB, userID, name string, quantity int, price float64) *domain.Item {
	items := NewItemStore(d)
	ctx := context.Background()

	item, err := items.Create(ctx, userID, name, "", "", "", price)
	require.NoError(t, err)

	if quantity != 0 {
		require.NoError(t, items.Update(ctx, item.ID, userID, domain.ItemPatch{Quantity: &quantity}))
		item, err = items.GetByID(ctx, item.ID, userID)
		require.NoError(t, err)
	}
	return item
}
