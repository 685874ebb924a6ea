package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/db"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/live"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/report"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/stock"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/store"
)

// stubExportStore is a minimal in-memory exportstore.ExportStore.
type stubExportStore struct {
	saved   map[string][]byte
	saveErr error
}

func newStubExportStore() *stubExportStore {
	return &stubExportStore{saved: make(map[string][]byte)}
}

func (s *stubExportStore) Save(_ context.Context, key, _ string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	s.saved[key] = data
	return key, nil
}

func (s *stubExportStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubExportStore) Delete(_ context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

// stubSummarizer returns a canned narrative.
type stubSummarizer struct {
	text string
	err  error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ report.WeeklySummary, _ []report.ExportRow) (string, error) {
	return s.text, s.err
}

type testEnv struct {
	svc     *InventoryService
	exports *stubExportStore
	userID  string
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := store.NewUserStore(d)
	items := store.NewItemStore(d)
	txs := store.NewTransactionStore(d)

	itemHub := live.NewHub(func(ctx context.Context, ownerID string) ([]*domain.Item, error) {
		return items.ListByUser(ctx, ownerID)
	}, logger)
	txHub := live.NewHub(func(ctx context.Context, ownerID string) ([]*domain.Transaction, error) {
		return txs.ListByUser(ctx, ownerID)
	}, logger)

	exports := newStubExportStore()
	svc := NewInventoryService(
		items, txs,
		stock.NewProcessor(items, txs, logger),
		itemHub, txHub,
		exports,
		&stubSummarizer{text: "A busy week."},
		logger,
	)

	user, err := users.Create(context.Background(), "owner@example.com", "hash", "")
	require.NoError(t, err)

	return &testEnv{svc: svc, exports: exports, userID: user.ID}
}

func TestCreateAndListItems(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "1m", "Electronics", "USB-001", 4.99)
	require.NoError(t, err)
	assert.Zero(t, item.Quantity)

	list, err := env.svc.ListItems(ctx, env.userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestApplyMovementEndToEnd(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "", "Electronics", "USB-001", 4.99)
	require.NoError(t, err)

	res, err := env.svc.ApplyMovement(ctx, env.userID, item.ID, domain.MovementAdd, 5, "Initial stock")
	require.NoError(t, err)
	assert.Equal(t, 5, res.NewQuantity)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, "USB Cable", res.Transaction.ItemName)

	got, err := env.svc.GetItem(ctx, item.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	txs, err := env.svc.ListTransactions(ctx, env.userID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.MovementAdd, txs[0].Kind)
	assert.Equal(t, 5, txs[0].Quantity)
	assert.Equal(t, "Initial stock", txs[0].Reason)
}

func TestApplyMovementInsufficientStock(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "", "", "", 4.99)
	require.NoError(t, err)
	_, err = env.svc.ApplyMovement(ctx, env.userID, item.ID, domain.MovementAdd, 5, "")
	require.NoError(t, err)

	_, err = env.svc.ApplyMovement(ctx, env.userID, item.ID, domain.MovementTake, 10, "")
	var insufficientErr *stock.InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, 5, insufficientErr.Available)
	assert.Equal(t, 10, insufficientErr.Requested)

	// Quantity unchanged, no transaction recorded.
	got, err := env.svc.GetItem(ctx, item.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	txs, err := env.svc.ListTransactions(ctx, env.userID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestApplyMovementUnknownItem(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.ApplyMovement(context.Background(), env.userID, "missing", domain.MovementAdd, 1, "")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestApplyMovementNotifiesSubscribers(t *testing.T) {
	env := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	item, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "", "", "", 4.99)
	require.NoError(t, err)

	itemCh, err := env.svc.SubscribeItems(ctx, env.userID)
	require.NoError(t, err)
	txCh, err := env.svc.SubscribeTransactions(ctx, env.userID)
	require.NoError(t, err)

	// Initial snapshots.
	assert.Len(t, <-itemCh, 1)
	assert.Empty(t, <-txCh)

	_, err = env.svc.ApplyMovement(ctx, env.userID, item.ID, domain.MovementAdd, 3, "")
	require.NoError(t, err)

	waitSnapshot := func(name string, check func() bool) {
		deadline := time.After(2 * time.Second)
		for {
			if check() {
				return
			}
			select {
			case <-deadline:
				t.Fatalf("timed out waiting for %s snapshot", name)
			case <-time.After(10 * time.Millisecond):
			}
		}
	}

	var items []*domain.Item
	waitSnapshot("item", func() bool {
		select {
		case items = <-itemCh:
			return len(items) == 1 && items[0].Quantity == 3
		default:
			return false
		}
	})

	var txs []*domain.Transaction
	waitSnapshot("transaction", func() bool {
		select {
		case txs = <-txCh:
			return len(txs) == 1
		default:
			return false
		}
	})
}

func TestUpdateTransactionDoesNotReconcileItem(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "", "", "", 4.99)
	require.NoError(t, err)
	res, err := env.svc.ApplyMovement(ctx, env.userID, item.ID, domain.MovementAdd, 5, "")
	require.NoError(t, err)

	newQty := 50
	_, err = env.svc.UpdateTransaction(ctx, res.Transaction.ID, env.userID, domain.TransactionPatch{Quantity: &newQty})
	require.NoError(t, err)

	got, err := env.svc.GetItem(ctx, item.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "editing the audit record leaves the item alone")
}

func TestDeleteTransactionDoesNotReconcileItem(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "", "", "", 4.99)
	require.NoError(t, err)
	res, err := env.svc.ApplyMovement(ctx, env.userID, item.ID, domain.MovementAdd, 5, "")
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteTransaction(ctx, res.Transaction.ID, env.userID))

	got, err := env.svc.GetItem(ctx, item.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestDashboard(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	a, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "", "Electronics", "", 4.00)
	require.NoError(t, err)
	_, err = env.svc.ApplyMovement(ctx, env.userID, a.ID, domain.MovementAdd, 20, "")
	require.NoError(t, err)

	b, err := env.svc.CreateItem(ctx, env.userID, "Desk Lamp", "", "Furniture", "", 25.00)
	require.NoError(t, err)
	_, err = env.svc.ApplyMovement(ctx, env.userID, b.ID, domain.MovementAdd, 2, "")
	require.NoError(t, err)

	data, err := env.svc.Dashboard(ctx, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 2, data.Stats.TotalItems)
	assert.Equal(t, "130", data.Stats.TotalValue.String())
	assert.Equal(t, 1, data.Stats.LowStockItems)
	assert.Equal(t, 2, data.Stats.Categories)
	assert.Len(t, data.Categories, 2)
}

func TestWeeklyReportAndExport(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "", "Electronics", "USB-001", 4.99)
	require.NoError(t, err)
	_, err = env.svc.ApplyMovement(ctx, env.userID, item.ID, domain.MovementAdd, 5, "Restock")
	require.NoError(t, err)

	weekStart := time.Now().UTC().AddDate(0, 0, -int(time.Now().UTC().Weekday()))

	reportData, err := env.svc.WeeklyReport(ctx, env.userID, weekStart)
	require.NoError(t, err)
	assert.Equal(t, 1, reportData.Summary.TotalTransactions)
	assert.Equal(t, 5, reportData.Summary.TotalAdded)
	require.Len(t, reportData.Transactions, 1)

	data, contentType, err := env.svc.ExportWeekly(ctx, env.userID, weekStart, ExportJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var doc report.ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Transactions, 1)
	assert.Equal(t, "USB Cable", doc.Transactions[0].ItemName)

	// The artifact was archived under the deterministic key.
	assert.Len(t, env.exports.saved, 1)

	pages, contentType, err := env.svc.ExportWeekly(ctx, env.userID, weekStart, ExportPages)
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", contentType)
	assert.Contains(t, string(pages), "Inventory Transactions Report")
}

func TestExportWeekly_UnknownFormat(t *testing.T) {
	env := newTestService(t)

	_, _, err := env.svc.ExportWeekly(context.Background(), env.userID, time.Now(), ExportFormat("pdf"))
	assert.Error(t, err)
}

func TestExportWeekly_ArchiveFailureStillReturns(t *testing.T) {
	env := newTestService(t)
	env.exports.saveErr = errors.New("disk full")

	data, _, err := env.svc.ExportWeekly(context.Background(), env.userID, time.Now(), ExportJSON)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestWeeklyInsights(t *testing.T) {
	env := newTestService(t)

	text, err := env.svc.WeeklyInsights(context.Background(), env.userID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "A busy week.", text)
}

func TestWeeklyInsightsDisabled(t *testing.T) {
	env := newTestService(t)
	env.svc.summarizer = nil

	_, err := env.svc.WeeklyInsights(context.Background(), env.userID, time.Now())
	assert.ErrorIs(t, err, ErrInsightsDisabled)
}

func TestOwnerIsolation(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, env.userID, "USB Cable", "", "", "", 4.99)
	require.NoError(t, err)

	otherUser := "someone-else"
	got, err := env.svc.GetItem(ctx, item.ID, otherUser)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = env.svc.ApplyMovement(ctx, otherUser, item.ID, domain.MovementAdd, 1, "")
	assert.ErrorIs(t, err, ErrItemNotFound)

	err = env.svc.DeleteItem(ctx, item.ID, otherUser)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
