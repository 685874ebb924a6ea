package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/exportstore"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/insights"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/live"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/report"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/stock"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/store"
)

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidPatch        = errors.New("invalid patch")
	ErrInsightsDisabled    = errors.New("insights backend is not configured")
)

// itemRepository is the subset of store.ItemStore that InventoryService
// requires.
type itemRepository interface {
	Create(ctx context.Context, userID, name, description, category, sku string, price float64) (*domain.Item, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Item, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Item, error)
	Update(ctx context.Context, id, userID string, patch domain.ItemPatch) error
	Delete(ctx context.Context, id, userID string) error
}

// transactionRepository is the subset of store.TransactionStore that
// InventoryService requires.
type transactionRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error)
	Update(ctx context.Context, id, userID string, patch domain.TransactionPatch) error
	Delete(ctx context.Context, id, userID string) error
}

// InventoryService ties the stores, the stock processor, the live hubs
// and the report code together behind one API used by the web layer.
type InventoryService struct {
	items      itemRepository
	txs        transactionRepository
	processor  *stock.Processor
	itemHub    *live.Hub[*domain.Item]
	txHub      *live.Hub[*domain.Transaction]
	exports    exportstore.ExportStore
	summarizer insights.Summarizer
	logger     *slog.Logger
}

func NewInventoryService(
	items itemRepository,
	txs transactionRepository,
	processor *stock.Processor,
	itemHub *live.Hub[*domain.Item],
	txHub *live.Hub[*domain.Transaction],
	exports exportstore.ExportStore,
	summarizer insights.Summarizer,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		items:      items,
		txs:        txs,
		processor:  processor,
		itemHub:    itemHub,
		txHub:      txHub,
		exports:    exports,
		summarizer: summarizer,
		logger:     logger,
	}
}

func (s *InventoryService) CreateItem(ctx context.Context, userID, name, description, category, sku string, price float64) (*domain.Item, error) {
	item, err := s.items.Create(ctx, userID, name, description, category, sku, price)
	if err != nil {
		return nil, err
	}
	s.itemHub.Notify(ctx, userID)
	return item, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id, userID string) (*domain.Item, error) {
	return s.items.GetByID(ctx, id, userID)
}

func (s *InventoryService) ListItems(ctx context.Context, userID string) ([]*domain.Item, error) {
	return s.items.ListByUser(ctx, userID)
}

func (s *InventoryService) UpdateItem(ctx context.Context, id, userID string, patch domain.ItemPatch) (*domain.Item, error) {
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidPatch)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidPatch)
	}

	if err := s.items.Update(ctx, id, userID, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	s.itemHub.Notify(ctx, userID)
	return s.items.GetByID(ctx, id, userID)
}

func (s *InventoryService) DeleteItem(ctx context.Context, id, userID string) error {
	if err := s.items.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	s.itemHub.Notify(ctx, userID)
	return nil
}

// ApplyMovement runs the stock processor against the item's current
// snapshot. Subscribers are notified for every list that may have
// changed, including the item list when the transaction append failed
// after the quantity update went through.
func (s *InventoryService) ApplyMovement(ctx context.Context, userID, itemID string, kind domain.MovementKind, quantity int, reason string) (*stock.Result, error) {
	item, err := s.items.GetByID(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	res, err := s.processor.Apply(ctx, item, kind, quantity, reason)
	if res != nil {
		s.itemHub.Notify(ctx, userID)
		if res.Transaction != nil {
			s.txHub.Notify(ctx, userID)
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("movement applied",
		"user_id", userID,
		"item_id", itemID,
		"kind", kind,
		"quantity", quantity,
		"new_quantity", res.NewQuantity,
	)
	return res, nil
}

func (s *InventoryService) ListTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return s.txs.ListByUser(ctx, userID)
}

// UpdateTransaction edits the audit record only; the referenced item's
// quantity is never reconciled.
func (s *InventoryService) UpdateTransaction(ctx context.Context, id, userID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if patch.Kind != nil && !patch.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidPatch, *patch.Kind)
	}
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, fmt.Errorf("%w: transaction quantity must be positive", ErrInvalidPatch)
	}

	if err := s.txs.Update(ctx, id, userID, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	s.txHub.Notify(ctx, userID)
	return s.txs.GetByID(ctx, id, userID)
}

func (s *InventoryService) DeleteTransaction(ctx context.Context, id, userID string) error {
	if err := s.txs.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	s.txHub.Notify(ctx, userID)
	return nil
}

// DashboardData is the stats plus the per-category quantity chart.
type DashboardData struct {
	Stats      report.DashboardStats  `json:"stats"`
	Categories []report.CategoryTotal `json:"categoryBreakdown"`
}

func (s *InventoryService) Dashboard(ctx context.Context, userID string) (*DashboardData, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DashboardData{
		Stats:      report.Dashboard(items),
		Categories: report.CategoryBreakdown(items),
	}, nil
}

// WeeklyReportData bundles the summary with the selected transactions.
type WeeklyReportData struct {
	Summary      report.WeeklySummary  `json:"summary"`
	Transactions []*domain.Transaction `json:"transactions"`
}

func (s *InventoryService) WeeklyReport(ctx context.Context, userID string, weekStart time.Time) (*WeeklyReportData, error) {
	txs, err := s.txs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	week := report.SelectWeek(txs, weekStart)
	return &WeeklyReportData{
		Summary:      report.Summarize(week, weekStart),
		Transactions: week,
	}, nil
}

// ExportFormat selects the rendering of a weekly export.
type ExportFormat string

const (
	ExportJSON  ExportFormat = "json"
	ExportPages ExportFormat = "pages"
)

// ExportWeekly renders the week's transactions in the requested format,
// persists the artifact under a deterministic per-user key and returns
// the rendered bytes.
func (s *InventoryService) ExportWeekly(ctx context.Context, userID string, weekStart time.Time, format ExportFormat) ([]byte, string, error) {
	txs, err := s.txs.ListByUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	doc := report.BuildExport(report.SelectWeek(txs, weekStart), weekStart)

	var (
		data        []byte
		contentType string
	)
	switch format {
	case ExportJSON:
		data, err = doc.JSON()
		if err != nil {
			return nil, "", err
		}
		contentType = "application/json"
	case ExportPages:
		data = []byte(doc.Pages())
		contentType = "text/markdown"
	default:
		return nil, "", fmt.Errorf("unknown export format %q", format)
	}

	key := fmt.Sprintf("%s-weekly-%s", userID, doc.WeekStart)
	if _, err := s.exports.Save(ctx, key, contentType, bytes.NewReader(data)); err != nil {
		// The export is still returned; only the archived copy is lost.
		s.logger.Warn("failed to archive export", "user_id", userID, "key", key, "error", err)
	}

	return data, contentType, nil
}

// WeeklyInsights produces the optional model-written narrative for the
// week. Fails with ErrInsightsDisabled when no backend is configured.
func (s *InventoryService) WeeklyInsights(ctx context.Context, userID string, weekStart time.Time) (string, error) {
	if s.summarizer == nil {
		return "", ErrInsightsDisabled
	}

	txs, err := s.txs.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	week := report.SelectWeek(txs, weekStart)
	doc := report.BuildExport(week, weekStart)
	return s.summarizer.Summarize(ctx, report.Summarize(week, weekStart), doc.Transactions)
}

// SubscribeItems yields the caller's item list, first the current
// snapshot, then a wholesale replacement after every change.
func (s *InventoryService) SubscribeItems(ctx context.Context, userID string) (<-chan []*domain.Item, error) {
	return s.itemHub.Subscribe(ctx, userID)
}

// SubscribeTransactions is the transaction-list counterpart of
// SubscribeItems.
func (s *InventoryService) SubscribeTransactions(ctx context.Context, userID string) (<-chan []*domain.Transaction, error) {
	return s.txHub.Subscribe(ctx, userID)
}
