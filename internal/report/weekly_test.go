package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

func tx(name string, kind domain.MovementKind, quantity int, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		ItemName: name,
		Kind:     kind,
		Quantity: quantity,
		Date:     date,
	}
}

var weekStart = time.Date(2026, time.August, 23, 0, 0, 0, 0, time.UTC) // a Sunday

func TestSelectWeekBoundaries(t *testing.T) {
	justIn := weekStart.Add(time.Second)                                // Sunday 00:00:01
	lastIn := weekStart.AddDate(0, 0, 6).Add(24*time.Hour - 2*time.Second) // Saturday 23:59:58
	justOut := weekStart.AddDate(0, 0, 7).Add(time.Second)              // next Sunday 00:00:01
	before := weekStart.Add(-time.Second)

	txs := []*domain.Transaction{
		tx("first", domain.MovementAdd, 1, justIn),
		tx("last", domain.MovementTake, 1, lastIn),
		tx("next week", domain.MovementAdd, 1, justOut),
		tx("previous week", domain.MovementAdd, 1, before),
	}

	got := SelectWeek(txs, weekStart)
	require.Len(t, got, 2)
	names := []string{got[0].ItemName, got[1].ItemName}
	assert.Contains(t, names, "first")
	assert.Contains(t, names, "last")
}

func TestSelectWeekExactStart(t *testing.T) {
	txs := []*domain.Transaction{
		tx("midnight", domain.MovementAdd, 1, weekStart),
	}
	got := SelectWeek(txs, weekStart)
	assert.Len(t, got, 1, "weekStart 00:00:00 itself is inclusive")
}

func TestSelectWeekSortsNewestFirst(t *testing.T) {
	txs := []*domain.Transaction{
		tx("monday", domain.MovementAdd, 1, weekStart.AddDate(0, 0, 1)),
		tx("friday", domain.MovementAdd, 1, weekStart.AddDate(0, 0, 5)),
		tx("wednesday", domain.MovementAdd, 1, weekStart.AddDate(0, 0, 3)),
	}

	got := SelectWeek(txs, weekStart)
	require.Len(t, got, 3)
	assert.Equal(t, "friday", got[0].ItemName)
	assert.Equal(t, "wednesday", got[1].ItemName)
	assert.Equal(t, "monday", got[2].ItemName)
}

func TestSelectWeekIgnoresTimeOfWeekStart(t *testing.T) {
	// A weekStart carrying a time of day is truncated to midnight.
	noonStart := weekStart.Add(12 * time.Hour)
	txs := []*domain.Transaction{
		tx("morning", domain.MovementAdd, 1, weekStart.Add(3*time.Hour)),
	}
	got := SelectWeek(txs, noonStart)
	assert.Len(t, got, 1)
}

func TestSummarize(t *testing.T) {
	txs := SelectWeek([]*domain.Transaction{
		tx("USB Cable", domain.MovementAdd, 10, weekStart.AddDate(0, 0, 1)),
		tx("USB Cable", domain.MovementAdd, 5, weekStart.AddDate(0, 0, 2)),
		tx("USB Cable", domain.MovementTake, 3, weekStart.AddDate(0, 0, 3)),
		tx("Desk Lamp", domain.MovementTake, 2, weekStart.AddDate(0, 0, 4)),
	}, weekStart)

	summary := Summarize(txs, weekStart)
	assert.Equal(t, 4, summary.TotalTransactions)
	assert.Equal(t, 15, summary.TotalAdded)
	assert.Equal(t, 5, summary.TotalTaken)
	assert.Equal(t, weekStart, summary.WeekStart)
	assert.Equal(t, weekStart.AddDate(0, 0, 7).Add(-time.Second), summary.WeekEnd)

	require.NotEmpty(t, summary.TopItems)
	assert.Equal(t, TopItem{ItemName: "USB Cable", TotalQuantity: 15, Kind: domain.MovementAdd}, summary.TopItems[0])
}

func TestSummarizeEmptyWeek(t *testing.T) {
	summary := Summarize(nil, weekStart)
	assert.Zero(t, summary.TotalTransactions)
	assert.Zero(t, summary.TotalAdded)
	assert.Zero(t, summary.TotalTaken)
	assert.Empty(t, summary.TopItems)
}

func TestBuildExportDocument(t *testing.T) {
	sample := &domain.Transaction{
		ItemName:     "USB Cable",
		ItemSKU:      "USB-001",
		ItemCategory: "Electronics",
		ItemPrice:    4.99,
		Kind:         domain.MovementTake,
		Quantity:     2,
		Date:         weekStart.AddDate(0, 0, 1),
	}
	bare := &domain.Transaction{
		ItemName: "Mystery Box",
		Kind:     domain.MovementAdd,
		Quantity: 1,
		Date:     weekStart.AddDate(0, 0, 2),
	}

	doc := BuildExport(SelectWeek([]*domain.Transaction{sample, bare}, weekStart), weekStart)
	assert.Equal(t, "2026-08-23", doc.WeekStart)
	assert.Equal(t, "2026-08-29", doc.WeekEnd)
	require.Len(t, doc.Transactions, 2)

	// Newest first: the bare record is the later one.
	assert.Equal(t, ExportRow{
		ItemName:  "Mystery Box",
		SKU:       "N/A",
		Category:  "N/A",
		Price:     0,
		Operation: "+",
		Quantity:  1,
		Date:      "2026-08-25",
	}, doc.Transactions[0])
	assert.Equal(t, ExportRow{
		ItemName:  "USB Cable",
		SKU:       "USB-001",
		Category:  "Electronics",
		Price:     4.99,
		Operation: "-",
		Quantity:  2,
		Date:      "2026-08-24",
	}, doc.Transactions[1])
}

func TestExportJSONShape(t *testing.T) {
	doc := BuildExport(nil, weekStart)
	out, err := doc.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"weekStart": "2026-08-23"`)
	assert.Contains(t, string(out), `"transactions": []`)
}

func TestExportPagesPagination(t *testing.T) {
	var txs []*domain.Transaction
	for i := 0; i < 31; i++ {
		txs = append(txs, tx("Bolt", domain.MovementAdd, 1, weekStart.Add(time.Duration(i)*time.Minute)))
	}

	doc := BuildExport(SelectWeek(txs, weekStart), weekStart)
	pages := doc.Pages()

	// 31 rows at 15 per page is 3 pages.
	assert.Equal(t, 3, strings.Count(pages, "Page "))
	assert.Contains(t, pages, "Page 1 of 3")
	assert.Contains(t, pages, "Page 3 of 3 - 1 transaction(s) on this page")
	assert.Contains(t, pages, "Inventory Transactions Report")
	assert.Contains(t, pages, "| Bolt")
}

func TestExportPagesEmptyWeek(t *testing.T) {
	doc := BuildExport(nil, weekStart)
	pages := doc.Pages()
	assert.Contains(t, pages, "Page 1 of 1")
}
