package report

import (
	"sort"
	"time"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

// SelectWeek filters txs to the week starting at weekStart (taken at
// midnight in weekStart's location) and returns them newest first. Both
// boundary days are inclusive: the window is [weekStart 00:00:00,
// weekStart+6d 23:59:59].
func SelectWeek(txs []*domain.Transaction, weekStart time.Time) []*domain.Transaction {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
	end := start.AddDate(0, 0, 7)

	var out []*domain.Transaction
	for _, tx := range txs {
		if !tx.Date.Before(start) && tx.Date.Before(end) {
			out = append(out, tx)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// TopItem is one entry of the weekly movers list.
type TopItem struct {
	ItemName      string              `json:"itemName"`
	TotalQuantity int                 `json:"totalQuantity"`
	Kind          domain.MovementKind `json:"type"`
}

// WeeklySummary aggregates one week of transactions.
type WeeklySummary struct {
	WeekStart         time.Time `json:"weekStart"`
	WeekEnd           time.Time `json:"weekEnd"`
	TotalTransactions int       `json:"totalTransactions"`
	TotalAdded        int       `json:"totalAdded"`
	TotalTaken        int       `json:"totalTaken"`
	TopItems          []TopItem `json:"topItems"`
}

// Summarize computes the weekly summary over txs, which must already be
// the output of SelectWeek for the same weekStart.
func Summarize(txs []*domain.Transaction, weekStart time.Time) WeeklySummary {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

	summary := WeeklySummary{
		WeekStart:         start,
		WeekEnd:           start.AddDate(0, 0, 7).Add(-time.Second),
		TotalTransactions: len(txs),
	}

	type key struct {
		name string
		kind domain.MovementKind
	}
	totals := make(map[key]int)
	var order []key

	for _, tx := range txs {
		switch tx.Kind {
		case domain.MovementAdd:
			summary.TotalAdded += tx.Quantity
		case domain.MovementTake:
			summary.TotalTaken += tx.Quantity
		}

		k := key{name: tx.ItemName, kind: tx.Kind}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += tx.Quantity
	}

	for _, k := range order {
		summary.TopItems = append(summary.TopItems, TopItem{
			ItemName:      k.name,
			TotalQuantity: totals[k],
			Kind:          k.kind,
		})
	}
	sort.SliceStable(summary.TopItems, func(i, j int) bool {
		return summary.TopItems[i].TotalQuantity > summary.TopItems[j].TotalQuantity
	})
	if len(summary.TopItems) > 5 {
		summary.TopItems = summary.TopItems[:5]
	}

	return summary
}
