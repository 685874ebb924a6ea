package report

import (
	"github.com/shopspring/decimal"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

// LowStockThreshold is the fixed quantity below which an item counts as
// low stock on the dashboard.
const LowStockThreshold = 10

// DashboardStats is a pure aggregate over a loaded item list. Nothing is
// persisted; callers recompute whenever the list changes.
type DashboardStats struct {
	TotalItems    int             `json:"totalItems"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	LowStockItems int             `json:"lowStockItems"`
	Categories    int             `json:"categories"`
}

// Dashboard computes the stats for items. Total value is summed with
// decimal arithmetic, so the result is exact and independent of item
// order.
func Dashboard(items []*domain.Item) DashboardStats {
	total := decimal.Zero
	categories := make(map[string]struct{})
	lowStock := 0

	for _, item := range items {
		value := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(value)

		if item.Quantity < LowStockThreshold {
			lowStock++
		}
		categories[item.Category] = struct{}{}
	}

	return DashboardStats{
		TotalItems:    len(items),
		TotalValue:    total,
		LowStockItems: lowStock,
		Categories:    len(categories),
	}
}

// CategoryTotal is one slice of the category quantity breakdown.
type CategoryTotal struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// CategoryBreakdown sums quantities per category, in first-seen order.
func CategoryBreakdown(items []*domain.Item) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(out)
			index[item.Category] = i
			out = append(out, CategoryTotal{Category: item.Category})
		}
		out[i].Quantity += item.Quantity
	}

	return out
}
