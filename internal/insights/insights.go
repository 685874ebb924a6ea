// Package insights generates an optional natural-language narrative for
// a weekly report. The narrative is decorative: it is never stored and
// never feeds back into inventory state.
package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/report"
)

// SummaryPrompt is the shared instruction prepended by all adapters.
const SummaryPrompt = `You are summarizing one week of inventory stock movements for a small
business owner. Write 3-5 plain sentences: overall activity, the most
moved items, and anything unusual (heavy outflow, no restocks). Do not
invent numbers that are not in the data.`

type Summarizer interface {
	Summarize(ctx context.Context, summary report.WeeklySummary, rows []report.ExportRow) (string, error)
}

// BuildDigest renders the report data into the plain-text digest the
// adapters send to their model.
func BuildDigest(summary report.WeeklySummary, rows []report.ExportRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week %s to %s\n", summary.WeekStart.Format("2006-01-02"), summary.WeekEnd.Format("2006-01-02"))
	fmt.Fprintf(&b, "Transactions: %d, units added: %d, units taken: %d\n", summary.TotalTransactions, summary.TotalAdded, summary.TotalTaken)

	for _, top := range summary.TopItems {
		fmt.Fprintf(&b, "Top mover: %s, %d units (%s)\n", top.ItemName, top.TotalQuantity, top.Kind)
	}

	b.WriteString("Movements:\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s%d %s (%s)\n", row.Date, row.Operation, row.Quantity, row.ItemName, row.Category)
	}
	return b.String()
}
