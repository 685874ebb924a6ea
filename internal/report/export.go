package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/domain"
)

// ExportPageSize is the fixed number of rows per page of the tabular
// export.
const ExportPageSize = 15

const exportDateLayout = "2006-01-02"

// ExportRow is one transaction in an export artifact. Snapshot fields
// missing on the record fall back to "N/A" (SKU, category) or 0 (price).
type ExportRow struct {
	ItemName  string  `json:"itemName"`
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Operation string  `json:"operation"`
	Quantity  int     `json:"quantity"`
	Date      string  `json:"date"`
}

// ExportDocument is the flat JSON export of one week of transactions.
// It is a derived view, never the system of record.
type ExportDocument struct {
	WeekStart    string      `json:"weekStart"`
	WeekEnd      string      `json:"weekEnd"`
	Transactions []ExportRow `json:"transactions"`
}

// BuildExport assembles the export document for one week. txs must be the
// output of SelectWeek for the same weekStart.
func BuildExport(txs []*domain.Transaction, weekStart time.Time) ExportDocument {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
	end := start.AddDate(0, 0, 6)

	doc := ExportDocument{
		WeekStart:    start.Format(exportDateLayout),
		WeekEnd:      end.Format(exportDateLayout),
		Transactions: make([]ExportRow, 0, len(txs)),
	}

	for _, tx := range txs {
		row := ExportRow{
			ItemName:  tx.ItemName,
			SKU:       tx.ItemSKU,
			Category:  tx.ItemCategory,
			Price:     tx.ItemPrice,
			Operation: "+",
			Quantity:  tx.Quantity,
			Date:      tx.Date.Format(exportDateLayout),
		}
		if tx.Kind == domain.MovementTake {
			row.Operation = "-"
		}
		if row.SKU == "" {
			row.SKU = "N/A"
		}
		if row.Category == "" {
			row.Category = "N/A"
		}
		doc.Transactions = append(doc.Transactions, row)
	}

	return doc
}

// JSON renders the document as indented JSON.
func (d ExportDocument) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return out, nil
}

// Pages renders the document as a paginated tabular report, one markdown
// table per page, ExportPageSize rows each.
func (d ExportDocument) Pages() string {
	totalPages := (len(d.Transactions) + ExportPageSize - 1) / ExportPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	var buf bytes.Buffer
	for page := 0; page < totalPages; page++ {
		start := page * ExportPageSize
		end := start + ExportPageSize
		if end > len(d.Transactions) {
			end = len(d.Transactions)
		}
		rows := d.Transactions[start:end]

		doc := md.NewMarkdown(&buf)
		doc.H1("Inventory Transactions Report")
		doc.H2(fmt.Sprintf("Week of %s - %s", d.WeekStart, d.WeekEnd))
		doc.PlainText(fmt.Sprintf("Page %d of %d - %d transaction(s) on this page", page+1, totalPages, len(rows)))

		table := md.TableSet{
			Header: []string{"Item Name", "SKU", "Category", "Price", "Operation", "Quantity", "Total Price", "Date"},
		}
		for _, row := range rows {
			table.Rows = append(table.Rows, []string{
				row.ItemName,
				row.SKU,
				row.Category,
				fmt.Sprintf("%.2f", row.Price),
				row.Operation,
				fmt.Sprintf("%d", row.Quantity),
				fmt.Sprintf("%.2f", row.Price*float64(row.Quantity)),
				row.Date,
			})
		}
		doc.Table(table)
		buf.WriteString(doc.String())
		buf.WriteString("\n")
	}

	return buf.String()
}
