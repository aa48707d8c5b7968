// Package transfer implements the portability surface: JSON and CSV
// export, and validate-then-apply import in merge and replace modes.
package transfer

import (
	"encoding/json"
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// Payload is the JSON export/import shape.
type Payload struct {
	Transactions []core.Transaction    `json:"transactions"`
	Budgets      map[string]core.Money `json:"budgets"`
}

// ExportJSON renders the payload pretty-printed.
func ExportJSON(txs []core.Transaction, budgets map[string]core.Money) ([]byte, error) {
	payload := Payload{Transactions: txs, Budgets: budgets}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return raw, nil
}

// CSVHeader is the fixed export column order.
var CSVHeader = []string{"Date", "Type", "Category", "Amount", "Description", "Recurring"}

// ExportCSV renders one row per transaction with every field
// double-quote-wrapped and the recurring flag as Yes/No.
func ExportCSV(txs []core.Transaction) []byte {
	var b strings.Builder
	writeCSVRow(&b, CSVHeader)
	for _, tx := range txs {
		recurring := "No"
		if tx.Recurring {
			recurring = "Yes"
		}
		writeCSVRow(&b, []string{
			tx.Date.ISO(),
			string(tx.Type),
			tx.Category,
			tx.Amount.String(),
			tx.Description,
			recurring,
		})
	}
	return []byte(b.String())
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
