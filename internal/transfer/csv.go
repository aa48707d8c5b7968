package transfer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"fintrack/internal/core"
)

// ParseCSV reads rows in the export column order back into
// transactions. Ids are left zero; merge-mode import assigns fresh
// ones. The header row is required.
func ParseCSV(data []byte) ([]core.Transaction, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = len(CSVHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv input")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, want := range CSVHeader {
		if header[i] != want {
			return nil, fmt.Errorf("unexpected csv header %q, want %q", header[i], want)
		}
	}

	var txs []core.Transaction
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		date, err := core.ParseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		typ := core.TransactionType(record[1])
		if !typ.Valid() {
			return nil, fmt.Errorf("csv line %d: %w", line, core.ErrInvalidType)
		}
		amount, err := core.ParseMoney(record[3])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		var recurring bool
		switch record[5] {
		case "Yes":
			recurring = true
		case "No":
			recurring = false
		default:
			return nil, fmt.Errorf("csv line %d: recurring must be Yes or No, got %q", line, record[5])
		}

		txs = append(txs, core.Transaction{
			Type:        typ,
			Category:    record[2],
			Amount:      amount,
			Date:        date,
			Description: record[4],
			Recurring:   recurring,
		})
	}
	return txs, nil
}
