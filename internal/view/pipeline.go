// Package view is the pure filter, sort, paginate transform applied to
// a ledger snapshot for presentation. It never touches storage.
package view

import (
	"sort"
	"strings"

	"fintrack/internal/core"
)

type SortOrder string

const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortAmountDesc SortOrder = "amount-desc"
	SortAmountAsc  SortOrder = "amount-asc"
)

// PageSize is the fixed number of transactions per page.
const PageSize = 10

// Query describes one derived view of the ledger. Filters compose with
// AND; the zero Query selects everything, newest first, page 1.
type Query struct {
	Search   string               // substring of description or category, case-insensitive
	Type     core.TransactionType // exact match when set
	Category string               // exact match when set
	Sort     SortOrder
	Page     int // 1-based
}

// Page is one visible slice of the filtered, sorted snapshot.
type Page struct {
	Items      []core.Transaction
	Page       int
	TotalPages int
	Total      int // filtered count before pagination
}

// Apply runs the pipeline over a snapshot. Out-of-range pages yield an
// empty slice with the correct TotalPages.
func Apply(txs []core.Transaction, q Query) Page {
	filtered := filter(txs, q)
	sortTxs(filtered, q.Sort)
	return paginate(filtered, q.Page)
}

func filter(txs []core.Transaction, q Query) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		if q.Type != "" && tx.Type != q.Type {
			continue
		}
		if q.Category != "" && core.NormalizeCategory(tx.Category) != core.NormalizeCategory(q.Category) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func sortTxs(txs []core.Transaction, order SortOrder) {
	switch order {
	case SortDateAsc:
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Date.Before(txs[j].Date.Time)
		})
	case SortAmountDesc:
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Amount.Cents > txs[j].Amount.Cents
		})
	case SortAmountAsc:
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Amount.Cents < txs[j].Amount.Cents
		})
	default: // date descending
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[j].Date.Before(txs[i].Date.Time)
		})
	}
}

func paginate(txs []core.Transaction, page int) Page {
	if page < 1 {
		page = 1
	}
	total := len(txs)
	totalPages := (total + PageSize - 1) / PageSize

	start := (page - 1) * PageSize
	if start >= total {
		return Page{Items: []core.Transaction{}, Page: page, TotalPages: totalPages, Total: total}
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	return Page{Items: txs[start:end], Page: page, TotalPages: totalPages, Total: total}
}
