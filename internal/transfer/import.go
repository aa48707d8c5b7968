package transfer

import (
	"context"
	"encoding/json"
	"fmt"

	"fintrack/internal/budget"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Mode selects how imported data combines with existing state.
type Mode string

const (
	// Merge appends imported transactions and upserts imported budgets
	// onto the existing state.
	Merge Mode = "merge"
	// Replace clears all existing state first.
	Replace Mode = "replace"
)

// ParseJSON decodes and fully validates an import payload. Any
// malformed record rejects the whole payload: validation happens before
// any state is touched, never partially.
func ParseJSON(data []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, fmt.Errorf("malformed import payload: %w", err)
	}

	for i, tx := range payload.Transactions {
		if !tx.Type.Valid() {
			return Payload{}, fmt.Errorf("transaction %d: %w", i, core.ErrInvalidType)
		}
		if tx.Amount.Cents <= 0 {
			return Payload{}, fmt.Errorf("transaction %d: %w", i, core.ErrInvalidAmount)
		}
		if core.NormalizeCategory(tx.Category) == "" {
			return Payload{}, fmt.Errorf("transaction %d: %w", i, core.ErrEmptyCategory)
		}
		if tx.Date.IsZero() {
			return Payload{}, fmt.Errorf("transaction %d: %w", i, core.ErrInvalidDate)
		}
	}
	for category, limit := range payload.Budgets {
		if core.NormalizeCategory(category) == "" {
			return Payload{}, fmt.Errorf("budget %q: %w", category, core.ErrEmptyCategory)
		}
		if limit.Cents <= 0 {
			return Payload{}, fmt.Errorf("budget %q: %w", category, core.ErrInvalidLimit)
		}
	}
	return payload, nil
}

// Apply commits a validated payload to the ledger and budget registry.
// Merge generates fresh ids for transactions lacking one; replace swaps
// the entire state. Each side lands as one coalesced mutation.
func Apply(ctx context.Context, mode Mode, payload Payload, l *ledger.Ledger, r *budget.Registry) error {
	switch mode {
	case Merge:
		if err := l.ImportMerge(ctx, payload.Transactions); err != nil {
			return fmt.Errorf("merge transactions: %w", err)
		}
		if err := r.Merge(ctx, payload.Budgets); err != nil {
			return fmt.Errorf("merge budgets: %w", err)
		}
	case Replace:
		if err := l.ReplaceAll(ctx, payload.Transactions); err != nil {
			return fmt.Errorf("replace transactions: %w", err)
		}
		if err := r.Replace(ctx, payload.Budgets); err != nil {
			return fmt.Errorf("replace budgets: %w", err)
		}
	default:
		return fmt.Errorf("unknown import mode: %s", mode)
	}
	return nil
}
