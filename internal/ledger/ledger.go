// Package ledger owns the authoritative transaction set, its linear
// undo/redo history and the pure aggregations derived from it.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// Ledger is the single source of truth for transactions. Every public
// method serializes through one mutex: the model is a single logical
// writer, and persistence is awaited before the call returns.
type Ledger struct {
	mu      sync.Mutex
	store   kv.Store
	txs     []core.Transaction
	history []changeSet
	cursor  int
	lastID  int64
}

// New loads the ledger from the store. A missing or empty transactions
// key yields an empty ledger, not an error.
func New(ctx context.Context, store kv.Store) (*Ledger, error) {
	l := &Ledger{store: store}

	raw, found, err := store.Get(ctx, kv.KeyTransactions)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if found && len(raw) > 0 {
		if err := json.Unmarshal(raw, &l.txs); err != nil {
			return nil, fmt.Errorf("decode transactions: %w", err)
		}
	}
	for _, tx := range l.txs {
		if tx.ID > l.lastID {
			l.lastID = tx.ID
		}
	}

	slog.InfoContext(ctx, "Ledger loaded", "transactions", len(l.txs))
	return l, nil
}

// nextID issues a unique transaction id: unix milliseconds, bumped past
// the last issued id when two transactions land on the same instant.
func (l *Ledger) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// Add appends a transaction, persists the set and records one history
// entry. The ledger is a pure append: shape and business validation is
// the caller's concern. A zero ID is assigned a fresh unique one.
func (l *Ledger) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tx.ID == 0 {
		tx.ID = l.nextID(time.Now())
	} else if tx.ID > l.lastID {
		l.lastID = tx.ID
	}

	l.txs = append(l.txs, tx)
	l.record(changeSet{added: []core.Transaction{tx}})

	if err := l.persist(ctx); err != nil {
		return tx, err
	}
	return tx, nil
}

// Delete removes every transaction with the given id (expected at most
// one). A missing id is a silent no-op recording no history.
func (l *Ledger) Delete(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var removed []core.Transaction
	kept := l.txs[:0]
	for _, tx := range l.txs {
		if tx.ID == id {
			removed = append(removed, tx)
			continue
		}
		kept = append(kept, tx)
	}
	l.txs = kept

	if len(removed) == 0 {
		return nil
	}

	l.record(changeSet{removed: removed})
	return l.persist(ctx)
}

// Contains reports whether a transaction with the id is live.
func (l *Ledger) Contains(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, tx := range l.txs {
		if tx.ID == id {
			return true
		}
	}
	return false
}

// Transactions returns a defensive copy of the live set.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyTxs()
}

func (l *Ledger) copyTxs() []core.Transaction {
	out := make([]core.Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// Stats recomputes income, expense and balance over the live set on
// every call; there is no memoization to go stale.
func (l *Ledger) Stats() core.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	var stats core.Stats
	for _, tx := range l.txs {
		switch tx.Type {
		case core.Income:
			stats.Income = stats.Income.Add(tx.Amount)
		case core.Expense:
			stats.Expense = stats.Expense.Add(tx.Amount)
		}
	}
	stats.Balance = stats.Income.Sub(stats.Expense)
	return stats
}

// SpendingByCategory sums expense amounts per normalized category.
// Categories with no spend are absent, not zero-valued.
func (l *Ledger) SpendingByCategory() map[string]core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()

	spend := make(map[string]core.Money)
	for _, tx := range l.txs {
		if tx.Type != core.Expense {
			continue
		}
		key := core.NormalizeCategory(tx.Category)
		spend[key] = spend[key].Add(tx.Amount)
	}
	return spend
}

// SpendingTrend returns exactly 7 points, one per calendar day from six
// days ago through today, oldest first. A transaction counts for a day
// only when its date field equals that day; days without expenses carry
// a zero amount.
func (l *Ledger) SpendingTrend(now time.Time) []core.TrendPoint {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := core.DateOf(now)
	points := make([]core.TrendPoint, 7)
	for i := range points {
		day := today.AddDays(i - 6)
		point := core.TrendPoint{Date: day}
		for _, tx := range l.txs {
			if tx.Type == core.Expense && tx.Date.Equal(day) {
				point.Amount = point.Amount.Add(tx.Amount)
			}
		}
		points[i] = point
	}
	return points
}

// ProcessRecurring materializes recurring templates whose next monthly
// occurrence is due. It iterates a snapshot taken before any additions,
// so clones created here are never reconsidered within the same call,
// and groups recurring transactions into chains (same type, category,
// amount, description) so only the latest link of a chain can fire.
// All clones land in a single coalesced history entry.
//
// Callers gate invocations to at most once per calendar day; see
// services.RecurringService.
func (l *Ledger) ProcessRecurring(ctx context.Context, now time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := core.DateOf(now)

	// Latest link per chain, over a fixed pre-call snapshot.
	latest := make(map[string]core.Transaction)
	for _, tx := range l.txs {
		if !tx.Recurring {
			continue
		}
		key := chainKey(tx)
		if cur, ok := latest[key]; !ok || tx.Date.After(cur.Date.Time) {
			latest[key] = tx
		}
	}

	var clones []core.Transaction
	for _, tx := range latest {
		next := tx.Date.AddMonths(1)
		if next.After(today.Time) {
			continue
		}
		clone := tx
		clone.ID = l.nextID(time.Now())
		clone.Date = today
		clones = append(clones, clone)

		slog.InfoContext(ctx, "Materialized recurring transaction",
			"template_id", tx.ID,
			"clone_id", clone.ID,
			"category", clone.Category,
			"amount", clone.Amount.String())
	}

	if len(clones) == 0 {
		return 0, nil
	}

	l.txs = append(l.txs, clones...)
	l.record(changeSet{added: clones})

	if err := l.persist(ctx); err != nil {
		return len(clones), err
	}
	return len(clones), nil
}

func chainKey(tx core.Transaction) string {
	return string(tx.Type) + "|" + core.NormalizeCategory(tx.Category) + "|" +
		tx.Amount.String() + "|" + tx.Description
}

// ImportMerge appends a batch of transactions as one mutation: a single
// persist and a single history entry. Transactions without an id get a
// fresh unique one.
func (l *Ledger) ImportMerge(ctx context.Context, txs []core.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(txs) == 0 {
		return nil
	}

	added := make([]core.Transaction, len(txs))
	for i, tx := range txs {
		if tx.ID == 0 {
			tx.ID = l.nextID(time.Now())
		} else if tx.ID > l.lastID {
			l.lastID = tx.ID
		}
		added[i] = tx
	}

	l.txs = append(l.txs, added...)
	l.record(changeSet{added: added})
	return l.persist(ctx)
}

// ReplaceAll swaps the entire live set for the given batch as one
// mutation, used by replace-mode import.
func (l *Ledger) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := l.copyTxs()
	added := make([]core.Transaction, len(txs))
	for i, tx := range txs {
		if tx.ID == 0 {
			tx.ID = l.nextID(time.Now())
		} else if tx.ID > l.lastID {
			l.lastID = tx.ID
		}
		added[i] = tx
	}

	l.txs = added
	l.record(changeSet{added: added, removed: removed})
	return l.persist(ctx)
}

// persist writes the full live set under the transactions key. On write
// failure the in-memory state keeps the mutation; durability is best
// effort and the divergence heals on the next successful write.
func (l *Ledger) persist(ctx context.Context) error {
	raw, err := json.Marshal(l.txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := l.store.Set(ctx, kv.KeyTransactions, raw); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}
