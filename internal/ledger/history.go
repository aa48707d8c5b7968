package ledger

import (
	"context"

	"fintrack/internal/core"
)

// The history log stores structural diffs between consecutive ledger
// states instead of full snapshots: cheaper per mutation, identical
// undo/redo semantics. A window of 20 states means at most 19
// transitions are retained.
const historyStates = 20

// changeSet is one transition: transactions added to and removed from
// the live set by a single mutation (a batch mutation such as recurring
// materialization or import coalesces into one entry).
type changeSet struct {
	added   []core.Transaction
	removed []core.Transaction
}

// record appends a transition at the cursor, discarding any future
// transitions (linear history) and evicting the oldest once the window
// is full.
func (l *Ledger) record(entry changeSet) {
	// Entries must not alias the live slice's backing array.
	entry.added = append([]core.Transaction(nil), entry.added...)
	entry.removed = append([]core.Transaction(nil), entry.removed...)

	l.history = append(l.history[:l.cursor], entry)
	l.cursor = len(l.history)

	if len(l.history) > historyStates-1 {
		l.history = l.history[1:]
		l.cursor--
	}
}

// CanUndo reports whether an earlier state is reachable.
func (l *Ledger) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor > 0
}

// CanRedo reports whether an undone state is reachable.
func (l *Ledger) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor < len(l.history)
}

// Undo reverts the most recent transition and persists the restored
// set. It returns false, without error, when there is nothing to undo.
func (l *Ledger) Undo(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cursor == 0 {
		return false, nil
	}
	l.cursor--
	entry := l.history[l.cursor]

	// Revert: drop what the transition added, restore what it removed.
	if len(entry.added) > 0 {
		dropped := make(map[int64]bool, len(entry.added))
		for _, tx := range entry.added {
			dropped[tx.ID] = true
		}
		kept := l.txs[:0]
		for _, tx := range l.txs {
			if !dropped[tx.ID] {
				kept = append(kept, tx)
			}
		}
		l.txs = kept
	}
	l.txs = append(l.txs, entry.removed...)

	return true, l.persist(ctx)
}

// Redo re-applies the next undone transition and persists the restored
// set. It returns false, without error, when there is nothing to redo.
func (l *Ledger) Redo(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cursor >= len(l.history) {
		return false, nil
	}
	entry := l.history[l.cursor]
	l.cursor++

	if len(entry.removed) > 0 {
		dropped := make(map[int64]bool, len(entry.removed))
		for _, tx := range entry.removed {
			dropped[tx.ID] = true
		}
		kept := l.txs[:0]
		for _, tx := range l.txs {
			if !dropped[tx.ID] {
				kept = append(kept, tx)
			}
		}
		l.txs = kept
	}
	l.txs = append(l.txs, entry.added...)

	return true, l.persist(ctx)
}
