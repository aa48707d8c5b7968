package ledger

import (
	"context"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	if l.CanUndo() || l.CanRedo() {
		t.Fatal("fresh ledger must have empty history")
	}

	tx, err := l.Add(ctx, expense("food", 1000, core.NewDate(2025, 5, 1)))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !l.CanUndo() {
		t.Fatal("CanUndo must hold after a mutation")
	}
	if l.CanRedo() {
		t.Fatal("CanRedo must not hold at the history head")
	}

	ok, err := l.Undo(ctx)
	if !ok || err != nil {
		t.Fatalf("undo: ok=%v err=%v", ok, err)
	}
	if l.Contains(tx.ID) {
		t.Error("undone transaction still live")
	}
	if l.CanUndo() {
		t.Error("CanUndo must not hold at history start")
	}
	if !l.CanRedo() {
		t.Error("CanRedo must hold after undo")
	}

	ok, err = l.Redo(ctx)
	if !ok || err != nil {
		t.Fatalf("redo: ok=%v err=%v", ok, err)
	}
	if !l.Contains(tx.ID) {
		t.Error("redone transaction missing")
	}
	if !l.CanUndo() || l.CanRedo() {
		t.Error("cursor bounds wrong after redo")
	}
}

func TestUndoRedoPastBoundsAreNoOps(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	if ok, err := l.Undo(ctx); ok || err != nil {
		t.Errorf("undo on empty history: ok=%v err=%v", ok, err)
	}
	if ok, err := l.Redo(ctx); ok || err != nil {
		t.Errorf("redo on empty history: ok=%v err=%v", ok, err)
	}
}

func TestUndoDeleteRestoresTransaction(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	tx, _ := l.Add(ctx, expense("food", 1000, core.NewDate(2025, 5, 1)))
	if err := l.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if l.Contains(tx.ID) {
		t.Fatal("transaction still live after delete")
	}

	if ok, _ := l.Undo(ctx); !ok {
		t.Fatal("undo failed")
	}
	if !l.Contains(tx.ID) {
		t.Error("undo of delete must restore the transaction")
	}

	if ok, _ := l.Redo(ctx); !ok {
		t.Fatal("redo failed")
	}
	if l.Contains(tx.ID) {
		t.Error("redo of delete must remove the transaction again")
	}
}

func TestMutationDiscardsRedoFuture(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	date := core.NewDate(2025, 5, 1)

	l.Add(ctx, expense("food", 100, date))
	l.Add(ctx, expense("food", 200, date))
	l.Undo(ctx)
	if !l.CanRedo() {
		t.Fatal("redo should be available")
	}

	l.Add(ctx, expense("food", 300, date))
	if l.CanRedo() {
		t.Error("a new mutation must discard the redo future")
	}
}

func TestHistoryEviction(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)
	date := core.NewDate(2025, 5, 1)

	// Well past the history window.
	for i := 0; i < 30; i++ {
		if _, err := l.Add(ctx, expense("food", int64(i+1), date)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	undos := 0
	for l.CanUndo() {
		ok, err := l.Undo(ctx)
		if err != nil {
			t.Fatalf("undo %d: %v", undos, err)
		}
		if !ok {
			break
		}
		undos++
	}
	if undos != historyStates-1 {
		t.Errorf("undo depth = %d, want %d", undos, historyStates-1)
	}

	// The oldest states are gone: 30 adds minus 19 undos leaves 11 live.
	if got := len(l.Transactions()); got != 11 {
		t.Errorf("live transactions after full undo = %d, want 11", got)
	}
}

func TestUndoRedoAcrossReplaceAll(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	l, _ := New(ctx, store)

	l.Add(ctx, expense("food", 100, core.NewDate(2025, 5, 1)))
	replacement := []core.Transaction{
		income("salary", 5000, core.NewDate(2025, 5, 2)),
		expense("travel", 700, core.NewDate(2025, 5, 3)),
	}
	if err := l.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(l.Transactions()) != 2 {
		t.Fatalf("expected 2 after replace, got %d", len(l.Transactions()))
	}

	if ok, _ := l.Undo(ctx); !ok {
		t.Fatal("undo failed")
	}
	txs := l.Transactions()
	if len(txs) != 1 || txs[0].Category != "food" {
		t.Errorf("undo of replace must restore prior set, got %+v", txs)
	}

	if ok, _ := l.Redo(ctx); !ok {
		t.Fatal("redo failed")
	}
	if len(l.Transactions()) != 2 {
		t.Errorf("redo of replace must reinstate replacement, got %d", len(l.Transactions()))
	}
}
