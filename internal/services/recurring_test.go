package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/kv"
	"fintrack/internal/ledger"
)

func newRecurringFixture(t *testing.T) (*RecurringService, *ledger.Ledger, kv.Store) {
	t.Helper()
	ctx := context.Background()
	store := kv.NewMemoryStore()
	l, err := ledger.New(ctx, store)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	return NewRecurringService(store, l), l, store
}

func addTemplate(t *testing.T, l *ledger.Ledger, date core.Date) {
	t.Helper()
	_, err := l.Add(context.Background(), core.Transaction{
		Type:      core.Expense,
		Amount:    core.Money{Cents: 90000},
		Category:  "housing",
		Date:      date,
		Recurring: true,
	})
	if err != nil {
		t.Fatalf("add template: %v", err)
	}
}

func TestRecurringGateWithinOneDay(t *testing.T) {
	ctx := context.Background()
	svc, l, _ := newRecurringFixture(t)
	addTemplate(t, l, core.NewDate(2025, 4, 10))

	morning := time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 5, 15, 20, 0, 0, 0, time.UTC)

	n, err := svc.Run(ctx, morning)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if n != 1 {
		t.Fatalf("first run processed %d, want 1", n)
	}

	// Same calendar day: gated, nothing added.
	n, err = svc.Run(ctx, evening)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n != 0 {
		t.Errorf("second run processed %d, want 0", n)
	}
	if got := len(l.Transactions()); got != 2 {
		t.Errorf("transactions = %d, want 2 (template + one clone)", got)
	}
}

func TestRecurringRunsAgainNextDay(t *testing.T) {
	ctx := context.Background()
	svc, l, _ := newRecurringFixture(t)
	addTemplate(t, l, core.NewDate(2025, 4, 10))

	svc.Run(ctx, time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC))

	// The next day the gate opens, but the clone's chain is not due for
	// another month, so nothing new is added.
	n, err := svc.Run(ctx, time.Date(2025, 5, 16, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("next-day run: %v", err)
	}
	if n != 0 {
		t.Errorf("next-day run processed %d, want 0", n)
	}

	// A month later the chain fires again.
	n, err = svc.Run(ctx, time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("next-month run: %v", err)
	}
	if n != 1 {
		t.Errorf("next-month run processed %d, want 1", n)
	}
}

func TestRecurringMarkerSetEvenWhenNothingDue(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newRecurringFixture(t)

	now := time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC)
	if _, err := svc.Run(ctx, now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, found, _ := store.Get(ctx, kv.KeyLastRecurringCheck); !found {
		t.Error("marker must be set even when nothing was due")
	}
}

func TestRecurringUnreadableMarkerDoesNotWedge(t *testing.T) {
	ctx := context.Background()
	svc, l, store := newRecurringFixture(t)
	addTemplate(t, l, core.NewDate(2025, 4, 10))

	store.Set(ctx, kv.KeyLastRecurringCheck, []byte("not-a-number"))

	n, err := svc.Run(ctx, time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Errorf("processed %d, want 1 despite garbage marker", n)
	}
}
