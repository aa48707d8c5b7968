package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/budget"
	"fintrack/internal/core"
	"fintrack/internal/kv"
	"fintrack/internal/ledger"
)

type fakePublisher struct {
	published []*amqp.AlertMessage
}

func (p *fakePublisher) PublishAlert(_ context.Context, msg *amqp.AlertMessage) error {
	p.published = append(p.published, msg)
	return nil
}

func newTestTracker(t *testing.T) (*Tracker, *fakePublisher) {
	t.Helper()
	ctx := context.Background()
	store := kv.NewMemoryStore()
	l, err := ledger.New(ctx, store)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	r, err := budget.New(ctx, store)
	if err != nil {
		t.Fatalf("budgets: %v", err)
	}
	publisher := &fakePublisher{}
	return NewTracker(l, r, publisher), publisher
}

var testNow = time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

func addIncome(t *testing.T, tracker *Tracker, cents int64) {
	t.Helper()
	_, err := tracker.AddTransaction(context.Background(), core.Transaction{
		Type:     core.Income,
		Amount:   core.Money{Cents: cents},
		Category: "salary",
		Date:     core.NewDate(2025, 5, 1),
	}, testNow)
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t)
	addIncome(t, tracker, 100000)

	cases := []struct {
		name string
		tx   core.Transaction
		want error
	}{
		{
			"future date",
			core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 100}, Category: "food", Date: core.NewDate(2025, 5, 16)},
			core.ErrFutureDate,
		},
		{
			"insufficient balance",
			core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 100001}, Category: "food", Date: core.NewDate(2025, 5, 10)},
			ErrInsufficientBalance,
		},
		{
			"wrong vocabulary",
			core.Transaction{Type: core.Expense, Amount: core.Money{Cents: 100}, Category: "salary", Date: core.NewDate(2025, 5, 10)},
			core.ErrUnknownCategory,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tracker.AddTransaction(ctx, tc.tx, testNow); err != tc.want {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	// rejected inputs never reach the ledger
	if got := len(tracker.Dashboard(testNow).Spending); got != 0 {
		t.Errorf("rejected transactions leaked into spending: %d categories", got)
	}
}

func TestAddTransactionNormalizesCategory(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t)
	addIncome(t, tracker, 100000)

	added, err := tracker.AddTransaction(ctx, core.Transaction{
		Type:     core.Expense,
		Amount:   core.Money{Cents: 100},
		Category: "  Food ",
		Date:     core.NewDate(2025, 5, 10),
	}, testNow)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.Category != "food" {
		t.Errorf("category = %q, want food", added.Category)
	}
}

func TestAddExpensePublishesAlerts(t *testing.T) {
	ctx := context.Background()
	tracker, publisher := newTestTracker(t)
	addIncome(t, tracker, 100000)
	if err := tracker.SetBudget(ctx, "food", core.Money{Cents: 10000}); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("no spend yet, published %d", len(publisher.published))
	}

	tracker.AddTransaction(ctx, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 8500}, Category: "food", Date: core.NewDate(2025, 5, 10),
	}, testNow)
	if len(publisher.published) != 1 {
		t.Fatalf("published %d alerts, want 1", len(publisher.published))
	}
	if publisher.published[0].Severity != "warning" {
		t.Errorf("severity = %s", publisher.published[0].Severity)
	}

	tracker.AddTransaction(ctx, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 2000}, Category: "food", Date: core.NewDate(2025, 5, 10),
	}, testNow)
	if len(publisher.published) != 2 {
		t.Fatalf("published %d alerts, want 2", len(publisher.published))
	}
	if publisher.published[1].Severity != "danger" {
		t.Errorf("severity = %s", publisher.published[1].Severity)
	}
}

func TestEditTransaction(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t)
	addIncome(t, tracker, 100000)

	original, _ := tracker.AddTransaction(ctx, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 1000}, Category: "food", Date: core.NewDate(2025, 5, 10),
	}, testNow)

	edited, err := tracker.EditTransaction(ctx, original.ID, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 2000}, Category: "transport", Date: core.NewDate(2025, 5, 11),
	}, testNow)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.ID == original.ID {
		t.Error("edit must issue a fresh id")
	}

	dash := tracker.Dashboard(testNow)
	if dash.Spending["food"].Cents != 0 || dash.Spending["transport"].Cents != 2000 {
		t.Errorf("spending after edit = %v", dash.Spending)
	}

	if _, err := tracker.EditTransaction(ctx, 999999, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 1}, Category: "food", Date: core.NewDate(2025, 5, 10),
	}, testNow); err != ErrTransactionNotFound {
		t.Errorf("editing a missing transaction: err = %v", err)
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t)
	addIncome(t, tracker, 100000)
	tracker.SetBudget(ctx, "food", core.Money{Cents: 10000})
	tracker.AddTransaction(ctx, core.Transaction{
		Type: core.Expense, Amount: core.Money{Cents: 4000}, Category: "food", Date: core.DateOf(testNow),
	}, testNow)

	dash := tracker.Dashboard(testNow)
	if dash.Stats.Balance.Cents != 96000 {
		t.Errorf("balance = %d", dash.Stats.Balance.Cents)
	}
	if len(dash.Trend) != 7 || dash.Trend[6].Amount.Cents != 4000 {
		t.Errorf("trend = %v", dash.Trend)
	}
	if len(dash.Report.Items) != 1 || dash.Report.Items[0].Status != "ok" {
		t.Errorf("report = %+v", dash.Report)
	}
	if dash.Health.Total == 0 || dash.Health.Grade == "" {
		t.Errorf("health = %+v", dash.Health)
	}
}

func TestTrackerUndoRedoPassthrough(t *testing.T) {
	ctx := context.Background()
	tracker, _ := newTestTracker(t)
	addIncome(t, tracker, 100000)

	if !tracker.CanUndo() {
		t.Fatal("CanUndo must hold after a mutation")
	}
	if ok, err := tracker.Undo(ctx); !ok || err != nil {
		t.Fatalf("undo: ok=%v err=%v", ok, err)
	}
	if tracker.Dashboard(testNow).Stats.Income.Cents != 0 {
		t.Error("undo did not revert the income")
	}
	if ok, err := tracker.Redo(ctx); !ok || err != nil {
		t.Fatalf("redo: ok=%v err=%v", ok, err)
	}
	if tracker.Dashboard(testNow).Stats.Income.Cents != 100000 {
		t.Error("redo did not restore the income")
	}
}
