// Package services orchestrates the ledger, budget registry and the
// pure analysis functions behind the operations the UI layer calls.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/analysis"
	"fintrack/internal/budget"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var (
	ErrInsufficientBalance  = errors.New("insufficient balance for expense")
	ErrTransactionNotFound  = errors.New("transaction not found")
)

// AlertPublisher fans evaluated budget alerts out to a broker. The
// tracker works without one.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// Tracker owns the mutation surface. Form-layer validation (shape,
// vocabulary, future dates, balance sufficiency) happens here, before
// the ledger's pure append ever sees the record.
type Tracker struct {
	ledger    *ledger.Ledger
	budgets   *budget.Registry
	publisher AlertPublisher
}

func NewTracker(l *ledger.Ledger, r *budget.Registry, publisher AlertPublisher) *Tracker {
	return &Tracker{ledger: l, budgets: r, publisher: publisher}
}

// Dashboard is everything the presentation layer renders from one
// snapshot: aggregates, trend, budget report and health score.
type Dashboard struct {
	Stats    core.Stats
	Spending map[string]core.Money
	Trend    []core.TrendPoint
	Report   analysis.Report
	Health   analysis.Score
}

// AddTransaction validates and appends a transaction. The category is
// normalized before it reaches the ledger so all consumers agree on
// identity.
func (t *Tracker) AddTransaction(ctx context.Context, tx core.Transaction, now time.Time) (core.Transaction, error) {
	tx.Category = core.NormalizeCategory(tx.Category)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if tx.Date.After(core.DateOf(now).Time) {
		return core.Transaction{}, core.ErrFutureDate
	}
	if tx.Type == core.Expense {
		if stats := t.ledger.Stats(); tx.Amount.Cents > stats.Balance.Cents {
			return core.Transaction{}, ErrInsufficientBalance
		}
	}

	added, err := t.ledger.Add(ctx, tx)
	if err != nil {
		return added, err
	}

	if added.Type == core.Expense {
		t.publishAlerts(ctx, added.Category)
	}
	return added, nil
}

// DeleteTransaction removes by id; a missing id is a silent no-op.
func (t *Tracker) DeleteTransaction(ctx context.Context, id int64) error {
	return t.ledger.Delete(ctx, id)
}

// EditTransaction replaces a transaction: delete by the old id, append
// the replacement with a fresh id. Editing a transaction that
// disappeared surfaces a not-found error before any mutation.
func (t *Tracker) EditTransaction(ctx context.Context, oldID int64, tx core.Transaction, now time.Time) (core.Transaction, error) {
	if !t.ledger.Contains(oldID) {
		return core.Transaction{}, ErrTransactionNotFound
	}

	tx.Category = core.NormalizeCategory(tx.Category)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if tx.Date.After(core.DateOf(now).Time) {
		return core.Transaction{}, core.ErrFutureDate
	}

	if err := t.ledger.Delete(ctx, oldID); err != nil {
		return core.Transaction{}, fmt.Errorf("remove old transaction: %w", err)
	}
	tx.ID = 0
	return t.ledger.Add(ctx, tx)
}

// SetBudget upserts a category limit and re-evaluates alerts for it.
func (t *Tracker) SetBudget(ctx context.Context, category string, limit core.Money) error {
	if err := t.budgets.Set(ctx, category, limit); err != nil {
		return err
	}
	t.publishAlerts(ctx, category)
	return nil
}

// Dashboard assembles the full read-side view from the current
// snapshots. The ledger balance doubles as the savings balance the
// health scorer consumes.
func (t *Tracker) Dashboard(now time.Time) Dashboard {
	stats := t.ledger.Stats()
	spending := t.ledger.SpendingByCategory()
	budgets := t.budgets.All()

	return Dashboard{
		Stats:    stats,
		Spending: spending,
		Trend:    t.ledger.SpendingTrend(now),
		Report:   analysis.EvaluateBudgets(budgets, spending),
		Health: analysis.HealthScore(analysis.ScoreInput{
			Stats:          stats,
			Budgets:        budgets,
			Spending:       spending,
			Transactions:   t.ledger.Transactions(),
			SavingsBalance: stats.Balance,
			Now:            now,
		}),
	}
}

func (t *Tracker) Undo(ctx context.Context) (bool, error) { return t.ledger.Undo(ctx) }
func (t *Tracker) Redo(ctx context.Context) (bool, error) { return t.ledger.Redo(ctx) }
func (t *Tracker) CanUndo() bool                          { return t.ledger.CanUndo() }
func (t *Tracker) CanRedo() bool                          { return t.ledger.CanRedo() }

// publishAlerts evaluates the named category and publishes its alert,
// if any. Publish failures are logged, never surfaced: the mutation
// already succeeded locally.
func (t *Tracker) publishAlerts(ctx context.Context, category string) {
	if t.publisher == nil {
		return
	}
	category = core.NormalizeCategory(category)

	report := analysis.EvaluateBudgets(t.budgets.All(), t.ledger.SpendingByCategory())
	for _, alert := range report.Alerts {
		if core.NormalizeCategory(alert.Category) != category {
			continue
		}
		if err := t.publisher.PublishAlert(ctx, amqp.NewAlertMessage(alert)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget alert",
				"category", alert.Category,
				"severity", alert.Severity,
				"error", err)
		}
	}
}
