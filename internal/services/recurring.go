package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fintrack/internal/kv"
	"fintrack/internal/ledger"
)

// RecurringService gates recurring materialization to at most once per
// calendar day via a last-processed marker in the key-value store. The
// ledger's own fixed-snapshot iteration guards within a call; the gate
// guards across calls.
type RecurringService struct {
	store  kv.Store
	ledger *ledger.Ledger
}

func NewRecurringService(store kv.Store, l *ledger.Ledger) *RecurringService {
	return &RecurringService{store: store, ledger: l}
}

// Run processes due recurring transactions unless they were already
// processed today. It returns the number of materialized clones; a
// gated (skipped) run returns zero.
func (s *RecurringService) Run(ctx context.Context, now time.Time) (int, error) {
	last, err := s.lastCheck(ctx)
	if err != nil {
		return 0, err
	}
	if !last.IsZero() && sameCalendarDay(last, now) {
		slog.DebugContext(ctx, "Recurring processing already ran today",
			"last_check", last.Format("2006-01-02"))
		return 0, nil
	}

	processed, err := s.ledger.ProcessRecurring(ctx, now)
	if err != nil {
		return processed, fmt.Errorf("process recurring: %w", err)
	}

	if err := s.markChecked(ctx, now); err != nil {
		// The clones are in; a stale marker only risks a redundant run
		// tomorrow, which the chain logic absorbs.
		slog.WarnContext(ctx, "Failed to persist recurring check marker", "error", err)
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"processed", processed,
		"date", now.Format("2006-01-02"))
	return processed, nil
}

func (s *RecurringService) lastCheck(ctx context.Context) (time.Time, error) {
	raw, found, err := s.store.Get(ctx, kv.KeyLastRecurringCheck)
	if err != nil {
		return time.Time{}, fmt.Errorf("load recurring check marker: %w", err)
	}
	if !found {
		return time.Time{}, nil
	}
	millis, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		// Unreadable marker: treat as never checked rather than wedge
		// recurring processing forever.
		slog.Warn("Discarding unreadable recurring check marker", "raw", string(raw))
		return time.Time{}, nil
	}
	return time.UnixMilli(millis).UTC(), nil
}

func (s *RecurringService) markChecked(ctx context.Context, now time.Time) error {
	value := strconv.FormatInt(now.UnixMilli(), 10)
	return s.store.Set(ctx, kv.KeyLastRecurringCheck, []byte(value))
}

func sameCalendarDay(a, b time.Time) bool {
	return a.UTC().Format("2006-01-02") == b.UTC().Format("2006-01-02")
}
