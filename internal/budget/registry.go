// Package budget owns the per-category monthly spending limits. The
// registry and the ledger are siblings: they share only the normalized
// category string space, with no referential integrity between them.
package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// Registry is a flat category-to-limit map. Every mutation persists the
// whole map under one storage key; the single-writer assumption makes
// that race-free in practice.
type Registry struct {
	mu     sync.Mutex
	store  kv.Store
	limits map[string]core.Money
}

// New loads the registry from the store. A missing budgets key yields
// an empty registry.
func New(ctx context.Context, store kv.Store) (*Registry, error) {
	r := &Registry{
		store:  store,
		limits: make(map[string]core.Money),
	}

	raw, found, err := store.Get(ctx, kv.KeyBudgets)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	if found && len(raw) > 0 {
		if err := json.Unmarshal(raw, &r.limits); err != nil {
			return nil, fmt.Errorf("decode budgets: %w", err)
		}
	}

	slog.InfoContext(ctx, "Budget registry loaded", "categories", len(r.limits))
	return r, nil
}

// Set upserts the monthly limit for a category. The category is
// normalized so the registry never disagrees with the ledger on
// category identity.
func (r *Registry) Set(ctx context.Context, category string, limit core.Money) error {
	if err := limit.Validate(); err != nil {
		return core.ErrInvalidLimit
	}
	category = core.NormalizeCategory(category)
	if category == "" {
		return core.ErrEmptyCategory
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits[category] = limit
	return r.persist(ctx)
}

// Get returns the limit for a category, if one is set.
func (r *Registry) Get(category string) (core.Money, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	limit, ok := r.limits[core.NormalizeCategory(category)]
	return limit, ok
}

// All returns a defensive copy of the limit map.
func (r *Registry) All() map[string]core.Money {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]core.Money, len(r.limits))
	for category, limit := range r.limits {
		out[category] = limit
	}
	return out
}

// Delete removes a category's limit. Deleting an absent category is a
// no-op that still persists.
func (r *Registry) Delete(ctx context.Context, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.limits, core.NormalizeCategory(category))
	return r.persist(ctx)
}

// Clear drops all limits.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits = make(map[string]core.Money)
	return r.persist(ctx)
}

// Replace swaps the whole map, used by replace-mode import.
func (r *Registry) Replace(ctx context.Context, limits map[string]core.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits = make(map[string]core.Money, len(limits))
	for category, limit := range limits {
		r.limits[core.NormalizeCategory(category)] = limit
	}
	return r.persist(ctx)
}

// Merge upserts a batch of limits as one persisted mutation, used by
// merge-mode import.
func (r *Registry) Merge(ctx context.Context, limits map[string]core.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for category, limit := range limits {
		r.limits[core.NormalizeCategory(category)] = limit
	}
	return r.persist(ctx)
}

func (r *Registry) persist(ctx context.Context) error {
	raw, err := json.Marshal(r.limits)
	if err != nil {
		return fmt.Errorf("encode budgets: %w", err)
	}
	if err := r.store.Set(ctx, kv.KeyBudgets, raw); err != nil {
		return fmt.Errorf("persist budgets: %w", err)
	}
	return nil
}
