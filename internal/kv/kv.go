// Package kv provides the persistent key-value store: named JSON blobs
// under string keys, best-effort durability, no cross-key transactions.
package kv

import "context"

// Store is the persistence boundary of the tracker. Values are opaque
// JSON blobs; a missing key is reported via the bool, not an error.
type Store interface {
	// Get retrieves the value stored under key.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set upserts the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the key. Removing a missing key is a no-op.
	Remove(ctx context.Context, key string) error
}

// Well-known keys consumed by the core components.
const (
	KeyTransactions       = "transactions"
	KeyBudgets            = "budgets"
	KeyLastRecurringCheck = "lastRecurringCheck"
)
