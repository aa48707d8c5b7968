package backend

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/kv"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the opened store, an optional alert publisher and a
// cleanup function releasing both.
type Result struct {
	Store   kv.Store
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates storage backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// AMQP (optional, independent of the store type)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Type represents the type of storage backend
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
