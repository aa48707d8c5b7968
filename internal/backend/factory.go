package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/kv"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var result *Result
	var err error

	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		result, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	// AMQP is optional regardless of the store backing the ledger. A
	// broker that is down must not keep the tracker from starting.
	if config.AMQPURL != "" {
		client, amqpErr := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if amqpErr != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without alert publishing", "error", amqpErr)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.AMQP = client
			inner := result.Cleanup
			result.Cleanup = func() error {
				client.Close()
				if inner != nil {
					return inner()
				}
				return nil
			}
		}
	}

	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	store, err := kv.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(_ Config) (*Result, error) {
	f.logger.Info("Initialized memory backend")

	return &Result{
		Store:   kv.NewMemoryStore(),
		Cleanup: nil,
	}, nil
}
