package backend

import (
	"context"

	"shiftpay/internal/amqp"
	"shiftpay/internal/services"
	"shiftpay/internal/storage"
)

// CleanupFunc releases what a backend opened.
type CleanupFunc func() error

// BackendResult is a ready ledger service over the selected store.
type BackendResult struct {
	Service *services.LedgerService
	Store   storage.Store
	// AMQP is nil when publishing is disabled or the broker was unreachable.
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	DataFile     string
	SQLiteDBPath string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	JSONBackend   BackendType = "json"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
