package storage

import (
	"context"

	"shiftpay/internal/ledger"
)

// Store persists a ledger snapshot. Load on a store that has never been saved
// returns an empty snapshot and no error.
type Store interface {
	Load(ctx context.Context) (ledger.Snapshot, error)
	Save(ctx context.Context, s ledger.Snapshot) error
	Close() error
}
