package backend

import (
	"context"
	"errors"
	"fmt"

	"shiftpay/internal/amqp"
	applog "shiftpay/internal/log"
	"shiftpay/internal/services"
	"shiftpay/internal/storage"
	"shiftpay/internal/storage/jsonfile"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend opens the store, connects AMQP when configured and loads the
// ledger. An unreachable broker disables publishing instead of failing.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.openStore(config)
	if err != nil {
		return nil, err
	}

	var (
		amqpClient *amqp.Client
		publisher  services.EventPublisher
	)
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
			amqpClient = nil
		} else {
			publisher = amqpClient
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svc := services.NewLedgerService(store, publisher, f.logger)
	svc.Open(ctx)

	f.logger.DebugContext(ctx, "Initialized backend",
		applog.FieldBackend, config.Type.String(),
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Service: svc,
		Store:   store,
		AMQP:    amqpClient,
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, svc.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) openStore(config Config) (storage.Store, error) {
	switch config.Type {
	case JSONBackend:
		return jsonfile.New(config.DataFile), nil
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
