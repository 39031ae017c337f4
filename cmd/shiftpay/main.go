package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"shiftpay/internal/backend"
	"shiftpay/internal/cli"
	"shiftpay/internal/config"
	"shiftpay/internal/core"
	applog "shiftpay/internal/log"
	"shiftpay/internal/services"
)

// App carries what every subcommand needs once start-up has run.
type App struct {
	cfg     *config.Config
	logger  *applog.Logger
	backend *backend.BackendResult
	now     func() time.Time
}

func (a *App) service() *services.LedgerService {
	return a.backend.Service
}

// open loads configuration and the selected store.
func (a *App) open(ctx context.Context) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(os.Stderr, cfg.LogLevel)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(a.logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	a.backend = res
	return nil
}

func (a *App) close() {
	if a.backend == nil || a.backend.Cleanup == nil {
		return
	}
	if err := a.backend.Cleanup(); err != nil {
		a.logger.Error("Cleanup failed", applog.FieldError, err)
	}
}

func (a *App) today() core.Date {
	return core.DateOf(a.now())
}

func main() {
	a := &App{now: time.Now}
	root := SetupCommands(a)

	err := root.ExecuteContext(context.Background())
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
