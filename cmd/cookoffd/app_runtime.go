package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/grillwire/cookoff/internal/api"
	"github.com/grillwire/cookoff/internal/audit"
	"github.com/grillwire/cookoff/internal/auth"
	"github.com/grillwire/cookoff/internal/config"
	"github.com/grillwire/cookoff/internal/service"
	"github.com/grillwire/cookoff/internal/store"
)

const dbFileName = "cookoff.db"

type cookoffApp struct {
	envCfg     *config.EnvConfig
	store      *store.Store
	auditSvc   *audit.Service
	maintainer *store.Maintainer
	server     *api.Server
}

func run() error {
	envCfg, err := config.LoadEnvConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(envCfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := store.OpenDB(filepath.Join(envCfg.DataDir, dbFileName))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[store] close error: %v", err)
		}
	}()
	if err := store.MigrateDB(db); err != nil {
		return err
	}
	log.Printf("[store] database ready at %s", filepath.Join(envCfg.DataDir, dbFileName))

	app, err := newCookoffApp(envCfg, store.New(db))
	if err != nil {
		return err
	}

	serverErrCh := make(chan error, 1)
	go func() {
		log.Printf("[api] listening on %s:%d", envCfg.ListenAddress, envCfg.Port)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	runtimeErr := waitForShutdown(serverErrCh)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.shutdown(ctx)

	if runtimeErr != nil {
		return fmt.Errorf("server error: %w", runtimeErr)
	}
	return nil
}

func newCookoffApp(envCfg *config.EnvConfig, st *store.Store) (*cookoffApp, error) {
	auditSvc := audit.NewService(audit.ServiceConfig{
		Repo:          audit.NewRepo(st.DB()),
		QueueSize:     envCfg.AuditQueueSize,
		FlushBatch:    envCfg.AuditFlushBatchSize,
		FlushInterval: envCfg.AuditFlushInterval,
	})
	auditSvc.Start()

	tokens := auth.NewTokenIssuer(envCfg.JWTSecret, envCfg.UserTokenTTL, envCfg.SeatTokenTTL)
	throttle := auth.NewLoginThrottle(envCfg.LoginMaxFailures, envCfg.LoginFailureWindow)

	svc, err := service.New(service.Config{
		Store:          st,
		Audit:          auditSvc,
		Tokens:         tokens,
		Throttle:       throttle,
		BarcodeSecret:  envCfg.BarcodeSecret,
		BcryptCost:     envCfg.BcryptCost,
		EventCacheSize: envCfg.EventCacheSize,
		EventCacheTTL:  envCfg.EventCacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("wire services: %w", err)
	}

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := svc.BootstrapAdmin(bootCtx, envCfg.BootstrapAdminUsername, envCfg.BootstrapAdminPassword); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	maintainer, err := store.NewMaintainer(st, envCfg.MaintenanceSchedule)
	if err != nil {
		return nil, fmt.Errorf("maintenance scheduler: %w", err)
	}
	maintainer.Start()

	server := api.NewServer(
		envCfg.ListenAddress,
		envCfg.Port,
		svc,
		tokens,
		st.DB(),
		int64(envCfg.APIMaxBodyBytes),
	)

	return &cookoffApp{
		envCfg:     envCfg,
		store:      st,
		auditSvc:   auditSvc,
		maintainer: maintainer,
		server:     server,
	}, nil
}

func waitForShutdown(serverErrCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
		return nil
	case err := <-serverErrCh:
		return err
	}
}

// shutdown stops the HTTP server first so no new mutations arrive, then
// drains the audit queue and the maintenance scheduler.
func (a *cookoffApp) shutdown(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		log.Printf("[api] shutdown error: %v", err)
	}
	a.maintainer.Stop()
	a.auditSvc.Stop()
	log.Println("server stopped")
}
