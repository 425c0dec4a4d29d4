package main // Entry point package

import (
	"context"   // process lifetime and shutdown deadlines
	"errors"    // distinguishing a clean server stop
	"log/slog"  // structured logging
	"net/http"  // http.ErrServerClosed
	"os"        // exit codes and stdout
	"os/signal" // SIGINT/SIGTERM handling
	"syscall"   // SIGTERM
	"time"      // shutdown timeout

	"github.com/iqx/iqx-backend/internal/config"     // Internal config loader
	"github.com/iqx/iqx-backend/internal/database"   // GORM connection and migrations
	"github.com/iqx/iqx-backend/internal/notify"     // registration notifications
	"github.com/iqx/iqx-backend/internal/repository" // persistence
	"github.com/iqx/iqx-backend/internal/router"     // Internal router setup
	"github.com/iqx/iqx-backend/internal/service"    // use cases
	"github.com/iqx/iqx-backend/internal/utils"      // token codec
)

func main() {
	cfg := config.MustLoad()                    // Load environment config
	log := config.NewLogger(cfg.Env, os.Stdout) // Logger per environment

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB.Driver, cfg.DSN(), log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	codec, err := utils.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())
	if err != nil {
		return err
	}

	notifier, closeNotifier, err := notify.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeNotifier() }()
	dispatcher := notify.NewDispatcher(ctx, notifier, cfg.Notify.Driver, cfg.Notify.Timeout, log)

	auth := service.NewAuthService(repository.NewUserRepo(db), codec, dispatcher, cfg.BcryptCost, log)
	companies := service.NewCompanyService(repository.NewCompanyRepo(db))

	e := router.New(router.Deps{
		DB:          db,
		Auth:        auth,
		Companies:   companies,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	addr := ":" + cfg.Port // Address string with port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env), slog.String("notify", cfg.Notify.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", slog.Any("error", err))
	}
	// ctx is already cancelled here, so in-flight notifications are winding down.
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn("notifications still running at exit", slog.Any("error", err))
	}
	return nil
}
