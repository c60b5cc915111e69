// Package main запускает HTTP-сервер сервиса ланчонете.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/lanchonete/internal/auth"
	"github.com/mmeshcher/lanchonete/internal/catalog"
	"github.com/mmeshcher/lanchonete/internal/config"
	"github.com/mmeshcher/lanchonete/internal/handler"
	"github.com/mmeshcher/lanchonete/internal/ledger"
	"github.com/mmeshcher/lanchonete/internal/middleware"
	"github.com/mmeshcher/lanchonete/internal/repository"
	"github.com/mmeshcher/lanchonete/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	menu := catalog.Default()
	if cfg.CatalogPath != "" {
		menu, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			sugar.Fatalw("catalog loading error", "error", err.Error())
		}
	}

	provider, closer, err := newAuthProvider(cfg, logger)
	if err != nil {
		sugar.Fatalw("auth provider initialization error", "error", err.Error())
	}

	svc := service.NewService(provider, menu, ledger.New(), closer)
	defer svc.Close()

	if cfg.AuthSecret == "" {
		sugar.Warn("AUTH_SECRET is empty, auth cookies will not survive a restart")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret, cfg.SessionTTL)
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting lanchonete server", "addr", cfg.RunAddress, "products", len(menu.All()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

// newAuthProvider выбирает внешний сервис аутентификации или локальные учётные записи
// в PostgreSQL либо в памяти.
func newAuthProvider(cfg *config.Config, logger *zap.Logger) (auth.Provider, io.Closer, error) {
	if cfg.AuthProviderAddress != "" {
		return auth.NewRemoteProvider(cfg.AuthProviderAddress, cfg.AuthProviderKey, logger), nil, nil
	}

	if cfg.DatabaseURI == "" {
		logger.Warn("DATABASE_URI is empty, accounts are kept in memory")
		repo := repository.NewMemoryRepository()
		return auth.NewLocalProvider(repo), repo, nil
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		return nil, nil, fmt.Errorf("database initialization: %w", err)
	}
	return auth.NewLocalProvider(repo), repo, nil
}
