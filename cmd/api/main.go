package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pos-terminal/internal/auth"
	"pos-terminal/internal/backend"
	"pos-terminal/internal/catalog"
	"pos-terminal/internal/checkout"
	"pos-terminal/internal/config"
	"pos-terminal/internal/httpserver"
	"pos-terminal/internal/logging"
	"pos-terminal/internal/pricing"
	productrepo "pos-terminal/internal/repository/product"
	salerepo "pos-terminal/internal/repository/sale"
	tokenrepo "pos-terminal/internal/repository/token"
	userrepo "pos-terminal/internal/repository/user"
	accountsvc "pos-terminal/internal/service/account"
	checkoutsvc "pos-terminal/internal/service/checkout"
	inventorysvc "pos-terminal/internal/service/inventory"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("pos-terminal", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	tokens := auth.NewStore(tokenrepo.NewFile(cfg.TokenFile, logger), logger)
	client := backend.New(backend.Options{
		BaseURL:         cfg.BackendURL,
		Timeout:         cfg.BackendTimeout,
		Tokens:          tokens,
		Logger:          logger,
		BreakerFailures: cfg.BreakerFailures,
		BreakerOpen:     cfg.BreakerOpen,
	})

	productRepo := productrepo.NewHTTP(client, logger)
	saleRepo := salerepo.NewHTTP(client, logger)
	userRepo := userrepo.NewHTTP(client, logger)

	products := catalog.New(productRepo, logger)
	ctx := context.Background()
	if err := products.Refresh(ctx); err != nil {
		// The terminal still starts; products load on the next refresh.
		logger.Warn("initial catalog load failed", zap.Error(err))
	}

	calc := pricing.New(cfg.TaxRate)
	submitter := checkout.NewSubmitter(saleRepo, products, calc, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Checkout:  checkoutsvc.New(products, submitter, calc, logger),
		Catalog:   products,
		Inventory: inventorysvc.New(productRepo, products, logger),
		Account:   accountsvc.New(userRepo, tokens, logger),
		Backend:   client,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
