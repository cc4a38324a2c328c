package main

import (
	"context"

	"go.uber.org/zap"

	"pos-terminal/internal/auth"
	"pos-terminal/internal/backend"
	"pos-terminal/internal/config"
	"pos-terminal/internal/logging"
	"pos-terminal/internal/repository/product"
	tokenrepo "pos-terminal/internal/repository/token"
	"pos-terminal/internal/seed"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("pos-seed", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	client := backend.New(backend.Options{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Tokens:  auth.NewStore(tokenrepo.NewFile(cfg.TokenFile, logger), logger),
		Logger:  logger,
	})

	n, err := seed.Apply(context.Background(), product.NewHTTP(client, logger), logger)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.Int("created", n))
}
