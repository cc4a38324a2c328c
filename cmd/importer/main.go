package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"pos-terminal/internal/auth"
	"pos-terminal/internal/backend"
	"pos-terminal/internal/config"
	"pos-terminal/internal/importer"
	"pos-terminal/internal/logging"
	"pos-terminal/internal/repository/product"
	tokenrepo "pos-terminal/internal/repository/token"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to inventory CSV (name,category,price,stock,status,sku,description)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := logging.New("pos-importer", cfg.LogLevel)
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewHTTP(client, logger), logger)

	start := time.Now()
	res, err := imp.Run(context.Background())
	if err != nil {
		logger.Fatal("import failed", zap.Error(err), zap.Int("created", res.Created), zap.Int("updated", res.Updated))
	}

	fmt.Printf("Imported %d products (%d created, %d updated) in %s\n", res.Total(), res.Created, res.Updated, time.Since(start).Truncate(time.Millisecond))
}
