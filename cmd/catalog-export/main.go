// Command catalog-export writes every product of a Shopify store to an
// NDJSON file of schema.org Product documents.
//
// Settings come from the environment (optionally seeded from a .env file)
// or from the YAML file named by EXPORT_CONFIG.
package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/logger"
	"github.com/saturnines/catalog-export/pkg/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	dotenvErr := godotenv.Load()

	cfg, err := config.FromEnvironment()
	if err != nil {
		logger.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		slog.Error(errors.Classify(err), "error", err)
		return 1
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		slog.Warn("could not read .env file", "error", dotenvErr)
	}

	if err := pipeline.Run(ctx, cfg, pipeline.NewClient(cfg)); err != nil {
		return 1
	}
	return 0
}
