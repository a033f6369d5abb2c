// Package pipeline runs one catalog export: open a session, fetch every
// product, close the session, then map and write the products as NDJSON.
package pipeline

import (
	"context"

	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/export"
	"github.com/saturnines/catalog-export/pkg/logger"
	"github.com/saturnines/catalog-export/pkg/shopify"
)

// Fetcher reads the full catalog through an open session
type Fetcher interface {
	Products(ctx context.Context, sess *shopify.Session) ([]shopify.Product, error)
}

// NewClient builds the store client described by cfg
func NewClient(cfg *config.Config) *shopify.Client {
	opts := []shopify.ClientOption{
		shopify.WithTimeout(cfg.Timeout),
		shopify.WithFields(cfg.Fields...),
		shopify.WithPageSize(cfg.PageSize),
		shopify.WithLogger(logger.WithComponent("shopify")),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, shopify.WithBaseURL(cfg.Endpoint))
	}
	return shopify.NewClient(opts...)
}

// Run exports the catalog to cfg.OutputFile. The output file is only
// touched once the fetch has succeeded.
func Run(ctx context.Context, cfg *config.Config, fetcher Fetcher) error {
	log := logger.WithComponent("pipeline")
	log.Info("Starting Shopify product export")

	var (
		products []shopify.Product
		shopURL  string
	)
	err := shopify.WithSession(cfg.ShopURL, cfg.APIVersion, cfg.AccessToken, func(sess *shopify.Session) error {
		shopURL = sess.ShopURL
		log.Info("Fetching products...")

		var err error
		products, err = fetcher.Products(ctx, sess)
		return err
	})
	if err != nil {
		log.Error(errors.Classify(err), "error", err)
		log.Error("Failed to retrieve products. Exiting.")
		return err
	}

	log.Info("Found products", "count", len(products))
	if len(products) == 0 {
		log.Info("No products found.")
	}

	exporter := export.NewJSONLExporter(shopURL, logger.WithComponent("export"))
	stats, err := exporter.ExportFile(products, cfg.OutputFile)
	if err != nil {
		log.Error("Fatal error during export", "output", cfg.OutputFile, "exported", stats.Exported, "error", err)
		return err
	}

	log.Info("Successfully exported products",
		"exported", stats.Exported,
		"failed", stats.Failed,
		"output", cfg.OutputFile,
	)
	return nil
}
