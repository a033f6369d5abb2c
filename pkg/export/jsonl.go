package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/schema"
	"github.com/saturnines/catalog-export/pkg/shopify"
)

// Stats summarises one export
type Stats struct {
	Exported int
	Failed   int
}

// JSONLExporter writes one schema document per line
type JSONLExporter struct {
	ShopURL string
	Logger  *slog.Logger

	// Map defaults to schema.FromProduct
	Map func(shopify.Product, string) (*schema.Document, error)
}

// NewJSONLExporter returns an exporter that builds product URLs on shopURL
func NewJSONLExporter(shopURL string, logger *slog.Logger) *JSONLExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONLExporter{ShopURL: shopURL, Logger: logger, Map: schema.FromProduct}
}

// Export maps and writes every product. A product that fails to map or
// encode is logged and skipped; a failed write to w stops the export.
func (e *JSONLExporter) Export(products []shopify.Product, w io.Writer) (Stats, error) {
	var stats Stats

	bw := bufio.NewWriter(w)
	var line bytes.Buffer
	enc := json.NewEncoder(&line)
	enc.SetEscapeHTML(false)

	for _, p := range products {
		line.Reset()

		doc, err := e.Map(p, e.ShopURL)
		if err == nil {
			// Encode appends the newline
			err = enc.Encode(doc)
		}
		if err != nil {
			stats.Failed++
			e.Logger.Error("Error processing product", "product_id", p.ID, "error", err)
			continue
		}

		if _, err := bw.Write(line.Bytes()); err != nil {
			return stats, errors.WrapError(err, errors.ErrOutput, "write product line")
		}
		stats.Exported++
	}

	if err := bw.Flush(); err != nil {
		return stats, errors.WrapError(err, errors.ErrOutput, "flush output")
	}
	return stats, nil
}

// ExportFile truncates or creates path and exports into it
func (e *JSONLExporter) ExportFile(products []shopify.Product, path string) (stats Stats, err error) {
	f, err := os.Create(path)
	if err != nil {
		return stats, errors.WrapError(err, errors.ErrOutput, "open output file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapError(cerr, errors.ErrOutput, "close output file")
		}
	}()

	return e.Export(products, f)
}
