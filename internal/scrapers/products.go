package scrapers

import (
	"context"
	"fmt"

	"digikala-scraper/internal/kafka"
	"digikala-scraper/internal/logger"
	"digikala-scraper/internal/model"
	"digikala-scraper/internal/pacing"
)

// ProductCollector pages through the brand search and writes the product table.
type ProductCollector struct {
	cfg     DigikalaConfig
	fetcher JSONFetcher
	pauser  *pacing.Pauser
	sink    Sink
	logger  logger.Logger
}

func NewProductCollector(cfg DigikalaConfig, fetcher JSONFetcher, pauser *pacing.Pauser, sink Sink, logger logger.Logger) *ProductCollector {
	return &ProductCollector{
		cfg:     cfg,
		fetcher: fetcher,
		pauser:  pauser,
		sink:    sink,
		logger:  logger,
	}
}

// Collect requests every search page, flattens the products in fetch order
// and writes them out. A page without a product list is skipped. The only
// errors are cancellation and a failed table write.
func (c *ProductCollector) Collect(ctx context.Context) ([]model.ProductRecord, error) {
	var products []model.ProductRecord

	for page := 1; page <= c.cfg.MaxProductPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found := c.collectPage(ctx, page)
		products = append(products, found...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// One pause after the last page
	if err := c.pauser.Pause(ctx, c.cfg.ProductsPause); err != nil {
		return nil, err
	}

	// Write table and publish
	n, err := c.sink.flush(c.logger, productsCollector, kafka.KindProduct, c.cfg.ProductsPath, model.ProductColumns, model.Records(products))
	if err != nil {
		return nil, fmt.Errorf("failed to save products: %w", err)
	}
	c.logger.Infof("Saved %d products → %s", n, c.cfg.ProductsPath)

	return products, nil
}

func (c *ProductCollector) collectPage(ctx context.Context, page int) []model.ProductRecord {
	doc, ok := c.fetcher.Fetch(ctx, c.cfg.SearchURL(page))
	list := doc.Get("data.products")
	if !ok || !list.IsArray() {
		if ctx.Err() == nil {
			c.logger.Warnf("No data on page %d", page)
			c.sink.Metrics.ObserveSkippedPage(productsCollector)
		}
		return nil
	}

	entries := list.Array()
	products := make([]model.ProductRecord, 0, len(entries))
	for i, entry := range entries {
		if !entry.IsObject() {
			c.logger.Warnf("Skipping product %d on page %d: not an object", i, page)
			continue
		}
		products = append(products, model.FlattenProduct(entry))
	}

	c.logger.Debugf("Page %d: %d products", page, len(products))
	return products
}
