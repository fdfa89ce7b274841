package scrapers

import (
	"context"

	"digikala-scraper/internal/logger"
)

// DigikalaScraper implements the Scraper interface: products first, then the
// comments of every collected product.
type DigikalaScraper struct {
	cfg      DigikalaConfig
	products *ProductCollector
	comments *CommentCollector
	logger   logger.Logger
}

// NewDigikalaScraper constructs a new DigikalaScraper.
func NewDigikalaScraper(cfg DigikalaConfig, products *ProductCollector, comments *CommentCollector, logger logger.Logger) *DigikalaScraper {
	return &DigikalaScraper{
		cfg:      cfg,
		products: products,
		comments: comments,
		logger:   logger,
	}
}

// Scrape runs both phases and returns the total number of rows written.
func (s *DigikalaScraper) Scrape(ctx context.Context) (int64, error) {
	s.logger.Infof("Fetching %s %s products and comments from Digikala...", s.cfg.Brand, s.cfg.Category)

	products, err := s.products.Collect(ctx)
	if err != nil {
		s.logger.Errorf("Product collection failed: %v", err)
		return 0, err
	}

	comments, err := s.comments.Collect(ctx, products)
	if err != nil {
		s.logger.Errorf("Comment collection failed: %v", err)
		return int64(len(products)), err
	}

	s.logger.Infof("Done! Data saved successfully.")
	return int64(len(products) + len(comments)), nil
}
