package scrapers

import (
	"context"
	"fmt"

	"digikala-scraper/internal/kafka"
	"digikala-scraper/internal/logger"
	"digikala-scraper/internal/model"
	"digikala-scraper/internal/pacing"

	"github.com/tidwall/gjson"
)

// CommentCollector pages through the comments of every product and writes
// the comment table.
type CommentCollector struct {
	cfg      DigikalaConfig
	fetcher  JSONFetcher
	pauser   *pacing.Pauser
	sink     Sink
	progress ProgressFactory
	logger   logger.Logger
}

func NewCommentCollector(cfg DigikalaConfig, fetcher JSONFetcher, pauser *pacing.Pauser, sink Sink, progress ProgressFactory, logger logger.Logger) *CommentCollector {
	if progress == nil {
		progress = NopProgress
	}
	return &CommentCollector{
		cfg:      cfg,
		fetcher:  fetcher,
		pauser:   pauser,
		sink:     sink,
		progress: progress,
		logger:   logger,
	}
}

// Collect gathers comments for products in table order and writes them out.
func (c *CommentCollector) Collect(ctx context.Context, products []model.ProductRecord) ([]model.CommentRecord, error) {
	var comments []model.CommentRecord

	// Progress line over products
	bar := c.progress(len(products), "Fetching comments")
	defer func() { _ = bar.Finish() }()

	for i, p := range products {
		if p.ID == nil {
			c.logger.Warnf("Skipping product at row %d: no id", i)
		} else {
			found, err := c.collectProduct(ctx, *p.ID)
			if err != nil {
				return nil, err
			}
			comments = append(comments, found...)
		}
		_ = bar.Add(1)

		// Pause between products, not after the last one
		if i < len(products)-1 {
			if err := c.pauser.Pause(ctx, c.cfg.ProductGap); err != nil {
				return nil, err
			}
		}
	}

	// Write table and publish
	n, err := c.sink.flush(c.logger, commentsCollector, kafka.KindComment, c.cfg.CommentsPath, model.CommentColumns, model.Records(comments))
	if err != nil {
		return nil, fmt.Errorf("failed to save comments: %w", err)
	}
	c.logger.Infof("Saved %d comments → %s", n, c.cfg.CommentsPath)

	return comments, nil
}

// collectProduct pages until the endpoint runs dry, reports its last page,
// or MaxCommentPages is reached.
func (c *CommentCollector) collectProduct(ctx context.Context, productID model.Value) ([]model.CommentRecord, error) {
	var comments []model.CommentRecord
	id := productID.String()

	for page := 1; page <= c.cfg.MaxCommentPages; page++ {
		doc, ok := c.fetcher.Fetch(ctx, c.cfg.CommentsURL(id, page))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		list := doc.Get("data.comments")
		if !ok || !list.IsArray() {
			c.logger.Warnf("No comments data for product %s on page %d", id, page)
			c.sink.Metrics.ObserveSkippedPage(commentsCollector)
			break
		}

		// An empty page means the comments ran out
		entries := list.Array()
		if len(entries) == 0 {
			break
		}
		for i, entry := range entries {
			if !entry.IsObject() {
				c.logger.Warnf("Skipping comment %d of product %s on page %d: not an object", i, id, page)
				continue
			}
			comments = append(comments, model.FlattenComment(productID, entry))
		}

		// Last reported page, or the configured bound
		if page >= totalPages(doc) || page == c.cfg.MaxCommentPages {
			break
		}
		if err := c.pauser.Pause(ctx, c.cfg.CommentPagePause); err != nil {
			return nil, err
		}
	}

	c.logger.Debugf("Product %s: %d comments", id, len(comments))
	return comments, nil
}

// totalPages reads metadata.paging.total_pages, defaulting to 1.
func totalPages(doc gjson.Result) int {
	tp := doc.Get("metadata.paging.total_pages")
	if !tp.Exists() || tp.Type == gjson.Null {
		return 1
	}
	return int(tp.Int())
}
