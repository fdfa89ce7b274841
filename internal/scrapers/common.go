package scrapers

import (
	"context"

	"github.com/tidwall/gjson"
)

// Collector names used in logs and metrics.
const (
	productsCollector = "products"
	commentsCollector = "comments"
)

type Scraper interface {
	Scrape(ctx context.Context) (int64, error)
}

// JSONFetcher fetches a JSON document; false means no document could be had.
// *fetcher.Fetcher implements it.
type JSONFetcher interface {
	Fetch(ctx context.Context, url string) (gjson.Result, bool)
}

// Progress reports advancement over a known number of steps.
type Progress interface {
	Add(n int) error
	Finish() error
}

// ProgressFactory creates a Progress for total steps.
type ProgressFactory func(total int, description string) Progress

type nopProgress struct{}

func (nopProgress) Add(int) error { return nil }
func (nopProgress) Finish() error { return nil }

// NopProgress reports nothing.
func NopProgress(int, string) Progress { return nopProgress{} }
