package scrapers

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"digikala-scraper/internal/model"
	"digikala-scraper/internal/pacing"

	"github.com/tidwall/gjson"
)

const (
	productsPause = 1 * time.Second
	commentPause  = 2 * time.Second
	productGap    = 3 * time.Second
)

func fixed(d time.Duration) pacing.Range {
	return pacing.Range{Min: d, Max: d}
}

func testConfig() DigikalaConfig {
	return DefaultDigikalaConfig().
		WithAPIBaseURL("http://api.test/v1").
		WithMaxPages(4, 3).
		WithOutputs("products.csv", "comments.csv").
		WithPauses(fixed(productsPause), fixed(commentPause), fixed(productGap))
}

func testPauser() (*pacing.Pauser, *pacing.Recorder) {
	rec := &pacing.Recorder{}
	return &pacing.Pauser{Sleeper: rec, Rand: testRand()}, rec
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func countOf(slept []time.Duration, d time.Duration) int {
	n := 0
	for _, s := range slept {
		if s == d {
			n++
		}
	}
	return n
}

// fakeFetcher serves canned documents by URL; unknown URLs are absent.
type fakeFetcher struct {
	docs  map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (gjson.Result, bool) {
	f.calls = append(f.calls, url)
	body, ok := f.docs[url]
	if !ok {
		return gjson.Result{}, false
	}
	return gjson.Parse(body), true
}

type fakeWriter struct {
	path   string
	header []string
	rows   [][]string
	err    error
}

func (w *fakeWriter) Write(path string, header []string, rows [][]string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.path, w.header, w.rows = path, header, rows
	return len(rows), nil
}

type fakeProducer struct {
	batches map[string][]model.Record
	err     error
}

func (p *fakeProducer) SendBatch(kind string, records []model.Record) error {
	if p.err != nil {
		return p.err
	}
	if p.batches == nil {
		p.batches = map[string][]model.Record{}
	}
	p.batches[kind] = append(p.batches[kind], records...)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

type countingProgress struct {
	total    int
	added    int
	finished bool
}

func (p *countingProgress) Add(n int) error { p.added += n; return nil }
func (p *countingProgress) Finish() error   { p.finished = true; return nil }

var errDisk = errors.New("disk full")
