package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"digikala-scraper/internal/logger"
	"digikala-scraper/internal/observability"
	"digikala-scraper/internal/pacing"

	"github.com/andybalholm/brotli"
	"github.com/tidwall/gjson"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36"

// Doer is the HTTP GET capability. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher issues JSON GET requests with a bounded, fixed-delay retry.
type Fetcher struct {
	client  Doer
	retry   RetryConfig
	sleeper pacing.Sleeper
	logger  logger.Logger
	metrics *observability.Metrics
}

// NewHTTPClient returns a client whose requests time out after timeout.
// Bodies are decoded by readBody, so the transport leaves them compressed.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// New constructs a Fetcher. metrics may be nil.
func New(client Doer, retry RetryConfig, sleeper pacing.Sleeper, logger logger.Logger, metrics *observability.Metrics) *Fetcher {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	return &Fetcher{
		client:  client,
		retry:   retry,
		sleeper: sleeper,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch returns the parsed document at url. The boolean is false when every
// attempt failed; callers treat that as an ordinary outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (gjson.Result, bool) {
	doc, err := f.Get(ctx, url)
	if err != nil {
		return gjson.Result{}, false
	}
	return doc, true
}

// Get is Fetch with the reason for failure: ErrExhausted wrapping the last
// attempt's error, or the context error when interrupted.
func (f *Fetcher) Get(ctx context.Context, url string) (gjson.Result, error) {
	var doc gjson.Result
	err := Retry(ctx, f.retry, f.sleeper, func(attempt int) error {
		d, err := f.attempt(ctx, url)
		if err != nil {
			f.observe(err)
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				f.logger.Warnf("Status %d for %s (attempt %d/%d)", statusErr.Code, url, attempt, f.retry.Attempts)
			} else {
				f.logger.Warnf("Error fetching %s (attempt %d/%d): %v", url, attempt, f.retry.Attempts, err)
			}
			return err
		}
		f.metrics.ObserveAttempt(observability.OutcomeOK)
		doc = d
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return gjson.Result{}, ctxErr
		}
		f.logger.Errorf("All %d attempts failed for %s: %v", f.retry.Attempts, url, err)
		return gjson.Result{}, fmt.Errorf("%w: %w", ErrExhausted, err)
	}
	return doc, nil
}

// attempt performs one GET and parse.
func (f *Fetcher) attempt(ctx context.Context, url string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, &TransportError{Err: err}
	}
	// Browser-like headers
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return gjson.Result{}, &TransportError{Err: err}
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			f.logger.Debugf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return gjson.Result{}, &StatusError{Code: resp.StatusCode}
	}

	// Decode and validate body
	data, err := readBody(resp)
	if err != nil {
		return gjson.Result{}, &TransportError{Err: err}
	}
	f.logger.Debugf("Response body length for %s: %d bytes", url, len(data))

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &ParseError{Size: len(data)}
	}
	return gjson.ParseBytes(data), nil
}

// readBody reads the response body, undoing any Content-Encoding.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		flateReader := flate.NewReader(resp.Body)
		defer flateReader.Close()
		reader = flateReader
	default:
		reader = resp.Body
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

func (f *Fetcher) observe(err error) {
	var (
		statusErr *StatusError
		parseErr  *ParseError
	)
	switch {
	case errors.As(err, &statusErr):
		f.metrics.ObserveAttempt(observability.OutcomeStatus)
	case errors.As(err, &parseErr):
		f.metrics.ObserveAttempt(observability.OutcomeParse)
	default:
		f.metrics.ObserveAttempt(observability.OutcomeTransport)
	}
}
