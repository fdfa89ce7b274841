package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"digikala-scraper/internal/logger"
	"digikala-scraper/internal/observability"
	"digikala-scraper/internal/pacing"

	"github.com/andybalholm/brotli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(attempts int, delay time.Duration) (*Fetcher, *pacing.Recorder, *logger.MockLogger, *observability.Metrics) {
	rec := &pacing.Recorder{}
	log := logger.NewMockLogger()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	f := New(NewHTTPClient(time.Second), RetryConfig{Attempts: attempts, Delay: delay}, rec, log, metrics)
	return f, rec, log, metrics
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip, deflate, br", r.Header.Get("Accept-Encoding"))
		w.Write([]byte(`{"data":{"products":[{"id":1}]}}`))
	}))
	defer srv.Close()

	f, rec, _, metrics := newTestFetcher(3, 2*time.Second)

	doc, ok := f.Fetch(context.Background(), srv.URL)
	require.True(t, ok)
	assert.Equal(t, int64(1), doc.Get("data.products.0.id").Int())
	assert.Zero(t, rec.Count())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchAttempts.WithLabelValues(observability.OutcomeOK)))
}

func TestFetch_AlwaysNon200ExhaustsAttempts(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f, rec, log, metrics := newTestFetcher(3, 2*time.Second)

	_, ok := f.Fetch(context.Background(), srv.URL)
	assert.False(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second}, rec.Slept)
	require.Len(t, log.WarnMessages, 3)
	assert.Contains(t, log.WarnMessages[0], "Status 503")
	assert.Len(t, log.ErrorMessages, 1)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.FetchAttempts.WithLabelValues(observability.OutcomeStatus)))
}

func TestGet_ReportsExhaustedWithCause(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f, _, _, _ := newTestFetcher(2, time.Second)

	_, err := f.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
}

func TestFetch_RecoversAfterFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.Write([]byte(`{"broken":`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f, rec, _, metrics := newTestFetcher(3, 2*time.Second)

	doc, ok := f.Fetch(context.Background(), srv.URL)
	require.True(t, ok)
	assert.True(t, doc.Get("ok").Bool())
	assert.Equal(t, 2, rec.Count())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FetchAttempts.WithLabelValues(observability.OutcomeParse)))
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f, rec, log, metrics := newTestFetcher(2, time.Second)

	_, ok := f.Fetch(context.Background(), url)
	assert.False(t, ok)
	assert.Equal(t, 2, rec.Count())
	require.Len(t, log.WarnMessages, 2)
	assert.Contains(t, log.WarnMessages[0], "Error fetching")
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FetchAttempts.WithLabelValues(observability.OutcomeTransport)))
}

func TestFetch_CancelledContextStopsRetrying(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	log := logger.NewMockLogger()
	f := New(NewHTTPClient(time.Second), RetryConfig{Attempts: 3, Delay: time.Minute}, cancelOnSleep{cancel}, log, nil)

	_, err := f.Get(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Empty(t, log.ErrorMessages)
}

func TestFetch_DecodesCompressedBodies(t *testing.T) {
	payload := []byte(`{"data":{"comments":[{"id":9}]}}`)

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write(payload)
	gw.Close()

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	bw.Write(payload)
	bw.Close()

	bodies := map[string][]byte{"gzip": gz.Bytes(), "br": br.Bytes()}
	for encoding, body := range bodies {
		t.Run(encoding, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", encoding)
				w.Write(body)
			}))
			defer srv.Close()

			f, _, _, _ := newTestFetcher(1, 0)

			doc, ok := f.Fetch(context.Background(), srv.URL)
			require.True(t, ok)
			assert.Equal(t, int64(9), doc.Get("data.comments.0.id").Int())
		})
	}
}

func TestNewHTTPClient_KeepsDefaultTransportSettings(t *testing.T) {
	client := NewHTTPClient(7 * time.Second)
	assert.Equal(t, 7*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotSame(t, http.DefaultTransport, transport)
	assert.True(t, transport.DisableCompression)
	assert.False(t, http.DefaultTransport.(*http.Transport).DisableCompression)

	assert.NotNil(t, transport.Proxy)
	assert.NotNil(t, transport.DialContext)
	assert.Positive(t, transport.TLSHandshakeTimeout)
	assert.Positive(t, transport.IdleConnTimeout)
	assert.Positive(t, transport.MaxIdleConns)
	assert.True(t, transport.ForceAttemptHTTP2)
}

func TestRetry_SleepsAfterEveryFailure(t *testing.T) {
	rec := &pacing.Recorder{}
	calls := 0

	err := Retry(context.Background(), RetryConfig{Attempts: 4, Delay: time.Second}, rec, func(attempt int) error {
		calls++
		assert.Equal(t, calls, attempt)
		return errors.New("nope")
	})

	assert.EqualError(t, err, "nope")
	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, rec.Count())
}

func TestRetry_StopsOnSuccess(t *testing.T) {
	rec := &pacing.Recorder{}

	err := Retry(context.Background(), DefaultRetryConfig(), rec, func(attempt int) error {
		if attempt == 2 {
			return nil
		}
		return errors.New("first fails")
	})

	assert.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.Slept)
}

type cancelOnSleep struct {
	cancel context.CancelFunc
}

func (c cancelOnSleep) Sleep(ctx context.Context, d time.Duration) error {
	c.cancel()
	return ctx.Err()
}
