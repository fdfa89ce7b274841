package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch attempt outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeStatus    = "status"
	OutcomeTransport = "transport"
	OutcomeParse     = "parse"
)

// Metrics groups the scraper counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	FetchAttempts  *prometheus.CounterVec
	PagesSkipped   *prometheus.CounterVec
	RecordsWritten *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "digikala_fetch_attempts_total",
				Help: "HTTP GET attempts by outcome",
			},
			[]string{"outcome"},
		),
		PagesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "digikala_pages_skipped_total",
				Help: "Pages skipped because no usable document was fetched",
			},
			[]string{"collector"},
		),
		RecordsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "digikala_records_written_total",
				Help: "Rows written to the tabular outputs",
			},
			[]string{"table"},
		),
	}
	reg.MustRegister(m.FetchAttempts, m.PagesSkipped, m.RecordsWritten)
	return m
}

func (m *Metrics) ObserveAttempt(outcome string) {
	if m == nil {
		return
	}
	m.FetchAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSkippedPage(collector string) {
	if m == nil {
		return
	}
	m.PagesSkipped.WithLabelValues(collector).Inc()
}

func (m *Metrics) ObserveWritten(table string, rows int) {
	if m == nil {
		return
	}
	m.RecordsWritten.WithLabelValues(table).Add(float64(rows))
}

// Serve exposes /metrics for g on port in the background. The returned
// server should be shut down by the caller.
func Serve(port string, g prometheus.Gatherer, onError func(error)) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			onError(err)
		}
	}()
	return srv
}
