package scrapers

import (
	"digikala-scraper/internal/kafka"
	"digikala-scraper/internal/logger"
	"digikala-scraper/internal/model"
	"digikala-scraper/internal/observability"
	"digikala-scraper/internal/table"
)

// Sink receives a finished table: the file is written first, then the records
// are published. Publishing is best effort.
type Sink struct {
	Writer   table.Writer
	Producer kafka.Producer
	Metrics  *observability.Metrics
}

func (s Sink) flush(log logger.Logger, name, kind, path string, header []string, records []model.Record) (int, error) {
	n, err := s.Writer.Write(path, header, model.Rows(records))
	if err != nil {
		return 0, err
	}
	s.Metrics.ObserveWritten(name, n)

	// Publish
	if s.Producer != nil {
		if err := s.Producer.SendBatch(kind, records); err != nil {
			log.Errorf("Failed to publish %d %s records: %v", len(records), kind, err)
		}
	}
	return n, nil
}
