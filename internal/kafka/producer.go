package kafka

import (
	"fmt"

	"digikala-scraper/internal/logger"
	"digikala-scraper/internal/model"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record kinds carried in the "kind" header.
const (
	KindProduct = "product"
	KindComment = "comment"
)

type Producer interface {
	SendBatch(kind string, records []model.Record) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	runID    string
	logger   logger.Logger
}

// NewProducer connects a synchronous producer to brokers.
// brokers is a slice of broker host:port strings, e.g. []string{"localhost:9092"}.
func NewProducer(brokers []string, topic, runID string, logger logger.Logger) (*KafkaProducer, error) {
	// Sync producer config
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Infof("Kafka producer created. Brokers: %v, Topic: %s", brokers, topic)

	return &KafkaProducer{
		producer: p,
		topic:    topic,
		runID:    runID,
		logger:   logger,
	}, nil
}

func (p *KafkaProducer) message(kind string, record model.Record) (*sarama.ProducerMessage, error) {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	return &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(record.Key()),
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(kind)},
			{Key: []byte("run_id"), Value: []byte(p.runID)},
		},
	}, nil
}

// SendBatch publishes records in one request.
func (p *KafkaProducer) SendBatch(kind string, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	p.logger.Debugf("Preparing to send batch of %d %s records", len(records), kind)

	// Encode everything before sending anything
	msgs := make([]*sarama.ProducerMessage, 0, len(records))
	for _, record := range records {
		msg, err := p.message(kind, record)
		if err != nil {
			p.logger.Errorf("Failed to marshal %s: %v", kind, err)
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		p.logger.Errorf("Failed to send batch of %d %s records: %v", len(records), kind, err)
		return fmt.Errorf("batch delivery error: %w", err)
	}

	p.logger.Infof("Successfully sent batch of %d %s records", len(records), kind)
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaProducer) Close() error {
	p.logger.Infof("Closing producer...")
	return p.producer.Close()
}

// NopProducer drops every record. It stands in when publishing is disabled.
type NopProducer struct{}

func (NopProducer) SendBatch(string, []model.Record) error { return nil }
func (NopProducer) Close() error { return nil }
