package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/dealscope/dealscope/internal/models"
)

// Publisher emits valuation events to Kafka for downstream consumers
// (analytics, alerting). Like every Recorder it is best-effort.
type Publisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

// NewPublisher creates a Kafka-backed recorder.
func NewPublisher(broker, topic string, logger *logrus.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{writer: writer, logger: logger}
}

// Save serializes the record and writes it with a short timeout so a
// slow broker cannot stall the response path it is called from.
func (p *Publisher) Save(ctx context.Context, record *models.HistoryRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("serialize valuation event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(record.Platform),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Errorf("closing kafka writer: %v", err)
		return err
	}
	return nil
}
