package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"

	"auracheck/internal/logging"
	"auracheck/internal/models"
)

// Ingestor is the slice of the readings service the consumer feeds.
type Ingestor interface {
	Ingest(ctx context.Context, p models.SensorPayload) (models.LatestReading, error)
}

// Consumer pulls sensor payloads off a Kafka topic and runs them through
// the same ingestion pipeline the HTTP endpoint uses.
type Consumer struct {
	reader *kafka.Reader
	svc    Ingestor
	logger *logging.Logger
}

func NewConsumer(broker, topic, groupID string, svc Ingestor, logger *logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: reader, svc: svc, logger: logger}
}

// Start consumes until ctx is cancelled or the reader is closed.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started on topic %s", c.reader.Config().Topic)

		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
					c.logger.Infof("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}

			var p models.SensorPayload
			if err := json.Unmarshal(msg.Value, &p); err != nil {
				c.logger.Errorf("Unmarshal message failed: %v", err)
				continue
			}

			// The broker path bypasses HTTP binding validation, so the
			// same checks run here before the payload reaches the core.
			if !valid(p) {
				c.logger.Errorf("Invalid sensor payload from topic, dropping: device_id=%q location=%q raw=%d voltage=%.2f",
					p.DeviceID, p.Location, p.RawValue, p.Voltage)
				continue
			}

			if _, err := c.svc.Ingest(ctx, p); err != nil {
				c.logger.Errorf("Ingest from topic failed for device %s: %v", p.DeviceID, err)
			}
		}
	}()
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func valid(p models.SensorPayload) bool {
	return p.DeviceID != "" && p.Location != "" &&
		p.RawValue >= 0 && p.RawValue <= 1023 &&
		p.Voltage >= 0 && p.Voltage <= 5
}
