package event

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published on the model and marketplace topics
const (
	TypeModelCreated    = "model.created"
	TypeModelUpdated    = "model.updated"
	TypeModelDeleted    = "model.deleted"
	TypeModelBacktested = "model.backtested"
	TypeModelRolledBack = "model.rolled_back"
	TypeRankRecomputed  = "rank.recomputed"
	TypeModelShared     = "marketplace.shared"
	TypeModelApproved   = "marketplace.approved"
	TypeModelPurchased  = "marketplace.purchased"
)

// Envelope is the wire form of a published event
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher sends domain events to Kafka topics. A nil Publisher is valid
// and drops every event, so callers never gate on configuration.
type Publisher struct {
	mu      sync.Mutex
	writers map[string]*kafka.Writer
	brokers []string
	logger  *zap.Logger
}

// NewPublisher creates a Kafka-backed publisher, or nil when no brokers are
// configured
func NewPublisher(brokers []string, logger *zap.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		writers: make(map[string]*kafka.Writer),
		brokers: brokers,
		logger:  logger,
	}
}

func (p *Publisher) getWriter(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, exists := p.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	p.writers[topic] = writer
	return writer
}

// Publish sends one event to a topic. Failures are logged, not returned:
// event delivery never blocks a request outcome.
func (p *Publisher) Publish(ctx context.Context, topic, key, eventType string, payload interface{}) {
	if p == nil {
		return
	}

	value, err := json.Marshal(Envelope{
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	})
	if err != nil {
		p.logger.Error("Failed to marshal event",
			zap.String("topic", topic),
			zap.String("type", eventType),
			zap.Error(err))
		return
	}

	writer := p.getWriter(topic)
	err = writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("topic", topic),
			zap.String("type", eventType),
			zap.Error(err))
		return
	}

	p.logger.Debug("Event published",
		zap.String("topic", topic),
		zap.String("type", eventType))
}

// Close closes all writers
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			p.logger.Error("Failed to close event writer",
				zap.String("topic", topic),
				zap.Error(err))
		}
	}
	return nil
}
