// Package kafka streams event log records to a Kafka topic for external
// observers (compliance tooling, dashboards). The platform never consumes
// this topic itself.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"propdesk/pkg/platform/eventlog"
)

// Publisher implements eventlog.Log by producing one message per record,
// keyed by caller account so per-participant history stays ordered within a
// partition.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// New connects to the given brokers. The topic must already exist.
func New(brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic}, nil
}

// payload is the wire form of a record. Field names are part of the external
// contract; changing them breaks downstream consumers.
type payload struct {
	ID        string `json:"id"`
	Component string `json:"component"`
	Action    string `json:"action"`
	Caller    string `json:"caller"`
	Subject   string `json:"subject"`
	Amount    uint64 `json:"amount"`
	Timestamp string `json:"timestamp"`
}

func (p *Publisher) Append(ctx context.Context, record eventlog.Record) error {
	body, err := json.Marshal(payload{
		ID:        record.ID.String(),
		Component: string(record.Component),
		Action:    string(record.Action),
		Caller:    record.Caller.Hex(),
		Subject:   record.Subject,
		Amount:    uint64(record.Amount),
		Timestamp: record.Timestamp.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal event record: %w", err)
	}

	result := p.client.ProduceSync(ctx, &kgo.Record{
		Topic: p.topic,
		Key:   []byte(record.Caller.Hex()),
		Value: body,
	})
	if err := result.FirstErr(); err != nil {
		return fmt.Errorf("produce event record: %w", err)
	}
	return nil
}

// Close flushes pending records and releases the client.
func (p *Publisher) Close() {
	p.client.Close()
}
