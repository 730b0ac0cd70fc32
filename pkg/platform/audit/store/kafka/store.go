// Package kafka publishes audit events to a Kafka topic so downstream
// compliance and alerting consumers can subscribe to them.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "mintgate/pkg/platform/audit"
	"mintgate/pkg/platform/sentinel"
)

// ErrCircuitOpen is returned while the sink is backing off after repeated
// produce failures.
var ErrCircuitOpen = fmt.Errorf("audit kafka sink: circuit open: %w", sentinel.ErrUnavailable)

// Producer is the subset of *kgo.Client the store needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type Store struct {
	producer Producer
	topic    string
	breaker  *breaker
}

type Option func(*Store)

// WithBreaker overrides the failure threshold and cooldown of the circuit
// breaker guarding the producer.
func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(s *Store) {
		s.breaker = newBreaker(threshold, cooldown)
	}
}

func New(producer Producer, topic string, opts ...Option) *Store {
	s := &Store{producer: producer, topic: topic, breaker: newBreaker(0, 0)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewClient builds a franz-go client for the given brokers.
func NewClient(brokers []string, clientID string) (*kgo.Client, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return cl, nil
}

// EnsureTopic creates the audit topic unless it already exists.
func EnsureTopic(ctx context.Context, cl *kgo.Client, topic string, partitions int32, replication int16) error {
	adm := kadm.NewClient(cl)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, t := range resp.Sorted() {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}

type message struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Action    string    `json:"action"`
	Stage     *int      `json:"stage,omitempty"`
	Quantity  uint64    `json:"quantity,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

// Encode renders an event as the JSON payload written to the topic.
func Encode(event audit.Event) ([]byte, error) {
	return json.Marshal(message{
		ID:        event.ID,
		Category:  string(event.Category),
		Timestamp: event.Timestamp.UTC(),
		ActorID:   event.ActorID,
		Subject:   event.Subject,
		Action:    event.Action,
		Stage:     event.Stage,
		Quantity:  event.Quantity,
		Amount:    event.Amount,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ClientIP:  event.ClientIP,
		UserAgent: event.UserAgent,
	})
}

// Decode parses a payload produced by Encode.
func Decode(payload []byte) (audit.Event, error) {
	var m message
	if err := json.Unmarshal(payload, &m); err != nil {
		return audit.Event{}, fmt.Errorf("decode audit event: %w", err)
	}
	return audit.Event{
		ID:        m.ID,
		Category:  audit.EventCategory(m.Category),
		Timestamp: m.Timestamp,
		ActorID:   m.ActorID,
		Subject:   m.Subject,
		Action:    m.Action,
		Stage:     m.Stage,
		Quantity:  m.Quantity,
		Amount:    m.Amount,
		Reason:    m.Reason,
		RequestID: m.RequestID,
		ClientIP:  m.ClientIP,
		UserAgent: m.UserAgent,
	}, nil
}

// Append produces the event keyed by actor so one wallet's history stays
// ordered within a partition.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if !s.breaker.allow() {
		return ErrCircuitOpen
	}
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.ActorID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(event.Category)},
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := s.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		s.breaker.failure()
		return fmt.Errorf("produce audit event: %w", err)
	}
	s.breaker.success()
	return nil
}
