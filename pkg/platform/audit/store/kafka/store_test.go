package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "mintgate/pkg/platform/audit"
	"mintgate/pkg/platform/sentinel"
)

type stubProducer struct {
	records []*kgo.Record
	err     error
}

func (p *stubProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var out kgo.ProduceResults
	for _, r := range rs {
		if p.err == nil {
			p.records = append(p.records, r)
		}
		out = append(out, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return out
}

func TestStore_AppendProducesKeyedRecord(t *testing.T) {
	prod := &stubProducer{}
	store := New(prod, "mint.audit")
	stage := 1

	event := audit.Event{
		ID:        "evt-1",
		Category:  audit.CategoryOperations,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ActorID:   "0xabc",
		Action:    string(audit.EventTokensMinted),
		Stage:     &stage,
		Quantity:  3,
		Amount:    "1500",
	}
	require.NoError(t, store.Append(context.Background(), event))
	require.Len(t, prod.records, 1)

	rec := prod.records[0]
	assert.Equal(t, "mint.audit", rec.Topic)
	assert.Equal(t, []byte("0xabc"), rec.Key)

	decoded, err := Decode(rec.Value)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestStore_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	prod := &stubProducer{err: errors.New("broker down")}
	store := New(prod, "mint.audit", WithBreaker(2, time.Hour))
	ctx := context.Background()

	require.Error(t, store.Append(ctx, audit.Event{Action: "a"}))
	require.Error(t, store.Append(ctx, audit.Event{Action: "b"}))

	err := store.Append(ctx, audit.Event{Action: "c"})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestStore_BreakerHalfOpensAfterCooldown(t *testing.T) {
	prod := &stubProducer{err: errors.New("broker down")}
	store := New(prod, "mint.audit", WithBreaker(1, time.Minute))
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.breaker.now = func() time.Time { return now }
	ctx := context.Background()

	require.Error(t, store.Append(ctx, audit.Event{Action: "a"}))
	assert.ErrorIs(t, store.Append(ctx, audit.Event{Action: "b"}), ErrCircuitOpen)

	now = now.Add(2 * time.Minute)
	prod.err = nil
	require.NoError(t, store.Append(ctx, audit.Event{Action: "c"}))
	assert.False(t, store.breaker.isOpen())
	assert.Len(t, prod.records, 1)
}
