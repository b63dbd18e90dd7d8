package printing

import (
	"context"
	"fmt"
	kafkax "github.com/ariefcatur/go-kot-pos/internal/kafka"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"time"
)

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header) error
}

// KafkaPrinter is the terminal side of printing: it publishes the committed
// ticket for the print station.
type KafkaPrinter struct {
	Producer Publisher
	Service  string
}

func (p *KafkaPrinter) Print(ctx context.Context, t kot.Ticket) error {
	ev := kot.Envelope{
		EventID:       uuid.NewString(),
		EventType:     kot.EventKotCommitted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		TraceID:       traceID(ctx),
		CorrelationID: t.ID,
		Payload:       kafkax.MustMarshal(t),
	}
	if err := p.Producer.Publish(kot.PartitionKey(t.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(kot.EventKotCommitted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	); err != nil {
		return fmt.Errorf("print %s: %w", t.ID, err)
	}
	return nil
}

type traceKey struct{}

// WithTraceID attaches a request id that is copied into published events.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func traceID(ctx context.Context) string {
	s, _ := ctx.Value(traceKey{}).(string)
	return s
}
