package printing

import (
	"context"
	"encoding/json"
	"fmt"
	kafkax "github.com/ariefcatur/go-kot-pos/internal/kafka"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"log"
)

// Station is the kitchen side: it consumes committed tickets and prints each
// event once, even when Kafka redelivers it. A print failure is returned so
// the consumer retries the same message.
type Station struct {
	Redis       *redis.Client
	Out         kot.Printer
	ServiceName string
}

func (s *Station) HandleKotCommitted(ctx context.Context, m kafkago.Message) error {
	var env kot.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// never retried
		log.Printf("printer: skip offset %d: %v", m.Offset, err)
		return nil
	}
	if env.EventType != kot.EventKotCommitted {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.Claim(ctx, s.Redis, dkey, env.CorrelationID, redisx.TTLDedup)
	if err != nil {
		// dedup is best effort
		log.Printf("printer: dedup unavailable for %s: %v", env.EventID, err)
		first = true
	}
	if !first {
		return nil
	}

	t, err := kafkax.UnwrapPayload[kot.Ticket](env.Payload)
	if err != nil {
		log.Printf("printer: skip event %s: %v", env.EventID, err)
		return nil
	}
	if err := s.Out.Print(ctx, t); err != nil {
		_ = s.Redis.Del(ctx, dkey).Err()
		return fmt.Errorf("print kot %s: %w", t.ID, err)
	}
	log.Printf("printer: printed kot %s", t.ID)
	return nil
}
