package kot

import (
	"encoding/json"
	"time"
)

const (
	EventKotCommitted = "KotCommitted"
	TopicKotCommitted = "kot.committed"
)

// Envelope wraps every event published by the terminal.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // kot_id
	Payload       json.RawMessage `json:"payload"`
}

// PartitionKey keeps all events of one ticket on one partition.
func PartitionKey(kotID string) []byte { return []byte(kotID) }
