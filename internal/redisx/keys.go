package redisx

import "time"

const (
	// Commit idempotency: idem:kot:commit:{idempotency key} -> kot_id
	KeyIdemCommit = "idem:kot:commit:%s"

	// Committed ticket cache: kot:{kot_id} -> ticket JSON
	KeyTicket = "kot:%s"

	// Print dedup per consumer: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLTicketCache = 10 * time.Minute
	TTLDedup       = 48 * time.Hour
)
