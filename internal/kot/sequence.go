package kot

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	prefixLayout = "020106" // DDMMYY
	prefixLen    = 6
	seqLen       = 4
	maxSequence  = 9999
)

// SequenceMode decides which stored ids the next sequence is derived from.
type SequenceMode string

const (
	// SequenceDaily only looks at ids carrying today's prefix, so every day
	// starts again at 0001.
	SequenceDaily SequenceMode = "daily"
	// SequenceLegacy continues from the lexicographically greatest id of any
	// date. Kept for stores written by the old terminals.
	SequenceLegacy SequenceMode = "legacy"
)

func ParseSequenceMode(s string) (SequenceMode, error) {
	switch SequenceMode(s) {
	case SequenceDaily, SequenceLegacy:
		return SequenceMode(s), nil
	}
	return "", fmt.Errorf("unknown sequence mode %q", s)
}

// IDLister returns stored ticket ids in descending byte order. An empty
// prefix means all ids.
type IDLister interface {
	ListIDsDescending(ctx context.Context, prefix string, limit int) ([]string, error)
}

type Sequencer struct {
	Store    IDLister
	Mode     SequenceMode
	Location *time.Location
}

// Next allocates the next ticket id for the given day. It only reads; the
// id is not reserved until the ticket is persisted.
func (s *Sequencer) Next(ctx context.Context, today time.Time) (string, error) {
	if s.Location != nil {
		today = today.In(s.Location)
	}
	scan := Prefix(today)
	if s.Mode == SequenceLegacy {
		scan = ""
	}
	ids, err := s.Store.ListIDsDescending(ctx, scan, 1)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSequencerUnavailable, err)
	}
	return NextID(ids, today)
}

// Prefix formats the DDMMYY part of a ticket id.
func Prefix(day time.Time) string {
	return day.Format(prefixLayout)
}

// NextID derives the id following the first (greatest) of existing, using
// today's prefix. The suffix of the latest id is incremented whatever its
// date prefix is.
func NextID(existing []string, today time.Time) (string, error) {
	seq := 1
	if len(existing) > 0 {
		last := existing[0]
		if !ValidID(last) {
			return "", fmt.Errorf("%w: malformed stored id %q", ErrSequencerUnavailable, last)
		}
		n, err := strconv.Atoi(last[prefixLen:])
		if err != nil {
			return "", fmt.Errorf("%w: malformed stored id %q", ErrSequencerUnavailable, last)
		}
		seq = n + 1
	}
	if seq > maxSequence {
		return "", fmt.Errorf("%w: %s", ErrSequenceExhausted, Prefix(today))
	}
	return fmt.Sprintf("%s%0*d", Prefix(today), seqLen, seq), nil
}

// ValidID reports whether id is exactly ten ASCII digits.
func ValidID(id string) bool {
	if len(id) != prefixLen+seqLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
