package kot_test

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/kot/kottest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestNextID(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		today    time.Time
		want     string
	}{
		{"continues today", []string{"2405240005"}, day(2024, time.May, 24), "2405240006"},
		{"first ever", nil, day(2025, time.January, 1), "0101250001"},
		{"suffix of another day", []string{"3112240042"}, day(2025, time.January, 1), "0101250043"},
		{"only first id counts", []string{"2405240009", "2405240100"}, day(2024, time.May, 24), "2405240010"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := kot.NextID(tc.existing, tc.today)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.True(t, kot.ValidID(got))
		})
	}
}

func TestNextIDMalformed(t *testing.T) {
	for _, bad := range []string{"24052400x1", "240524001", ""} {
		_, err := kot.NextID([]string{bad}, day(2024, time.May, 24))
		assert.ErrorIs(t, err, kot.ErrSequencerUnavailable, bad)
	}
}

func TestNextIDExhausted(t *testing.T) {
	_, err := kot.NextID([]string{"2405249999"}, day(2024, time.May, 24))
	assert.ErrorIs(t, err, kot.ErrSequenceExhausted)
}

func TestSequencerDailyScopesToToday(t *testing.T) {
	store := kottest.NewStore("3112240042", "0101250003")
	seq := &kot.Sequencer{Store: store, Mode: kot.SequenceDaily}

	id, err := seq.Next(context.Background(), day(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, "0101250004", id)

	id, err = seq.Next(context.Background(), day(2025, time.January, 2))
	require.NoError(t, err)
	assert.Equal(t, "0201250001", id)
}

func TestSequencerLegacyUsesGreatestID(t *testing.T) {
	// "3112240042" sorts above "0101250003" even though it is older.
	store := kottest.NewStore("3112240042", "0101250003")
	seq := &kot.Sequencer{Store: store, Mode: kot.SequenceLegacy}

	id, err := seq.Next(context.Background(), day(2025, time.January, 2))
	require.NoError(t, err)
	assert.Equal(t, "0201250043", id)
}

func TestSequencerStoreFailure(t *testing.T) {
	store := kottest.NewStore()
	store.ListErr = errors.New("connection refused")
	seq := &kot.Sequencer{Store: store, Mode: kot.SequenceDaily}

	_, err := seq.Next(context.Background(), day(2024, time.May, 24))
	assert.ErrorIs(t, err, kot.ErrSequencerUnavailable)
	assert.True(t, kot.IsStore(err))
}

func TestSequencerUsesLocation(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	seq := &kot.Sequencer{Store: kottest.NewStore(), Mode: kot.SequenceDaily, Location: london}

	// 23:30 UTC on 24 May is 00:30 BST on 25 May.
	id, err := seq.Next(context.Background(), time.Date(2024, time.May, 24, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2505240001", id)
}

func TestParseSequenceMode(t *testing.T) {
	m, err := kot.ParseSequenceMode("legacy")
	require.NoError(t, err)
	assert.Equal(t, kot.SequenceLegacy, m)

	_, err = kot.ParseSequenceMode("weekly")
	assert.Error(t, err)
}
