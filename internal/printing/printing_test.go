package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/ariefcatur/go-kot-pos/internal/kot/kottest"
	"github.com/ariefcatur/go-kot-pos/internal/redisx"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func wrapTicket() kot.Ticket {
	return kot.Ticket{
		ID: "2405240007",
		Items: []kot.LineItem{
			{ItemID: "wrap", Name: "Chicken Wrap", PriceCents: 450, Qty: 2, Option: kot.Opt("BBQ")},
			{ItemID: "fries", Name: "Fries", PriceCents: 199, Qty: 1},
		},
		TotalCents:    1099,
		PaymentMethod: kot.MethodCash,
		CreatedAt:     time.Date(2024, 5, 24, 12, 30, 0, 0, time.UTC),
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "£4.50", Money(450))
	assert.Equal(t, "£0.00", Money(0))
	assert.Equal(t, "£120.05", Money(12005))
}

func TestRender(t *testing.T) {
	out := Render(wrapTicket())
	assert.Contains(t, out, "KOT #2405240007\n")
	assert.Contains(t, out, "24/05/2024 12:30")
	assert.Regexp(t, `2x Chicken Wrap \(BBQ\)\s+£9\.00`, out)
	assert.Regexp(t, `1x Fries\s+£1\.99`, out)
	assert.Regexp(t, `Total:\s+£10\.99`, out)
	assert.Contains(t, out, "Paid: Cash")
}

func TestWriterPrinter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriterPrinter{W: &buf}.Print(context.Background(), wrapTicket()))
	assert.Contains(t, buf.String(), "KOT #2405240007")
}

type fakePublisher struct {
	err  error
	key  []byte
	msgs [][]byte
}

func (p *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) error {
	if p.err != nil {
		return p.err
	}
	p.key = key
	p.msgs = append(p.msgs, value)
	return nil
}

func TestKafkaPrinterPublishesEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	p := &KafkaPrinter{Producer: pub, Service: "kot-api"}

	ctx := WithTraceID(context.Background(), "req-1")
	require.NoError(t, p.Print(ctx, wrapTicket()))
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "2405240007", string(pub.key))

	var env kot.Envelope
	require.NoError(t, json.Unmarshal(pub.msgs[0], &env))
	assert.Equal(t, kot.EventKotCommitted, env.EventType)
	assert.Equal(t, "kot-api", env.Producer)
	assert.Equal(t, "req-1", env.TraceID)
	assert.Equal(t, "2405240007", env.CorrelationID)
	assert.NotEmpty(t, env.EventID)

	var tk kot.Ticket
	require.NoError(t, json.Unmarshal(env.Payload, &tk))
	assert.Equal(t, int64(1099), tk.TotalCents)
	assert.Equal(t, "BBQ", *tk.Items[0].Option)
	assert.Nil(t, tk.Items[1].Option)
}

func TestKafkaPrinterPublishError(t *testing.T) {
	p := &KafkaPrinter{Producer: &fakePublisher{err: errors.New("backlog full")}}
	err := p.Print(context.Background(), wrapTicket())
	assert.ErrorContains(t, err, "backlog full")
}

func newStation(t *testing.T, out kot.Printer) (*Station, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redisx.New(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })
	return &Station{Redis: rdb, Out: out, ServiceName: "printer"}, mr
}

func committedMessage(t *testing.T, eventID string) kafkago.Message {
	t.Helper()
	pub := &fakePublisher{}
	require.NoError(t, (&KafkaPrinter{Producer: pub, Service: "kot-api"}).Print(context.Background(), wrapTicket()))
	var env kot.Envelope
	require.NoError(t, json.Unmarshal(pub.msgs[0], &env))
	env.EventID = eventID
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Value: b}
}

func TestStationPrintsOnce(t *testing.T) {
	out := &kottest.Printer{}
	s, mr := newStation(t, out)
	m := committedMessage(t, "ev-1")

	require.NoError(t, s.HandleKotCommitted(context.Background(), m))
	require.NoError(t, s.HandleKotCommitted(context.Background(), m))

	require.Len(t, out.Printed, 1)
	assert.Equal(t, "2405240007", out.Printed[0].ID)
	assert.True(t, mr.Exists(fmt.Sprintf(redisx.KeyDedup, "printer", "ev-1")))
}

func TestStationReleasesClaimOnPrintFailure(t *testing.T) {
	out := &kottest.Printer{Err: errors.New("offline")}
	s, mr := newStation(t, out)
	m := committedMessage(t, "ev-2")

	err := s.HandleKotCommitted(context.Background(), m)
	assert.ErrorContains(t, err, "offline")
	assert.False(t, mr.Exists(fmt.Sprintf(redisx.KeyDedup, "printer", "ev-2")))

	out.Err = nil
	require.NoError(t, s.HandleKotCommitted(context.Background(), m))
	assert.Len(t, out.Printed, 1)
}

func TestStationIgnoresOtherEvents(t *testing.T) {
	out := &kottest.Printer{}
	s, _ := newStation(t, out)
	b, err := json.Marshal(kot.Envelope{EventID: "x", EventType: "SomethingElse"})
	require.NoError(t, err)

	require.NoError(t, s.HandleKotCommitted(context.Background(), kafkago.Message{Value: b}))
	assert.Empty(t, out.Printed)

	require.NoError(t, s.HandleKotCommitted(context.Background(), kafkago.Message{Value: []byte("not json")}))
	assert.Empty(t, out.Printed)
}
