package eventbus

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/annel0/aicup-bot/internal/logging"
	"github.com/annel0/aicup-bot/internal/model"
	"github.com/annel0/aicup-bot/internal/record"
	"github.com/annel0/aicup-bot/internal/strategy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logging.Configure("", logging.ERROR, logging.ERROR)
	os.Exit(m.Run())
}

type collector struct {
	mu     sync.Mutex
	events []*Envelope
}

func (c *collector) handle(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestMemoryBus_DeliversByFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	ctx := context.Background()

	var all, decisions, match2 collector
	_, err := bus.Subscribe(ctx, Filter{}, all.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, Filter{Types: []string{EventDecision}}, decisions.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, Filter{Matches: []string{"m2"}}, match2.handle)
	require.NoError(t, err)

	ev, err := NewDecisionEnvelope("bot-1", record.Record{MatchID: "m1", Tick: 1})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, ev))
	require.NoError(t, bus.Publish(ctx, NewMatchEnvelope("bot-1", EventMatchStarted, "m2")))

	require.NoError(t, bus.Close())

	assert.Equal(t, 2, all.len())
	assert.Equal(t, 1, decisions.len())
	assert.Equal(t, 1, match2.len())

	stats := bus.Metrics()
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(4), stats.Consumed)
	assert.ErrorIs(t, bus.Publish(ctx, ev), ErrBusClosed)
	assert.NoError(t, bus.Close())
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()
	ctx := context.Background()

	var c collector
	sub, err := bus.Subscribe(ctx, Filter{}, c.handle)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, NewMatchEnvelope("bot", EventMatchStarted, "m")))
	assert.Eventually(t, func() bool { return c.len() == 1 }, time.Second, 5*time.Millisecond)

	sub.Unsubscribe()
	require.NoError(t, bus.Publish(ctx, NewMatchEnvelope("bot", EventMatchFinished, "m")))
	assert.Eventually(t, func() bool { return bus.Metrics().InFlight == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, c.len())
}

func TestDecisionEnvelope_RoundTrip(t *testing.T) {
	rec := record.Record{
		MatchID: "m1",
		Tick:    42,
		UnitID:  7,
		Action:  model.UnitAction{Velocity: -3, PlantMine: true},
		Target:  strategy.Target{Kind: strategy.TargetHealthPack},
	}

	ev, err := NewDecisionEnvelope("bot", rec)
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "42", ev.Metadata["tick"])
	assert.Equal(t, "health_pack", ev.Metadata["target"])

	decoded, err := DecodeDecision(ev)
	require.NoError(t, err)
	assert.Equal(t, rec.Action, decoded.Action)
	assert.Equal(t, rec.Tick, decoded.Tick)

	_, err = DecodeDecision(NewMatchEnvelope("bot", EventMatchStarted, "m1"))
	assert.Error(t, err)
}

func TestMetricsExporter_Collect(t *testing.T) {
	reg := prometheus.NewRegistry()
	bus := NewMemoryBus(8)
	exporter := NewMetricsExporter(bus, reg)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, NewMatchEnvelope("bot", EventMatchStarted, "m")))
	require.NoError(t, bus.Publish(ctx, NewMatchEnvelope("bot", EventMatchFinished, "m")))
	require.NoError(t, bus.Close())

	exporter.Collect()
	exporter.Collect()
	assert.Equal(t, 2.0, testutil.ToFloat64(exporter.published))
	assert.Equal(t, 0.0, testutil.ToFloat64(exporter.inflight))

	exporter.Start(time.Millisecond)
	exporter.Stop()
	assert.Equal(t, 2.0, testutil.ToFloat64(exporter.published))
}

func TestLoggingListener(t *testing.T) {
	var out syncBuffer
	logging.GetLoggerManager().SetLogger("eventbus", logging.NewWriterLogger("eventbus", &out, logging.TRACE))

	bus := NewMemoryBus(4)
	sub, err := StartLoggingListener(bus)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	ev, err := NewDecisionEnvelope("bot", record.Record{MatchID: "m7", Tick: 9, UnitID: 1,
		Target: strategy.Target{Kind: strategy.TargetEnemy}})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))
	require.NoError(t, bus.Publish(context.Background(), NewMatchEnvelope("bot", EventMatchFinished, "m7")))
	require.NoError(t, bus.Close())

	logged := out.String()
	assert.Contains(t, logged, "decision match=m7 tick=9 unit=1 target=enemy")
	assert.Contains(t, logged, "match_finished match=m7 src=bot")
}

// syncBuffer bytes.Buffer с блокировкой для записи из обработчиков
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
