package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/annel0/aicup-bot/internal/debug"
	"github.com/annel0/aicup-bot/internal/eventbus"
	"github.com/annel0/aicup-bot/internal/logging"
	"github.com/annel0/aicup-bot/internal/observability"
	"github.com/annel0/aicup-bot/internal/record"
	"github.com/annel0/aicup-bot/internal/replay"
	"github.com/annel0/aicup-bot/internal/strategy"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RecordSink принимает записи решений
type RecordSink interface {
	Save(rec record.Record) error
}

// SinkFunc позволяет использовать функцию как RecordSink
type SinkFunc func(rec record.Record) error

func (f SinkFunc) Save(rec record.Record) error { return f(rec) }

// WriterSink пишет решения в файл реплея
func WriterSink(w *replay.Writer) RecordSink {
	return SinkFunc(w.WriteRecord)
}

// Options настраивает Runner. Все поля, кроме Strategy, необязательны.
type Options struct {
	Strategy *strategy.Strategy
	Metrics  *observability.DecisionMetrics
	Tracer   trace.Tracer
	Bus      eventbus.EventBus
	Sinks    []RecordSink
	Debug    debug.Debug
	Source   string
}

// Runner прогоняет стратегию по кадрам и раздаёт решения получателям
type Runner struct {
	strategy *strategy.Strategy
	metrics  *observability.DecisionMetrics
	tracer   trace.Tracer
	bus      eventbus.EventBus
	sinks    []RecordSink
	dbg      debug.Debug
	source   string
	logger   *logging.Logger
}

// New создаёт Runner
func New(opts Options) *Runner {
	if opts.Strategy == nil {
		opts.Strategy = strategy.NewStrategy(strategy.DefaultConfig())
	}
	if opts.Tracer == nil {
		opts.Tracer = observability.Tracer()
	}
	if opts.Source == "" {
		opts.Source = "aicup-bot"
	}

	return &Runner{
		strategy: opts.Strategy,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		bus:      opts.Bus,
		sinks:    opts.Sinks,
		dbg:      opts.Debug,
		source:   opts.Source,
		logger:   logging.GetRunnerLogger(),
	}
}

// Decide принимает решение для одного кадра.
// Ошибка возвращается только для непригодного кадра или отказа получателя.
func (r *Runner) Decide(ctx context.Context, frame replay.Frame) (record.Record, error) {
	ctx, span := r.tracer.Start(ctx, "strategy.decide", trace.WithAttributes(
		attribute.String("match.id", frame.MatchID),
		attribute.Int("tick", frame.Tick),
		attribute.Int("unit.id", frame.UnitID),
	))
	defer span.End()

	if err := frame.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return record.Record{}, err
	}
	unit, _ := frame.Game.UnitByID(frame.UnitID)

	start := time.Now()
	action, target := r.strategy.Decide(unit, frame.Game, r.dbg)
	elapsed := time.Since(start)

	rec := record.Record{
		MatchID:   frame.MatchID,
		Tick:      frame.Tick,
		UnitID:    frame.UnitID,
		Action:    action,
		Target:    target,
		Elapsed:   elapsed,
		CreatedAt: time.Now().UTC(),
	}

	span.SetAttributes(
		attribute.String("target.kind", target.Kind.String()),
		attribute.Bool("action.shoot", action.Shoot),
		attribute.Bool("action.plant_mine", action.PlantMine),
	)
	r.metrics.Observe(target.Kind.String(), action, elapsed)
	r.logger.Trace("tick=%d unit=%d target=%s pos=%s velocity=%.2f shoot=%t reload=%t",
		frame.Tick, frame.UnitID, target.Kind, target.Position, action.Velocity, action.Shoot, action.Reload)

	for _, sink := range r.sinks {
		if err := sink.Save(rec); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return rec, fmt.Errorf("сохранение решения tick=%d: %w", frame.Tick, err)
		}
	}

	if r.bus != nil {
		ev, err := eventbus.NewDecisionEnvelope(r.source, rec)
		if err == nil {
			err = r.bus.Publish(ctx, ev)
		}
		if err != nil {
			// Шина вспомогательная, решение уже принято
			r.logger.Warn("публикация решения tick=%d: %v", frame.Tick, err)
		}
	}

	return rec, nil
}

// FrameSource отдаёт кадры по одному; конец обозначается io.EOF
type FrameSource interface {
	NextFrame() (replay.Frame, error)
}

// SliceSource перебирает кадры из памяти
type SliceSource struct {
	frames []replay.Frame
	pos    int
}

// NewSliceSource создаёт источник из среза кадров
func NewSliceSource(frames []replay.Frame) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) NextFrame() (replay.Frame, error) {
	if s.pos >= len(s.frames) {
		return replay.Frame{}, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// ReaderSource читает кадры из реплея, пропуская записи решений
type ReaderSource struct {
	r *replay.Reader
}

// NewReaderSource создаёт источник поверх Reader
func NewReaderSource(r *replay.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) NextFrame() (replay.Frame, error) {
	for {
		e, err := s.r.Next()
		if err != nil {
			return replay.Frame{}, err
		}
		if e.Frame != nil {
			return *e.Frame, nil
		}
	}
}

// Run прогоняет все кадры источника. Непригодные кадры пропускаются
// с предупреждением, ошибки чтения и сохранения прерывают прогон.
func (r *Runner) Run(ctx context.Context, matchID string, src FrameSource) (record.Summary, error) {
	if err := record.ValidateMatchID(matchID); err != nil {
		return record.Summary{}, err
	}

	var records []record.Record
	r.publishMatch(ctx, eventbus.EventMatchStarted, matchID)
	defer r.publishMatch(context.WithoutCancel(ctx), eventbus.EventMatchFinished, matchID)

	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return record.Summarize(records), err
		}

		frame, err := src.NextFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return record.Summarize(records), fmt.Errorf("чтение кадра: %w", err)
		}
		if frame.MatchID == "" {
			frame.MatchID = matchID
		}

		rec, err := r.Decide(ctx, frame)
		if err != nil {
			if frame.Validate() != nil {
				skipped++
				r.logger.Warn("кадр пропущен: %v", err)
				continue
			}
			return record.Summarize(records), err
		}
		records = append(records, rec)
	}

	summary := record.Summarize(records)
	r.logger.Info("матч %s: решений %d, пропущено кадров %d", matchID, summary.Decisions, skipped)
	return summary, nil
}

func (r *Runner) publishMatch(ctx context.Context, eventType, matchID string) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, eventbus.NewMatchEnvelope(r.source, eventType, matchID)); err != nil {
		r.logger.Warn("публикация %s: %v", eventType, err)
	}
}
