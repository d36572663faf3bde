package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/application"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/domain"
	"github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/ports"
)

const tracerName = "github.com/MR-MonkeyRay/emojikitchen/internal/domains/kitchen/adapters/observability/service"

// Service decorates the kitchen application port with tracing, logging, and
// metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Resolve resolves the pair with instrumentation.
func (s *Service) Resolve(ctx context.Context, input ports.ResolveInput) (*ports.Resolution, error) {
	key := string(input.Pair.Key())
	ctx, span := s.startSpan(ctx, "Service.Resolve", attribute.String("pair.key", key))
	defer span.End()

	result, err := s.inner.Resolve(ctx, input)
	switch {
	case errors.Is(err, application.ErrNoCombination):
		span.SetAttributes(attribute.String("resolve.outcome", "notfound"))
		s.metrics.recordResolve(ctx, "notfound")
		s.logInfo(ctx, "no combination for pair", slog.String("pair.key", key))
		return nil, err
	case err != nil:
		s.metrics.recordResolve(ctx, "error")
		return nil, s.handleError(ctx, span, err, "failed to resolve pair", slog.String("pair.key", key))
	}
	outcome := "probed"
	if result.FromCache {
		outcome = "cache"
	}
	span.SetAttributes(
		attribute.String("resolve.outcome", outcome),
		attribute.String("resolve.source_date", result.SourceDate.String()),
	)
	s.metrics.recordResolve(ctx, outcome)
	s.logInfo(ctx, "pair resolved",
		slog.String("pair.key", key),
		slog.String("source_date", result.SourceDate.String()),
		slog.Bool("from_cache", result.FromCache))
	return result, nil
}

// RefreshDates refreshes the candidate list with instrumentation.
func (s *Service) RefreshDates(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "Service.RefreshDates")
	defer span.End()

	size, err := s.inner.RefreshDates(ctx)
	if err != nil {
		return size, s.handleError(ctx, span, err, "failed to refresh candidate dates")
	}
	span.SetAttributes(attribute.Int("dates.count", size))
	s.metrics.recordRefresh(ctx)
	s.logInfo(ctx, "candidate dates refreshed", slog.Int("count", size))
	return size, nil
}

// CandidateDates exposes the current snapshot.
func (s *Service) CandidateDates(ctx context.Context) []domain.CandidateDate {
	return s.inner.CandidateDates(ctx)
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	resolved  metric.Int64Counter
	refreshes metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	resolved, _ := m.Int64Counter("kitchen.service.resolved", metric.WithDescription("Number of resolve calls by outcome"))
	refreshes, _ := m.Int64Counter("kitchen.service.date_refreshes", metric.WithDescription("Number of candidate date refreshes"))
	return serviceMetrics{resolved: resolved, refreshes: refreshes}
}

func (m serviceMetrics) recordResolve(ctx context.Context, outcome string) {
	addCounter(ctx, m.resolved, 1, attribute.String("resolve.outcome", outcome))
}

func (m serviceMetrics) recordRefresh(ctx context.Context) {
	addCounter(ctx, m.refreshes, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
