// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package convotel provides OpenTelemetry instrumentation for arrowconv
// conversions. It implements the [arrowconv.ConvertHook] interface to add
// tracing and metrics to whole-column encodes and decodes.
//
// Usage:
//
//	hook := convotel.NewHook(convotel.DefaultConfig())
//	arr, err := arrowconv.Encode(values, arrowconv.WithHook(hook), arrowconv.WithContext(ctx))
package convotel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Query-farm/arrowconv/arrowconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "arrowconv"

// Config configures OpenTelemetry instrumentation of conversions.
type Config struct {
	// TracerProvider supplies the tracer. Defaults to otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
	// MeterProvider supplies the meter. Defaults to otel.GetMeterProvider().
	MeterProvider metric.MeterProvider
	// EnableTracing enables span creation. Default true.
	EnableTracing bool
	// EnableMetrics enables counter and histogram recording. Default true.
	EnableMetrics bool
	// RecordExceptions calls RecordError on the span for failed conversions.
	// Default true.
	RecordExceptions bool
	// Component is the arrowconv.component attribute value. Defaults to
	// "arrowconv".
	Component string
	// CustomAttributes are added to every span.
	CustomAttributes []attribute.KeyValue
}

// DefaultConfig returns a Config with sensible defaults. TracerProvider and
// MeterProvider are resolved from the global OTel SDK in NewHook.
func DefaultConfig() Config {
	return Config{
		EnableTracing:    true,
		EnableMetrics:    true,
		RecordExceptions: true,
	}
}

// NewHook returns a hook recording one span and one set of metrics per
// conversion. Pass it to conversions with [arrowconv.WithHook].
func NewHook(cfg Config) arrowconv.ConvertHook {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}
	if cfg.Component == "" {
		cfg.Component = instrumentationName
	}

	hook := &otelHook{
		cfg:    cfg,
		tracer: cfg.TracerProvider.Tracer(instrumentationName),
	}

	if cfg.EnableMetrics {
		meter := cfg.MeterProvider.Meter(instrumentationName)
		hook.conversionCounter, _ = meter.Int64Counter("arrowconv.conversions",
			metric.WithUnit("{conversion}"),
			metric.WithDescription("Number of column conversions"),
		)
		hook.rowCounter, _ = meter.Int64Counter("arrowconv.rows",
			metric.WithUnit("{row}"),
			metric.WithDescription("Number of rows converted"),
		)
		hook.durationHistogram, _ = meter.Float64Histogram("arrowconv.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of column conversions"),
		)
	}

	return hook
}

// otelHook implements arrowconv.ConvertHook with OpenTelemetry tracing and metrics.
type otelHook struct {
	cfg               Config
	tracer            trace.Tracer
	conversionCounter metric.Int64Counter
	rowCounter        metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

// spanToken is the HookToken returned by OnConvertStart.
type spanToken struct {
	span      trace.Span
	startTime time.Time
}

// OnConvertStart starts an internal span named after the direction.
func (h *otelHook) OnConvertStart(ctx context.Context, info arrowconv.ConvertInfo) (context.Context, arrowconv.HookToken) {
	if !h.cfg.EnableTracing {
		return ctx, &spanToken{startTime: time.Now()}
	}

	attrs := []attribute.KeyValue{
		attribute.String("arrowconv.component", h.cfg.Component),
		attribute.String("arrowconv.direction", info.Direction),
		attribute.String("arrowconv.data_type", info.TypeName()),
		attribute.Bool("arrowconv.nullable", info.Nullable),
	}
	attrs = append(attrs, h.cfg.CustomAttributes...)

	ctx, span := h.tracer.Start(ctx, fmt.Sprintf("arrowconv/%s", info.Direction),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return ctx, &spanToken{span: span, startTime: time.Now()}
}

// OnConvertEnd records span attributes and metrics, and ends the span.
func (h *otelHook) OnConvertEnd(ctx context.Context, token arrowconv.HookToken, info arrowconv.ConvertInfo, stats *arrowconv.ConvertStatistics, err error) {
	st, ok := token.(*spanToken)
	if !ok {
		return
	}

	duration := time.Since(st.startTime)

	status := "ok"
	if err != nil {
		status = "error"
	}

	if h.cfg.EnableMetrics {
		metricAttrs := metric.WithAttributes(
			attribute.String("arrowconv.component", h.cfg.Component),
			attribute.String("arrowconv.direction", info.Direction),
			attribute.String("arrowconv.data_type", info.TypeName()),
			attribute.String("status", status),
		)
		if h.conversionCounter != nil {
			h.conversionCounter.Add(ctx, 1, metricAttrs)
		}
		if h.rowCounter != nil && stats != nil {
			h.rowCounter.Add(ctx, stats.Rows, metricAttrs)
		}
		if h.durationHistogram != nil {
			h.durationHistogram.Record(ctx, duration.Seconds(), metricAttrs)
		}
	}

	if st.span == nil {
		return
	}
	if st.span.IsRecording() {
		if stats != nil {
			st.span.SetAttributes(
				attribute.Int64("arrowconv.rows", stats.Rows),
				attribute.Int64("arrowconv.nulls", stats.Nulls),
				attribute.Int64("arrowconv.bytes", stats.Bytes),
			)
		}

		if err != nil {
			st.span.SetStatus(codes.Error, err.Error())
			if h.cfg.RecordExceptions {
				st.span.RecordError(err)
			}
			st.span.SetAttributes(attribute.String("arrowconv.error_type", errorType(err)))
		} else {
			st.span.SetStatus(codes.Ok, "")
		}
	}
	st.span.End()
}

// errorType classifies err by the arrowconv sentinel it wraps.
func errorType(err error) string {
	switch {
	case errors.Is(err, arrowconv.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, arrowconv.ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, arrowconv.ErrUnexpectedNull):
		return "unexpected_null"
	case errors.Is(err, arrowconv.ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, arrowconv.ErrBuilderFinalized):
		return "builder_finalized"
	default:
		return fmt.Sprintf("%T", err)
	}
}
