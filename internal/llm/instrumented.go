package llm

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/rebecaborsan/code-editing-agent/internal/llm"

// InstrumentedAdapter wraps an Adapter with instrumentation.
// Tracks API calls, token usage, latency, and errors using OpenTelemetry metrics.
type InstrumentedAdapter struct {
	adapter  Adapter
	logger   *slog.Logger
	provider string
	model    string

	// In-memory counters (atomic for thread safety, used for Stats)
	totalCalls        atomic.Int64
	totalErrors       atomic.Int64
	totalInputTokens  atomic.Int64
	totalOutputTokens atomic.Int64

	// OTel metrics
	requestCounter     metric.Int64Counter
	errorCounter       metric.Int64Counter
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	latencyHistogram   metric.Float64Histogram
}

// NewInstrumentedAdapter wraps an LLM adapter with instrumentation.
func NewInstrumentedAdapter(adapter Adapter, logger *slog.Logger, provider, model string) *InstrumentedAdapter {
	if logger == nil {
		logger = slog.Default()
	}

	meter := otel.Meter(meterName)

	// Metric creation failures are logged and tolerated; a nil metric is
	// skipped in the recording helpers.
	requestCounter, err := meter.Int64Counter("llm.requests",
		metric.WithDescription("Total number of LLM API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		logger.Warn("failed to create llm.requests metric", "error", err)
	}

	errorCounter, err := meter.Int64Counter("llm.errors",
		metric.WithDescription("Total number of LLM API errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		logger.Warn("failed to create llm.errors metric", "error", err)
	}

	inputTokenCounter, err := meter.Int64Counter("llm.tokens.input",
		metric.WithDescription("Total input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		logger.Warn("failed to create llm.tokens.input metric", "error", err)
	}

	outputTokenCounter, err := meter.Int64Counter("llm.tokens.output",
		metric.WithDescription("Total output tokens consumed"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		logger.Warn("failed to create llm.tokens.output metric", "error", err)
	}

	latencyHistogram, err := meter.Float64Histogram("llm.request.duration",
		metric.WithDescription("LLM request latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logger.Warn("failed to create llm.request.duration metric", "error", err)
	}

	return &InstrumentedAdapter{
		adapter:            adapter,
		logger:             logger,
		provider:           provider,
		model:              model,
		requestCounter:     requestCounter,
		errorCounter:       errorCounter,
		inputTokenCounter:  inputTokenCounter,
		outputTokenCounter: outputTokenCounter,
		latencyHistogram:   latencyHistogram,
	}
}

// safeAddCounter safely adds to a counter, handling nil metrics.
func safeAddCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, value, metric.WithAttributes(attrs...))
	}
}

// safeRecordHistogram safely records to a histogram, handling nil metrics.
func safeRecordHistogram(ctx context.Context, hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if hist != nil {
		hist.Record(ctx, value, metric.WithAttributes(attrs...))
	}
}

// Chat implements Adapter with instrumentation.
func (i *InstrumentedAdapter) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()
	i.totalCalls.Add(1)

	attrs := []attribute.KeyValue{
		attribute.String("llm.provider", i.provider),
		attribute.String("llm.model", i.model),
		attribute.String("operation", "chat"),
	}

	safeAddCounter(ctx, i.requestCounter, 1, attrs...)

	resp, err := i.adapter.Chat(ctx, req)
	duration := time.Since(start)

	latencyAttrs := append(attrs, attribute.Bool("error", err != nil))
	safeRecordHistogram(ctx, i.latencyHistogram, float64(duration.Milliseconds()), latencyAttrs...)

	if err != nil {
		i.totalErrors.Add(1)

		var apiErr APIErrorDetails
		if errors.As(err, &apiErr) {
			errorAttrs := append(attrs, attribute.Int("api_error_code", apiErr.APICode()))
			safeAddCounter(ctx, i.errorCounter, 1, errorAttrs...)
			i.logger.Error("llm_error",
				"error", err,
				"provider", i.provider,
				"model", i.model,
				"api_error_code", apiErr.APICode(),
				"api_error_msg", apiErr.APIMessage(),
				"duration_ms", duration.Milliseconds(),
			)
		} else {
			safeAddCounter(ctx, i.errorCounter, 1, attrs...)
			i.logger.Error("llm_error",
				"error", err,
				"provider", i.provider,
				"model", i.model,
				"duration_ms", duration.Milliseconds(),
			)
		}
		return nil, err
	}

	i.totalInputTokens.Add(int64(resp.Usage.InputTokens))
	i.totalOutputTokens.Add(int64(resp.Usage.OutputTokens))

	safeAddCounter(ctx, i.inputTokenCounter, int64(resp.Usage.InputTokens), attrs...)
	safeAddCounter(ctx, i.outputTokenCounter, int64(resp.Usage.OutputTokens), attrs...)

	return resp, nil
}

// Stats reports the in-memory counters.
type Stats struct {
	TotalCalls        int64
	TotalErrors       int64
	TotalInputTokens  int64
	TotalOutputTokens int64
}

// GetStats returns a snapshot of the in-memory counters.
func (i *InstrumentedAdapter) GetStats() Stats {
	return Stats{
		TotalCalls:        i.totalCalls.Load(),
		TotalErrors:       i.totalErrors.Load(),
		TotalInputTokens:  i.totalInputTokens.Load(),
		TotalOutputTokens: i.totalOutputTokens.Load(),
	}
}
