package plugctx

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for invocation metrics.
const meterName = "github.com/NDevTK/gerrit/plugctx"

var (
	metricsOnce sync.Once

	// gerrit.plugin.duration: invocation time in seconds, attributes
	// plugin and status ("ok" or "error").
	invocationDuration metric.Float64Histogram

	// gerrit.plugin.invocations: total invocations, same attributes.
	invocationCount metric.Int64Counter
)

// instruments are created once from the global MeterProvider. On error the
// OTel API returns noop instruments, so recording degrades gracefully when
// no provider is configured.
func instruments() (metric.Float64Histogram, metric.Int64Counter) {
	metricsOnce.Do(func() {
		meter := otel.Meter(meterName)
		invocationDuration, _ = meter.Float64Histogram(
			"gerrit.plugin.duration",
			metric.WithDescription("Duration of plugin extension invocations in seconds"),
			metric.WithUnit("s"),
		)
		invocationCount, _ = meter.Int64Counter(
			"gerrit.plugin.invocations",
			metric.WithDescription("Total number of plugin extension invocations"),
			metric.WithUnit("{invocation}"),
		)
	})
	return invocationDuration, invocationCount
}

func record(ctx context.Context, pluginName string, err error, elapsed time.Duration) {
	duration, count := instruments()

	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("plugin", pluginName),
		attribute.String("status", status),
	)

	duration.Record(ctx, elapsed.Seconds(), attrs)
	count.Add(ctx, 1, attrs)
}
