// Package telemetry wires logging, tracing and metrics for toolhost.
//
// Logging goes through goa.design/clue/log with the logger carried in the
// context. Tracing and metrics use the global OpenTelemetry providers, which
// are no-ops unless the process installs real ones.
package telemetry

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"goa.design/clue/log"
)

const instrumentation = "github.com/jbdamask/toolhost"

// LogOptions configures the root logging context.
type LogOptions struct {
	Output io.Writer
	Debug  bool
	JSON   bool
}

// Context returns a context carrying a clue logger. Output defaults to
// stderr since stdout is reserved for the protocol stream.
func Context(ctx context.Context, opts LogOptions) context.Context {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	format := log.FormatTerminal
	if opts.JSON {
		format = log.FormatJSON
	}
	logOpts := []log.LogOption{
		log.WithOutput(out),
		log.WithFormat(format),
		log.WithDisableBuffering(func(context.Context) bool { return true }),
	}
	if opts.Debug {
		logOpts = append(logOpts, log.WithDebug())
	}
	return log.Context(ctx, logOpts...)
}

// Tracer returns the toolhost tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentation)
}

// Count increments the named counter. Tags are key/value pairs.
func Count(ctx context.Context, name string, tags ...string) {
	counter, err := otel.Meter(instrumentation).Int64Counter(name)
	if err != nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(tagsToAttrs(tags)...))
}

// tagsToAttrs converts k1, v1, k2, v2 pairs into attributes. An odd trailing
// key is paired with an empty string.
func tagsToAttrs(tags []string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, (len(tags)+1)/2)
	for i := 0; i < len(tags); i += 2 {
		v := ""
		if i+1 < len(tags) {
			v = tags[i+1]
		}
		attrs = append(attrs, attribute.String(tags[i], v))
	}
	return attrs
}
