package tools

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"goa.design/clue/log"

	"github.com/jbdamask/toolhost/pkg/telemetry"
)

// Invoke is the outermost boundary of every tool call. It never panics and
// never returns an error: failures of any kind come back as text starting
// with FailureMarker, and the full detail goes to the log.
func Invoke(ctx context.Context, t Tool, args map[string]interface{}) (out string) {
	name := t.Definition().Name
	ctx = log.With(ctx, log.KV{K: "tool", V: name}, log.KV{K: "invocation", V: uuid.NewString()})
	ctx, span := telemetry.Tracer().Start(ctx, "tool."+name)
	start := time.Now()
	outcome := outcomeOK

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			log.Error(ctx, err,
				log.KV{K: "msg", V: "tool panicked"},
				log.KV{K: "stack", V: string(debug.Stack())},
			)
			span.RecordError(err)
			outcome = outcomeUnexpected
			out = fmt.Sprintf("%s Unexpected error in %s: internal failure", FailureMarker, name)
		}
		if outcome != outcomeOK {
			span.SetStatus(codes.Error, outcome)
		}
		span.SetAttributes(attribute.String("outcome", outcome))
		span.End()
		telemetry.Count(ctx, "toolhost.tool.invocations", "tool", name, "outcome", outcome)
		log.Info(ctx,
			log.KV{K: "msg", V: "tool finished"},
			log.KV{K: "outcome", V: outcome},
			log.KV{K: "duration_ms", V: time.Since(start).Milliseconds()},
		)
	}()

	if args == nil {
		args = map[string]interface{}{}
	}
	text, err := t.Execute(ctx, args)
	if err == nil {
		return text
	}

	outcome = classify(err)
	switch outcome {
	case outcomeInvalidInput, outcomeNoBackend, outcomeNotConfigured:
		log.Warn(ctx, log.KV{K: "msg", V: "tool rejected call"}, log.KV{K: "err", V: err.Error()})
	default:
		span.RecordError(err)
		log.Error(ctx, err, log.KV{K: "msg", V: "tool failed"})
	}
	return Describe(name, err)
}
