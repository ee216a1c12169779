package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "policyhub/pkg/domain-errors"
)

// InstrumentationName identifies policyhub spans to the tracer provider.
const InstrumentationName = "policyhub/policyholder"

// AttrErrorCode carries the domain error code of a failed command.
const AttrErrorCode = "error.code"

// OTelTracer emits command spans through an OpenTelemetry tracer provider.
//
// A command rejected by the caller's input (validation, conflict, not found,
// illegal state) ends with its error code recorded and the status left unset.
// Only failures on our side (internal, timeout, invariant) mark the span as
// an error, so error-rate views track server faults rather than bad requests.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTel takes its tracer from provider, or from the global provider when
// provider is nil.
func NewOTel(provider trace.TracerProvider) *OTelTracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &OTelTracer{tracer: provider.Tracer(InstrumentationName)}
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(keyValues(attrs)...),
	)
	return ctx, commandSpan{span: span}
}

type commandSpan struct {
	span trace.Span
}

func (s commandSpan) End(err error) {
	if err != nil {
		code := dErrors.CodeOf(err)
		s.span.SetAttributes(attribute.String(AttrErrorCode, string(code)))
		if serverFault(code) {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
		}
	}
	s.span.End()
}

func (s commandSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(keyValues(attrs)...)
}

func (s commandSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(keyValues(attrs)...))
}

func serverFault(code dErrors.Code) bool {
	switch code {
	case dErrors.CodeInternal, dErrors.CodeTimeout, dErrors.CodeInvariantViolation:
		return true
	default:
		return false
	}
}

// keyValues drops attributes whose value type has no OpenTelemetry equivalent.
func keyValues(attrs []Attribute) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			kvs = append(kvs, attribute.String(a.Key, v))
		case bool:
			kvs = append(kvs, attribute.Bool(a.Key, v))
		case int64:
			kvs = append(kvs, attribute.Int64(a.Key, v))
		case float64:
			kvs = append(kvs, attribute.Float64(a.Key, v))
		case []string:
			kvs = append(kvs, attribute.StringSlice(a.Key, v))
		}
	}
	return kvs
}

var (
	_ Tracer = (*OTelTracer)(nil)
	_ Span   = commandSpan{}
)
