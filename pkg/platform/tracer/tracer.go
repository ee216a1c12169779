// Package tracer provides a lightweight tracing abstraction for policy holder commands.
//
// The interface does not depend on OpenTelemetry APIs, so services can emit spans
// while staying decoupled from the tracing backend.
//
// Implementations:
//   - NoopTracer: for tests (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	//
	// Example:
	//   ctx, span := tracer.Start(ctx, tracer.SpanRegister,
	//       tracer.String(tracer.AttrNationalID, tracer.HashNationalID(nid)),
	//   )
	//   defer func() { span.End(err) }()
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute, stored as int64.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashNationalID returns a truncated SHA-256 hash of the national ID so traces
// can be correlated without carrying the identifier itself.
func HashNationalID(nationalID string) string {
	if nationalID == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(nationalID))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the policy holder service.
const (
	SpanRegister          = "policyholder.register"
	SpanAddPolicy         = "policyholder.add_policy"
	SpanUpdateContactInfo = "policyholder.update_contact_info"
	SpanUpdateAddress     = "policyholder.update_address"
	SpanDeactivate        = "policyholder.deactivate"
	SpanTerminatePolicy   = "policyholder.terminate_policy"
	SpanPublishEvents     = "policyholder.publish_events"
)

// Attribute keys used by the policy holder service.
const (
	AttrNationalID     = "national_id"
	AttrPolicyHolderID = "policy_holder.id"
	AttrPolicyID       = "policy.id"
	AttrPolicyType     = "policy.type"
	AttrStatus         = "policy_holder.status"
	AttrVersion        = "policy_holder.version"
	AttrEventCount     = "events.count"
)

// Event names recorded on spans.
const (
	EventPersisted = "aggregate.persisted"
)
