package eventlog

import (
	"bytes"
	"encoding/json"
	"sync"

	dErrors "policyhub/pkg/domain-errors"
)

// DecodeFunc rebuilds a concrete event from its metadata and encoded payload.
type DecodeFunc func(meta Metadata, payload []byte) (Event, error)

// Registry maps event type tags to decoders. Encoding is only allowed for
// registered types so that everything written can be read back.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]DecodeFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]DecodeFunc)}
}

// Register binds an event type tag to its decoder. Registering a tag twice replaces the decoder.
func (r *Registry) Register(eventType string, decode DecodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[eventType] = decode
}

// Registered reports whether a decoder exists for eventType.
func (r *Registry) Registered(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.decoders[eventType]
	return ok
}

// Encode converts an event into its persisted record.
func (r *Registry) Encode(event Event) (Record, error) {
	if event == nil {
		return Record{}, dErrors.New(dErrors.CodeInvariantViolation, "cannot encode nil event")
	}
	meta := event.Metadata()
	if meta.EventType == "" || meta.AggregateID == "" || meta.AggregateType == "" {
		return Record{}, dErrors.New(dErrors.CodeInvariantViolation, "event metadata is incomplete")
	}
	if !r.Registered(meta.EventType) {
		return Record{}, dErrors.Newf(dErrors.CodeInvariantViolation, "event type %q is not registered", meta.EventType)
	}
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "encode event payload")
	}
	return Record{
		EventID:       meta.EventID,
		AggregateID:   meta.AggregateID,
		AggregateType: meta.AggregateType,
		EventType:     meta.EventType,
		Payload:       payload,
		OccurredOn:    meta.OccurredOn.UTC(),
	}, nil
}

// EncodeAll encodes every event or none.
func (r *Registry) EncodeAll(events []Event) ([]Record, error) {
	records := make([]Record, 0, len(events))
	for _, e := range events {
		rec, err := r.Encode(e)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Decode rebuilds the concrete event for a record.
//
// Errors: an unknown event type or an unreadable payload returns CodeDeserialization.
// Callers must surface it; records are never skipped.
func (r *Registry) Decode(rec Record) (Event, error) {
	r.mu.RLock()
	decode, ok := r.decoders[rec.EventType]
	r.mu.RUnlock()
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeDeserialization, "unknown event type %q for event %s", rec.EventType, rec.EventID)
	}
	meta := Metadata{
		EventID:       rec.EventID,
		OccurredOn:    rec.OccurredOn.UTC(),
		AggregateID:   rec.AggregateID,
		AggregateType: rec.AggregateType,
		EventType:     rec.EventType,
	}
	event, err := decode(meta, rec.Payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDeserialization, "decode event "+rec.EventID.String()+" of type "+rec.EventType)
	}
	return event, nil
}

// DecodeAll decodes records in order, failing on the first unreadable one.
func (r *Registry) DecodeAll(records []Record) ([]Event, error) {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		e, err := r.Decode(rec)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// JSONDecoder builds a DecodeFunc for payload type P. Unknown fields are
// rejected so that a payload written for a different shape is not half-read.
func JSONDecoder[P any](build func(meta Metadata, payload P) Event) DecodeFunc {
	return func(meta Metadata, raw []byte) (Event, error) {
		var p P
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, err
		}
		return build(meta, p), nil
	}
}
