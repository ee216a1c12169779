// Package eventlogtest provides a minimal registered event for exercising
// event log adapters without depending on a concrete aggregate.
package eventlogtest

import (
	"time"

	"policyhub/pkg/platform/eventlog"
)

const (
	AggregateType = "Widget"
	EventType     = "WidgetRenamed"
)

// RenamedPayload is the encoded body of Renamed.
type RenamedPayload struct {
	Name string `json:"name"`
}

// Renamed is a test event.
type Renamed struct {
	meta eventlog.Metadata
	RenamedPayload
}

// NewRenamed builds an event for aggregateID at the given instant.
func NewRenamed(aggregateID, name string, at time.Time) Renamed {
	return Renamed{
		meta:           eventlog.NewMetadata(AggregateType, aggregateID, EventType, at),
		RenamedPayload: RenamedPayload{Name: name},
	}
}

func (e Renamed) Metadata() eventlog.Metadata { return e.meta }
func (e Renamed) Payload() any                { return e.RenamedPayload }

// Registry returns a registry that knows Renamed.
func Registry() *eventlog.Registry {
	reg := eventlog.NewRegistry()
	reg.Register(EventType, eventlog.JSONDecoder(func(meta eventlog.Metadata, p RenamedPayload) eventlog.Event {
		return Renamed{meta: meta, RenamedPayload: p}
	}))
	return reg
}
