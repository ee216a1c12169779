package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "policyhub/pkg/domain"
	"policyhub/pkg/platform/eventlog"
)

// Domain events capture what happened to a policy holder. They are pure data;
// the application layer drains them from the aggregate and hands them to the publisher.

const AggregateType = "PolicyHolder"

const (
	EventPolicyHolderCreated = "PolicyHolderCreated"
	EventPolicyHolderUpdated = "PolicyHolderUpdated"
	EventPolicyHolderDeleted = "PolicyHolderDeleted"
	EventPolicyAdded         = "PolicyAdded"
	EventPolicyTerminated    = "PolicyTerminated"
)

func newMetadata(holderID id.PolicyHolderID, eventType string, now time.Time) eventlog.Metadata {
	return eventlog.NewMetadata(AggregateType, holderID.String(), eventType, now)
}

// PolicyHolderCreatedPayload stores the masked national id only.
type PolicyHolderCreatedPayload struct {
	NationalIDMasked string    `json:"national_id_masked"`
	Name             string    `json:"name"`
	Gender           Gender    `json:"gender"`
	BirthDate        time.Time `json:"birth_date"`
	Mobile           string    `json:"mobile"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address"`
}

// PolicyHolderCreated is emitted when a holder is registered.
type PolicyHolderCreated struct {
	meta eventlog.Metadata
	PolicyHolderCreatedPayload
}

func (e PolicyHolderCreated) Metadata() eventlog.Metadata { return e.meta }
func (e PolicyHolderCreated) Payload() any                { return e.PolicyHolderCreatedPayload }

// PolicyHolderUpdatedPayload carries the full contact and address after the change.
type PolicyHolderUpdatedPayload struct {
	Changed  string `json:"changed"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email,omitempty"`
	ZipCode  string `json:"zip_code"`
	City     string `json:"city"`
	District string `json:"district"`
	Street   string `json:"street"`
}

// PolicyHolderUpdated is emitted when contact info or address is replaced.
type PolicyHolderUpdated struct {
	meta eventlog.Metadata
	PolicyHolderUpdatedPayload
}

func (e PolicyHolderUpdated) Metadata() eventlog.Metadata { return e.meta }
func (e PolicyHolderUpdated) Payload() any                { return e.PolicyHolderUpdatedPayload }

type PolicyHolderDeletedPayload struct {
	PreviousStatus Status `json:"previous_status"`
	Status         Status `json:"status"`
}

// PolicyHolderDeleted is emitted on deactivation (soft delete).
type PolicyHolderDeleted struct {
	meta eventlog.Metadata
	PolicyHolderDeletedPayload
}

func (e PolicyHolderDeleted) Metadata() eventlog.Metadata { return e.meta }
func (e PolicyHolderDeleted) Payload() any                { return e.PolicyHolderDeletedPayload }

// PolicyAddedPayload is a snapshot of the policy as added.
type PolicyAddedPayload struct {
	PolicyID         id.PolicyID     `json:"policy_id"`
	PolicyType       PolicyType      `json:"policy_type"`
	PremiumAmount    decimal.Decimal `json:"premium_amount"`
	SumInsuredAmount decimal.Decimal `json:"sum_insured_amount"`
	Currency         string          `json:"currency"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Status           PolicyStatus    `json:"status"`
}

// PolicyAdded is emitted when a policy is attached to an active holder.
type PolicyAdded struct {
	meta eventlog.Metadata
	PolicyAddedPayload
}

func (e PolicyAdded) Metadata() eventlog.Metadata { return e.meta }
func (e PolicyAdded) Payload() any                { return e.PolicyAddedPayload }

type PolicyTerminatedPayload struct {
	PolicyID     id.PolicyID `json:"policy_id"`
	TerminatedOn time.Time   `json:"terminated_on"`
}

// PolicyTerminated is emitted when an owned policy is terminated.
type PolicyTerminated struct {
	meta eventlog.Metadata
	PolicyTerminatedPayload
}

func (e PolicyTerminated) Metadata() eventlog.Metadata { return e.meta }
func (e PolicyTerminated) Payload() any                { return e.PolicyTerminatedPayload }

// RegisterEvents teaches reg how to decode every policy holder event.
func RegisterEvents(reg *eventlog.Registry) {
	reg.Register(EventPolicyHolderCreated, eventlog.JSONDecoder(func(m eventlog.Metadata, p PolicyHolderCreatedPayload) eventlog.Event {
		return PolicyHolderCreated{meta: m, PolicyHolderCreatedPayload: p}
	}))
	reg.Register(EventPolicyHolderUpdated, eventlog.JSONDecoder(func(m eventlog.Metadata, p PolicyHolderUpdatedPayload) eventlog.Event {
		return PolicyHolderUpdated{meta: m, PolicyHolderUpdatedPayload: p}
	}))
	reg.Register(EventPolicyHolderDeleted, eventlog.JSONDecoder(func(m eventlog.Metadata, p PolicyHolderDeletedPayload) eventlog.Event {
		return PolicyHolderDeleted{meta: m, PolicyHolderDeletedPayload: p}
	}))
	reg.Register(EventPolicyAdded, eventlog.JSONDecoder(func(m eventlog.Metadata, p PolicyAddedPayload) eventlog.Event {
		return PolicyAdded{meta: m, PolicyAddedPayload: p}
	}))
	reg.Register(EventPolicyTerminated, eventlog.JSONDecoder(func(m eventlog.Metadata, p PolicyTerminatedPayload) eventlog.Event {
		return PolicyTerminated{meta: m, PolicyTerminatedPayload: p}
	}))
}

// NewEventRegistry returns a registry with every policy holder event registered.
func NewEventRegistry() *eventlog.Registry {
	reg := eventlog.NewRegistry()
	RegisterEvents(reg)
	return reg
}
