package models

import (
	"strings"
	"time"

	id "policyhub/pkg/domain"
	dErrors "policyhub/pkg/domain-errors"
)

type PolicyType string

const (
	PolicyTypeLife     PolicyType = "LIFE"
	PolicyTypeHealth   PolicyType = "HEALTH"
	PolicyTypeAccident PolicyType = "ACCIDENT"
	PolicyTypeTravel   PolicyType = "TRAVEL"
	PolicyTypeProperty PolicyType = "PROPERTY"
	PolicyTypeAuto     PolicyType = "AUTO"
	PolicyTypeSafety   PolicyType = "SAFETY"
)

var policyTypes = map[PolicyType]struct{}{
	PolicyTypeLife: {}, PolicyTypeHealth: {}, PolicyTypeAccident: {}, PolicyTypeTravel: {},
	PolicyTypeProperty: {}, PolicyTypeAuto: {}, PolicyTypeSafety: {},
}

func (t PolicyType) IsValid() bool {
	_, ok := policyTypes[t]
	return ok
}

func ParsePolicyType(s string) (PolicyType, error) {
	t := PolicyType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid policy type %q", s)
	}
	return t, nil
}

type PolicyStatus string

const (
	PolicyStatusActive     PolicyStatus = "ACTIVE"
	PolicyStatusTerminated PolicyStatus = "TERMINATED"
)

// Policy is an insurance contract owned by exactly one PolicyHolder.
// Status only moves ACTIVE -> TERMINATED.
type Policy struct {
	id         id.PolicyID
	policyType PolicyType
	premium    Money
	sumInsured Money
	startDate  time.Time
	endDate    time.Time
	status     PolicyStatus
	terminated time.Time
	version    int64
	dirty      bool
	persisted  bool
}

// NewPolicy creates an ACTIVE policy. Dates are truncated to calendar days.
func NewPolicy(policyID id.PolicyID, policyType PolicyType, premium, sumInsured Money, startDate, endDate time.Time) (*Policy, error) {
	if policyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "policy id is required")
	}
	if !policyType.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid policy type %q", policyType)
	}
	if premium.Currency() == "" || sumInsured.Currency() == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "premium and sum insured are required")
	}
	if startDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "start date is required")
	}
	if endDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "end date is required")
	}
	startDate, endDate = dateOnly(startDate), dateOnly(endDate)
	if endDate.Before(startDate) {
		return nil, dErrors.New(dErrors.CodeValidation, "end date must not be before start date")
	}
	return &Policy{
		id:         policyID,
		policyType: policyType,
		premium:    premium,
		sumInsured: sumInsured,
		startDate:  startDate,
		endDate:    endDate,
		status:     PolicyStatusActive,
	}, nil
}

func (p *Policy) ID() id.PolicyID      { return p.id }
func (p *Policy) Type() PolicyType     { return p.policyType }
func (p *Policy) Premium() Money       { return p.premium }
func (p *Policy) SumInsured() Money    { return p.sumInsured }
func (p *Policy) StartDate() time.Time { return p.startDate }
func (p *Policy) EndDate() time.Time   { return p.endDate }
func (p *Policy) Status() PolicyStatus { return p.status }
func (p *Policy) Version() int64       { return p.version }
func (p *Policy) IsActive() bool       { return p.status == PolicyStatusActive }

// TerminatedOn is zero while the policy is active.
func (p *Policy) TerminatedOn() time.Time { return p.terminated }

// Terminate ends the policy. Terminating twice is an illegal-state error.
func (p *Policy) Terminate(now time.Time) error {
	if p.status == PolicyStatusTerminated {
		return dErrors.Newf(dErrors.CodeInvalidState, "policy %s is already terminated", p.id)
	}
	p.status = PolicyStatusTerminated
	p.terminated = now.UTC()
	p.dirty = true
	return nil
}

// PolicySnapshot is the flat, persistable form of a Policy.
type PolicySnapshot struct {
	ID           id.PolicyID
	Type         PolicyType
	Premium      Money
	SumInsured   Money
	StartDate    time.Time
	EndDate      time.Time
	Status       PolicyStatus
	TerminatedOn time.Time
	Version      int64
}

func (p *Policy) Snapshot() PolicySnapshot {
	return PolicySnapshot{
		ID:           p.id,
		Type:         p.policyType,
		Premium:      p.premium,
		SumInsured:   p.sumInsured,
		StartDate:    p.startDate,
		EndDate:      p.endDate,
		Status:       p.status,
		TerminatedOn: p.terminated,
		Version:      p.version,
	}
}

// RestorePolicy rebuilds a stored policy without validation.
func RestorePolicy(s PolicySnapshot) *Policy {
	return &Policy{
		id:         s.ID,
		policyType: s.Type,
		premium:    s.Premium,
		sumInsured: s.SumInsured,
		startDate:  dateOnly(s.StartDate),
		endDate:    dateOnly(s.EndDate),
		status:     s.Status,
		terminated: s.TerminatedOn,
		version:    s.Version,
		persisted:  true,
	}
}

// markPersisted advances the version of a stored policy that changed since load.
func (p *Policy) markPersisted() {
	if p.persisted && p.dirty {
		p.version++
	}
	p.dirty = false
	p.persisted = true
}
