package models

import (
	"time"

	id "policyhub/pkg/domain"
	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/platform/eventlog"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// Operation names a mutation of the aggregate for the transition table.
type Operation string

const (
	OpAddPolicy         Operation = "add_policy"
	OpUpdateContactInfo Operation = "update_contact_info"
	OpUpdateAddress     Operation = "update_address"
	OpDeactivate        Operation = "deactivate"
	OpTerminatePolicy   Operation = "terminate_policy"
)

// transitions maps status x operation to the resulting status. A missing entry
// means the operation is forbidden in that status. No operation leads into
// SUSPENDED; that status is only reachable by reconstitution.
var transitions = map[Status]map[Operation]Status{
	StatusActive: {
		OpAddPolicy:         StatusActive,
		OpUpdateContactInfo: StatusActive,
		OpUpdateAddress:     StatusActive,
		OpDeactivate:        StatusInactive,
		OpTerminatePolicy:   StatusActive,
	},
	StatusSuspended: {
		OpUpdateContactInfo: StatusSuspended,
		OpUpdateAddress:     StatusSuspended,
		OpDeactivate:        StatusInactive,
		OpTerminatePolicy:   StatusSuspended,
	},
	StatusInactive: {
		OpUpdateContactInfo: StatusInactive,
		OpUpdateAddress:     StatusInactive,
		OpTerminatePolicy:   StatusInactive,
	},
}

// Allows reports whether op is permitted in status s.
func (s Status) Allows(op Operation) bool {
	_, ok := transitions[s][op]
	return ok
}

// PolicyHolder is the aggregate root. It owns its policies and buffers the
// events produced by each mutation until the caller drains them.
type PolicyHolder struct {
	id           id.PolicyHolderID
	nationalID   id.NationalID
	personalInfo PersonalInfo
	contactInfo  ContactInfo
	address      Address
	status       Status
	policies     []*Policy
	createdAt    time.Time
	updatedAt    time.Time
	version      int64
	persisted    bool
	pending      []eventlog.Event
}

// NewPolicyHolder registers a new ACTIVE holder at version 0 and records PolicyHolderCreated.
func NewPolicyHolder(holderID id.PolicyHolderID, nationalID id.NationalID, personal PersonalInfo, contact ContactInfo, address Address, now time.Time) (*PolicyHolder, error) {
	if holderID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "policy holder id is required")
	}
	if nationalID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "national id is required")
	}
	now = now.UTC()
	h := &PolicyHolder{
		id:           holderID,
		nationalID:   nationalID,
		personalInfo: personal,
		contactInfo:  contact,
		address:      address,
		status:       StatusActive,
		policies:     []*Policy{},
		createdAt:    now.UTC(),
		updatedAt:    now.UTC(),
	}
	email, _ := contact.Email()
	h.record(PolicyHolderCreated{
		meta: newMetadata(holderID, EventPolicyHolderCreated, now),
		PolicyHolderCreatedPayload: PolicyHolderCreatedPayload{
			NationalIDMasked: nationalID.Masked(),
			Name:             personal.Name(),
			Gender:           personal.Gender(),
			BirthDate:        personal.BirthDate(),
			Mobile:           contact.Mobile(),
			Email:            email,
			Address:          address.Full(),
		},
	})
	return h, nil
}

func (h *PolicyHolder) ID() id.PolicyHolderID      { return h.id }
func (h *PolicyHolder) NationalID() id.NationalID  { return h.nationalID }
func (h *PolicyHolder) PersonalInfo() PersonalInfo { return h.personalInfo }
func (h *PolicyHolder) ContactInfo() ContactInfo   { return h.contactInfo }
func (h *PolicyHolder) Address() Address           { return h.address }
func (h *PolicyHolder) Status() Status             { return h.status }
func (h *PolicyHolder) IsActive() bool             { return h.status == StatusActive }
func (h *PolicyHolder) CreatedAt() time.Time       { return h.createdAt }
func (h *PolicyHolder) UpdatedAt() time.Time       { return h.updatedAt }
func (h *PolicyHolder) Version() int64             { return h.version }
func (h *PolicyHolder) PolicyCount() int           { return len(h.policies) }

// IsNew reports whether the holder has never been saved.
func (h *PolicyHolder) IsNew() bool { return !h.persisted }

// Policies returns a copy of the owned policy list in insertion order.
func (h *PolicyHolder) Policies() []*Policy {
	out := make([]*Policy, len(h.policies))
	copy(out, h.policies)
	return out
}

// Policy looks up an owned policy.
func (h *PolicyHolder) Policy(policyID id.PolicyID) (*Policy, bool) {
	for _, p := range h.policies {
		if p.id == policyID {
			return p, true
		}
	}
	return nil, false
}

// AddPolicy attaches a policy. Only an ACTIVE holder accepts new policies.
func (h *PolicyHolder) AddPolicy(policy *Policy, now time.Time) error {
	if policy == nil {
		return dErrors.New(dErrors.CodeValidation, "policy is required")
	}
	if _, err := h.transition(OpAddPolicy); err != nil {
		return err
	}
	if _, exists := h.Policy(policy.id); exists {
		return dErrors.Newf(dErrors.CodeConflict, "policy %s already belongs to policy holder %s", policy.id, h.id)
	}
	h.policies = append(h.policies, policy)
	h.touch(now)
	h.record(PolicyAdded{
		meta: newMetadata(h.id, EventPolicyAdded, now),
		PolicyAddedPayload: PolicyAddedPayload{
			PolicyID:         policy.id,
			PolicyType:       policy.policyType,
			PremiumAmount:    policy.premium.Amount(),
			SumInsuredAmount: policy.sumInsured.Amount(),
			Currency:         policy.premium.Currency(),
			StartDate:        policy.startDate,
			EndDate:          policy.endDate,
			Status:           policy.status,
		},
	})
	return nil
}

// UpdateContactInfo replaces the contact info wholesale.
func (h *PolicyHolder) UpdateContactInfo(contact ContactInfo, now time.Time) error {
	if _, err := h.transition(OpUpdateContactInfo); err != nil {
		return err
	}
	h.contactInfo = contact
	h.touch(now)
	h.recordUpdated("contact_info", now)
	return nil
}

// UpdateAddress replaces the address wholesale.
func (h *PolicyHolder) UpdateAddress(address Address, now time.Time) error {
	if _, err := h.transition(OpUpdateAddress); err != nil {
		return err
	}
	h.address = address
	h.touch(now)
	h.recordUpdated("address", now)
	return nil
}

// Deactivate soft-deletes the holder. Deactivating an INACTIVE holder fails.
func (h *PolicyHolder) Deactivate(now time.Time) error {
	next, err := h.transition(OpDeactivate)
	if err != nil {
		return err
	}
	previous := h.status
	h.status = next
	h.touch(now)
	h.record(PolicyHolderDeleted{
		meta: newMetadata(h.id, EventPolicyHolderDeleted, now),
		PolicyHolderDeletedPayload: PolicyHolderDeletedPayload{
			PreviousStatus: previous,
			Status:         next,
		},
	})
	return nil
}

// TerminatePolicy ends one owned policy.
func (h *PolicyHolder) TerminatePolicy(policyID id.PolicyID, now time.Time) error {
	if _, err := h.transition(OpTerminatePolicy); err != nil {
		return err
	}
	policy, ok := h.Policy(policyID)
	if !ok {
		return dErrors.NotFound("policy", policyID.String())
	}
	if err := policy.Terminate(now); err != nil {
		return err
	}
	h.touch(now)
	h.record(PolicyTerminated{
		meta: newMetadata(h.id, EventPolicyTerminated, now),
		PolicyTerminatedPayload: PolicyTerminatedPayload{
			PolicyID:     policyID,
			TerminatedOn: policy.terminated,
		},
	})
	return nil
}

// DrainEvents hands the pending events to the caller and empties the buffer.
// Call it once per save cycle; a second call returns nothing.
func (h *PolicyHolder) DrainEvents() []eventlog.Event {
	events := h.pending
	h.pending = nil
	if events == nil {
		return []eventlog.Event{}
	}
	return events
}

// PendingEvents returns the number of undrained events.
func (h *PolicyHolder) PendingEvents() int { return len(h.pending) }

// MarkPersisted is called by repositories after a successful save. The first
// save keeps version 0; each later save advances it by one.
func (h *PolicyHolder) MarkPersisted() {
	if h.persisted {
		h.version++
	}
	h.persisted = true
	for _, p := range h.policies {
		p.markPersisted()
	}
}

func (h *PolicyHolder) transition(op Operation) (Status, error) {
	next, ok := transitions[h.status][op]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidState, "cannot %s: policy holder %s is %s", opDescription(op), h.id, h.status)
	}
	return next, nil
}

func opDescription(op Operation) string {
	switch op {
	case OpAddPolicy:
		return "add policy"
	case OpUpdateContactInfo:
		return "update contact info"
	case OpUpdateAddress:
		return "update address"
	case OpDeactivate:
		return "deactivate"
	case OpTerminatePolicy:
		return "terminate policy"
	default:
		return string(op)
	}
}

func (h *PolicyHolder) touch(now time.Time) {
	h.updatedAt = now.UTC()
}

func (h *PolicyHolder) record(e eventlog.Event) {
	h.pending = append(h.pending, e)
}

func (h *PolicyHolder) recordUpdated(changed string, now time.Time) {
	email, _ := h.contactInfo.Email()
	h.record(PolicyHolderUpdated{
		meta: newMetadata(h.id, EventPolicyHolderUpdated, now),
		PolicyHolderUpdatedPayload: PolicyHolderUpdatedPayload{
			Changed:  changed,
			Mobile:   h.contactInfo.Mobile(),
			Email:    email,
			ZipCode:  h.address.ZipCode(),
			City:     h.address.City(),
			District: h.address.District(),
			Street:   h.address.Street(),
		},
	})
}

// Snapshot is the flat, persistable state of a PolicyHolder.
type Snapshot struct {
	ID         id.PolicyHolderID
	NationalID id.NationalID
	Name       string
	Gender     Gender
	BirthDate  time.Time
	Mobile     string
	Email      string
	ZipCode    string
	City       string
	District   string
	Street     string
	Status     Status
	Policies   []PolicySnapshot
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}

func (h *PolicyHolder) Snapshot() Snapshot {
	email, _ := h.contactInfo.Email()
	policies := make([]PolicySnapshot, 0, len(h.policies))
	for _, p := range h.policies {
		policies = append(policies, p.Snapshot())
	}
	return Snapshot{
		ID:         h.id,
		NationalID: h.nationalID,
		Name:       h.personalInfo.Name(),
		Gender:     h.personalInfo.Gender(),
		BirthDate:  h.personalInfo.BirthDate(),
		Mobile:     h.contactInfo.Mobile(),
		Email:      email,
		ZipCode:    h.address.ZipCode(),
		City:       h.address.City(),
		District:   h.address.District(),
		Street:     h.address.Street(),
		Status:     h.status,
		Policies:   policies,
		CreatedAt:  h.createdAt,
		UpdatedAt:  h.updatedAt,
		Version:    h.version,
	}
}

// Reconstitute rebuilds a stored holder in any status without validation and
// without recording events.
func Reconstitute(s Snapshot) *PolicyHolder {
	policies := make([]*Policy, 0, len(s.Policies))
	for _, ps := range s.Policies {
		policies = append(policies, RestorePolicy(ps))
	}
	return &PolicyHolder{
		id:           s.ID,
		nationalID:   s.NationalID,
		personalInfo: RestorePersonalInfo(s.Name, s.Gender, s.BirthDate),
		contactInfo:  RestoreContactInfo(s.Mobile, s.Email),
		address:      RestoreAddress(s.ZipCode, s.City, s.District, s.Street),
		status:       s.Status,
		policies:     policies,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		version:      s.Version,
		persisted:    true,
	}
}
