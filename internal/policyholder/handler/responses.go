package handler

import (
	"time"

	"policyhub/internal/policyholder/models"
	"policyhub/pkg/platform/eventlog"
)

type PolicyHolderResponse struct {
	ID               string           `json:"id"`
	NationalIDMasked string           `json:"national_id_masked"`
	Name             string           `json:"name"`
	Gender           models.Gender    `json:"gender"`
	BirthDate        string           `json:"birth_date"`
	Mobile           string           `json:"mobile"`
	Email            string           `json:"email,omitempty"`
	Address          AddressResponse  `json:"address"`
	Status           models.Status    `json:"status"`
	Policies         []PolicyResponse `json:"policies"`
	Version          int64            `json:"version"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type AddressResponse struct {
	ZipCode  string `json:"zip_code"`
	City     string `json:"city"`
	District string `json:"district"`
	Street   string `json:"street"`
	Full     string `json:"full"`
}

type PolicyResponse struct {
	ID               string              `json:"id"`
	PolicyType       models.PolicyType   `json:"policy_type"`
	PremiumAmount    string              `json:"premium_amount"`
	SumInsuredAmount string              `json:"sum_insured_amount"`
	Currency         string              `json:"currency"`
	StartDate        string              `json:"start_date"`
	EndDate          string              `json:"end_date"`
	Status           models.PolicyStatus `json:"status"`
	TerminatedOn     *time.Time          `json:"terminated_on,omitempty"`
	Version          int64               `json:"version"`
}

type EventResponse struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	AggregateID   string    `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	OccurredOn    time.Time `json:"occurred_on"`
	Payload       any       `json:"payload"`
}

type HistoryResponse struct {
	PolicyHolderID string          `json:"policy_holder_id"`
	Events         []EventResponse `json:"events"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toPolicyHolderResponse(h *models.PolicyHolder) *PolicyHolderResponse {
	personal := h.PersonalInfo()
	contact := h.ContactInfo()
	address := h.Address()
	email, _ := contact.Email()

	policies := h.Policies()
	out := make([]PolicyResponse, 0, len(policies))
	for _, p := range policies {
		out = append(out, toPolicyResponse(p))
	}

	return &PolicyHolderResponse{
		ID:               h.ID().String(),
		NationalIDMasked: h.NationalID().Masked(),
		Name:             personal.Name(),
		Gender:           personal.Gender(),
		BirthDate:        personal.BirthDate().Format(dateLayout),
		Mobile:           contact.Mobile(),
		Email:            email,
		Address: AddressResponse{
			ZipCode:  address.ZipCode(),
			City:     address.City(),
			District: address.District(),
			Street:   address.Street(),
			Full:     address.Full(),
		},
		Status:    h.Status(),
		Policies:  out,
		Version:   h.Version(),
		CreatedAt: h.CreatedAt(),
		UpdatedAt: h.UpdatedAt(),
	}
}

func toPolicyResponse(p *models.Policy) PolicyResponse {
	resp := PolicyResponse{
		ID:               p.ID().String(),
		PolicyType:       p.Type(),
		PremiumAmount:    p.Premium().Amount().StringFixed(2),
		SumInsuredAmount: p.SumInsured().Amount().StringFixed(2),
		Currency:         p.Premium().Currency(),
		StartDate:        p.StartDate().Format(dateLayout),
		EndDate:          p.EndDate().Format(dateLayout),
		Status:           p.Status(),
		Version:          p.Version(),
	}
	if terminated := p.TerminatedOn(); !terminated.IsZero() {
		resp.TerminatedOn = &terminated
	}
	return resp
}

func toHistoryResponse(holderID string, events []eventlog.Event) *HistoryResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		meta := e.Metadata()
		out = append(out, EventResponse{
			EventID:       meta.EventID.String(),
			EventType:     meta.EventType,
			AggregateID:   meta.AggregateID,
			AggregateType: meta.AggregateType,
			OccurredOn:    meta.OccurredOn,
			Payload:       e.Payload(),
		})
	}
	return &HistoryResponse{PolicyHolderID: holderID, Events: out}
}
