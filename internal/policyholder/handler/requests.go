package handler

import (
	"strings"
	"time"

	"policyhub/internal/policyholder/service"
	id "policyhub/pkg/domain"
	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/validation"
)

// HTTP request DTOs. Struct tags cover shape; the domain constructors still
// enforce every invariant when the service builds value objects.

const dateLayout = "2006-01-02"

type RegisterRequest struct {
	NationalID string `json:"national_id" validate:"required,len=10"`
	Name       string `json:"name" validate:"notblank,max=50"`
	Gender     string `json:"gender" validate:"required,oneof=MALE FEMALE"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Mobile     string `json:"mobile" validate:"required,mobile"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	AddressRequest
}

type AddressRequest struct {
	ZipCode  string `json:"zip_code" validate:"notblank,max=5"`
	City     string `json:"city" validate:"notblank"`
	District string `json:"district" validate:"notblank"`
	Street   string `json:"street" validate:"notblank"`
}

func (r *AddressRequest) Normalize() {
	if r == nil {
		return
	}
	r.ZipCode = strings.TrimSpace(r.ZipCode)
	r.City = strings.TrimSpace(r.City)
	r.District = strings.TrimSpace(r.District)
	r.Street = strings.TrimSpace(r.Street)
}

func (r *AddressRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *RegisterRequest) Normalize() {
	if r == nil {
		return
	}
	r.NationalID = strings.ToUpper(strings.TrimSpace(r.NationalID))
	r.Name = strings.TrimSpace(r.Name)
	r.Gender = strings.ToUpper(strings.TrimSpace(r.Gender))
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Email = strings.TrimSpace(r.Email)
	r.AddressRequest.Normalize()
}

func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *RegisterRequest) toCommand() *service.RegisterCommand {
	return &service.RegisterCommand{
		NationalID: r.NationalID,
		Name:       r.Name,
		Gender:     r.Gender,
		BirthDate:  parseDate(r.BirthDate),
		Mobile:     r.Mobile,
		Email:      r.Email,
		ZipCode:    r.ZipCode,
		City:       r.City,
		District:   r.District,
		Street:     r.Street,
	}
}

type AddPolicyRequest struct {
	PolicyType       string `json:"policy_type" validate:"required,oneof=LIFE HEALTH ACCIDENT TRAVEL PROPERTY AUTO SAFETY"`
	PremiumAmount    string `json:"premium_amount" validate:"required,numeric"`
	SumInsuredAmount string `json:"sum_insured_amount" validate:"required,numeric"`
	Currency         string `json:"currency,omitempty" validate:"omitempty,iso4217"`
	StartDate        string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (r *AddPolicyRequest) Normalize() {
	if r == nil {
		return
	}
	r.PolicyType = strings.ToUpper(strings.TrimSpace(r.PolicyType))
	r.PremiumAmount = strings.TrimSpace(r.PremiumAmount)
	r.SumInsuredAmount = strings.TrimSpace(r.SumInsuredAmount)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}

func (r *AddPolicyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *AddPolicyRequest) toCommand(holderID id.PolicyHolderID) *service.AddPolicyCommand {
	return &service.AddPolicyCommand{
		HolderID:         holderID,
		PolicyType:       r.PolicyType,
		PremiumAmount:    r.PremiumAmount,
		SumInsuredAmount: r.SumInsuredAmount,
		Currency:         r.Currency,
		StartDate:        parseDate(r.StartDate),
		EndDate:          parseDate(r.EndDate),
	}
}

type UpdateContactInfoRequest struct {
	Mobile string `json:"mobile" validate:"required,mobile"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
}

func (r *UpdateContactInfoRequest) Normalize() {
	if r == nil {
		return
	}
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *UpdateContactInfoRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// parseDate parses a date already accepted by the datetime validator; anything
// else yields the zero time, which the domain rejects as missing.
func parseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
