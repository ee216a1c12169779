package service

import (
	"time"

	"policyhub/internal/policyholder/models"
	id "policyhub/pkg/domain"
	dErrors "policyhub/pkg/domain-errors"
)

// RegisterCommand carries the raw input for registering a policy holder.
// Value objects are built inside the unit of work so the age check sees the request time.
type RegisterCommand struct {
	NationalID string
	Name       string
	Gender     string
	BirthDate  time.Time
	Mobile     string
	Email      string
	ZipCode    string
	City       string
	District   string
	Street     string
}

func (c *RegisterCommand) personalInfo(now time.Time) (models.PersonalInfo, error) {
	gender, err := models.ParseGender(c.Gender)
	if err != nil {
		return models.PersonalInfo{}, err
	}
	return models.NewPersonalInfo(c.Name, gender, c.BirthDate, now)
}

func (c *RegisterCommand) contactInfo() (models.ContactInfo, error) {
	return models.NewContactInfo(c.Mobile, c.Email)
}

func (c *RegisterCommand) address() (models.Address, error) {
	return models.NewAddress(c.ZipCode, c.City, c.District, c.Street)
}

// AddPolicyCommand carries the raw input for attaching a new policy.
// Amounts are decimal strings; an empty Currency selects the service default.
type AddPolicyCommand struct {
	HolderID         id.PolicyHolderID
	PolicyType       string
	PremiumAmount    string
	SumInsuredAmount string
	Currency         string
	StartDate        time.Time
	EndDate          time.Time
}

func (c *AddPolicyCommand) policy(policyID id.PolicyID, defaultCurrency string) (*models.Policy, error) {
	policyType, err := models.ParsePolicyType(c.PolicyType)
	if err != nil {
		return nil, err
	}
	currency := c.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	premium, err := models.ParseMoney(c.PremiumAmount, currency)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "premium: "+err.Error())
	}
	sumInsured, err := models.ParseMoney(c.SumInsuredAmount, currency)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "sum insured: "+err.Error())
	}
	return models.NewPolicy(policyID, policyType, premium, sumInsured, c.StartDate, c.EndDate)
}

// UpdateContactInfoCommand replaces a holder's contact info wholesale.
type UpdateContactInfoCommand struct {
	HolderID id.PolicyHolderID
	Mobile   string
	Email    string
}

// UpdateAddressCommand replaces a holder's address wholesale.
type UpdateAddressCommand struct {
	HolderID id.PolicyHolderID
	ZipCode  string
	City     string
	District string
	Street   string
}
