package testutil

import (
	"fmt"
	"time"

	"policyhub/internal/policyholder/models"
	id "policyhub/pkg/domain"
)

// FixtureNow is the instant test fixtures are created at.
var FixtureNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

// TestIDs provides pre-generated identifiers for deterministic test data.
// Both national ids carry valid checksums.
var TestIDs = struct {
	HolderID1   id.PolicyHolderID
	HolderID2   id.PolicyHolderID
	PolicyID1   id.PolicyID
	PolicyID2   id.PolicyID
	NationalID1 string
	NationalID2 string
}{
	HolderID1:   "PH0000000001",
	HolderID2:   "PH0000000002",
	PolicyID1:   "PO0000000001",
	PolicyID2:   "PO0000000002",
	NationalID1: "F131104093",
	NationalID2: "A123456789",
}

// HolderBuilder provides a fluent interface for building test policy holders.
// Build panics on invalid input, so it is for tests only.
type HolderBuilder struct {
	holderID   id.PolicyHolderID
	nationalID string
	name       string
	gender     models.Gender
	birthDate  time.Time
	mobile     string
	email      string
	zipCode    string
	city       string
	district   string
	street     string
	createdAt  time.Time
	policies   []*models.Policy
}

// NewHolderBuilder creates a HolderBuilder with sensible defaults.
func NewHolderBuilder() *HolderBuilder {
	return &HolderBuilder{
		holderID:   TestIDs.HolderID1,
		nationalID: TestIDs.NationalID1,
		name:       "Chen Mei-Ling",
		gender:     models.GenderFemale,
		birthDate:  time.Date(1985, 3, 20, 0, 0, 0, 0, time.UTC),
		mobile:     "0912345678",
		zipCode:    "106",
		city:       "Taipei",
		district:   "Da'an",
		street:     "Xinyi Rd. 1",
		createdAt:  FixtureNow,
	}
}

func (b *HolderBuilder) WithID(holderID id.PolicyHolderID) *HolderBuilder {
	b.holderID = holderID
	return b
}

func (b *HolderBuilder) WithNationalID(nationalID string) *HolderBuilder {
	b.nationalID = nationalID
	return b
}

func (b *HolderBuilder) WithEmail(email string) *HolderBuilder {
	b.email = email
	return b
}

func (b *HolderBuilder) WithMobile(mobile string) *HolderBuilder {
	b.mobile = mobile
	return b
}

func (b *HolderBuilder) CreatedAt(t time.Time) *HolderBuilder {
	b.createdAt = t
	return b
}

// WithPolicy attaches p when the holder is built.
func (b *HolderBuilder) WithPolicy(p *models.Policy) *HolderBuilder {
	b.policies = append(b.policies, p)
	return b
}

// Build returns a new, unsaved holder. Its pending events include the
// creation event and one PolicyAdded per attached policy.
func (b *HolderBuilder) Build() *models.PolicyHolder {
	nid, err := id.ParseNationalID(b.nationalID)
	must(err)
	personal, err := models.NewPersonalInfo(b.name, b.gender, b.birthDate, b.createdAt)
	must(err)
	contact, err := models.NewContactInfo(b.mobile, b.email)
	must(err)
	address, err := models.NewAddress(b.zipCode, b.city, b.district, b.street)
	must(err)
	h, err := models.NewPolicyHolder(b.holderID, nid, personal, contact, address, b.createdAt)
	must(err)
	for _, p := range b.policies {
		must(h.AddPolicy(p, b.createdAt))
	}
	return h
}

// PolicyBuilder provides a fluent interface for building test policies.
type PolicyBuilder struct {
	policyID   id.PolicyID
	policyType models.PolicyType
	premium    string
	sumInsured string
	currency   string
	start      time.Time
	end        time.Time
}

// NewPolicyBuilder creates a one-year LIFE policy starting at FixtureNow.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{
		policyID:   TestIDs.PolicyID1,
		policyType: models.PolicyTypeLife,
		premium:    "10000",
		sumInsured: "1000000",
		currency:   models.DefaultCurrency,
		start:      FixtureNow,
		end:        FixtureNow.AddDate(1, 0, 0),
	}
}

func (b *PolicyBuilder) WithID(policyID id.PolicyID) *PolicyBuilder {
	b.policyID = policyID
	return b
}

func (b *PolicyBuilder) WithType(t models.PolicyType) *PolicyBuilder {
	b.policyType = t
	return b
}

func (b *PolicyBuilder) WithAmounts(premium, sumInsured, currency string) *PolicyBuilder {
	b.premium = premium
	b.sumInsured = sumInsured
	b.currency = currency
	return b
}

func (b *PolicyBuilder) Between(start, end time.Time) *PolicyBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *PolicyBuilder) Build() *models.Policy {
	premium, err := models.ParseMoney(b.premium, b.currency)
	must(err)
	sum, err := models.ParseMoney(b.sumInsured, b.currency)
	must(err)
	p, err := models.NewPolicy(b.policyID, b.policyType, premium, sum, b.start, b.end)
	must(err)
	return p
}

// Quick helper functions for simple test cases

// NewTestHolder creates an unsaved holder with the given ids.
func NewTestHolder(holderID id.PolicyHolderID, nationalID string) *models.PolicyHolder {
	return NewHolderBuilder().WithID(holderID).WithNationalID(nationalID).Build()
}

// NewTestPolicy creates a default policy with the given id.
func NewTestPolicy(policyID id.PolicyID) *models.Policy {
	return NewPolicyBuilder().WithID(policyID).Build()
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("testutil fixture: %v", err))
	}
}
