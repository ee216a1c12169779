package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "policyhub/pkg/domain"
	dErrors "policyhub/pkg/domain-errors"
	"policyhub/pkg/validation"
)

const (
	maxNameLength = 50
	maxZipLength  = 5
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender accepts either gender in any letter case.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid gender %q: expected MALE or FEMALE", s)
	}
}

// PersonalInfo holds the holder's name, gender and birth date.
// Adulthood is checked once, at construction; restored values are trusted.
type PersonalInfo struct {
	name      string
	gender    Gender
	birthDate time.Time
}

// NewPersonalInfo validates in order: name, gender, birth date, age at now.
func NewPersonalInfo(name string, gender Gender, birthDate, now time.Time) (PersonalInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return PersonalInfo{}, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return PersonalInfo{}, dErrors.Newf(dErrors.CodeValidation, "name must be %d characters or less", maxNameLength)
	}
	if gender != GenderMale && gender != GenderFemale {
		return PersonalInfo{}, dErrors.Newf(dErrors.CodeValidation, "invalid gender %q: expected MALE or FEMALE", gender)
	}
	if birthDate.IsZero() {
		return PersonalInfo{}, dErrors.New(dErrors.CodeValidation, "birth date is required")
	}
	birthDate = dateOnly(birthDate)
	if !id.IsAdult(birthDate, now) {
		return PersonalInfo{}, dErrors.Newf(dErrors.CodeValidation, "policy holder must be at least %d years old", id.AdultAge)
	}
	return PersonalInfo{name: name, gender: gender, birthDate: birthDate}, nil
}

// RestorePersonalInfo rebuilds stored personal info without re-checking age.
func RestorePersonalInfo(name string, gender Gender, birthDate time.Time) PersonalInfo {
	return PersonalInfo{name: name, gender: gender, birthDate: dateOnly(birthDate)}
}

func (p PersonalInfo) Name() string         { return p.name }
func (p PersonalInfo) Gender() Gender       { return p.gender }
func (p PersonalInfo) BirthDate() time.Time { return p.birthDate }

// AgeAt returns the completed years at the given instant.
func (p PersonalInfo) AgeAt(now time.Time) int {
	return id.AgeAt(p.birthDate, now)
}

// ContactInfo holds the mobile number and an optional email.
type ContactInfo struct {
	mobile string
	email  string
}

// NewContactInfo trims both fields. An empty email is treated as absent.
func NewContactInfo(mobile, email string) (ContactInfo, error) {
	mobile = strings.TrimSpace(mobile)
	if !validation.IsMobilePhone(mobile) {
		return ContactInfo{}, dErrors.New(dErrors.CodeValidation, "mobile phone must be 09 followed by 8 digits")
	}
	email = strings.TrimSpace(email)
	if email != "" && !validation.IsEmail(email) {
		return ContactInfo{}, dErrors.Newf(dErrors.CodeValidation, "invalid email address %q", email)
	}
	return ContactInfo{mobile: mobile, email: email}, nil
}

// RestoreContactInfo rebuilds stored contact info without validation.
func RestoreContactInfo(mobile, email string) ContactInfo {
	return ContactInfo{mobile: mobile, email: email}
}

func (c ContactInfo) Mobile() string { return c.mobile }

// Email returns the address and whether one is present.
func (c ContactInfo) Email() (string, bool) { return c.email, c.email != "" }

// Address is a postal address. Every field is required.
type Address struct {
	zipCode  string
	city     string
	district string
	street   string
}

func NewAddress(zipCode, city, district, street string) (Address, error) {
	zipCode = strings.TrimSpace(zipCode)
	city = strings.TrimSpace(city)
	district = strings.TrimSpace(district)
	street = strings.TrimSpace(street)

	switch {
	case zipCode == "":
		return Address{}, dErrors.New(dErrors.CodeValidation, "zip code is required")
	case utf8.RuneCountInString(zipCode) > maxZipLength:
		return Address{}, dErrors.Newf(dErrors.CodeValidation, "zip code must be %d characters or less", maxZipLength)
	case city == "":
		return Address{}, dErrors.New(dErrors.CodeValidation, "city is required")
	case district == "":
		return Address{}, dErrors.New(dErrors.CodeValidation, "district is required")
	case street == "":
		return Address{}, dErrors.New(dErrors.CodeValidation, "street is required")
	}
	return Address{zipCode: zipCode, city: city, district: district, street: street}, nil
}

// RestoreAddress rebuilds a stored address without validation.
func RestoreAddress(zipCode, city, district, street string) Address {
	return Address{zipCode: zipCode, city: city, district: district, street: street}
}

func (a Address) ZipCode() string  { return a.zipCode }
func (a Address) City() string     { return a.city }
func (a Address) District() string { return a.district }
func (a Address) Street() string   { return a.street }

// Full renders the address in postal order, e.g. "100 Taipei Zhongzheng Zhongshan S. Rd. 1".
func (a Address) Full() string {
	return strings.Join([]string{a.zipCode, a.city, a.district, a.street}, " ")
}

// dateOnly truncates t to its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
