package validator

import (
	"regexp"
	"strings"

	"roobaroo/internal/model"

	"github.com/go-playground/validator/v10"
)

// Matches local@domain.tld: no whitespace, at least one dot in the
// domain part. Deliberately simple; the store never sends mail.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var nonDigits = regexp.MustCompile(`\D`)

// Payload carries the four raw form fields as submitted.
type Payload struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// Normalized is a payload in canonical form: trimmed name, lowercase
// email, digits-only phone, lowercase status.
type Normalized struct {
	Name   string
	Email  string
	Phone  string
	Status model.Status
}

// Violations is the ordered list of human-readable rule failures for
// one payload. Presence failures come first, then field checks in
// field order (name, email, phone, status). Missing reports whether
// any presence check failed.
type Violations struct {
	Missing  bool
	Messages []string
}

func (v Violations) Any() bool {
	return len(v.Messages) > 0
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Custom validators
	v.RegisterValidation("registration_email", validateRegistrationEmail)
	v.RegisterValidation("registration_status", validateRegistrationStatus)

	return &Validator{validate: v}
}

// ValidateRegistration checks a raw payload against every rule
// independently and returns the normalized payload together with all
// violations found. No I/O, deterministic.
func (v *Validator) ValidateRegistration(p Payload) (Normalized, Violations) {
	norm := Normalize(p)

	var out Violations

	presence := []struct {
		value   string
		message string
	}{
		{norm.Name, "Name is required"},
		{norm.Email, "Email is required"},
		{strings.TrimSpace(p.Phone), "Phone number is required"},
		{string(norm.Status), "Status is required"},
	}
	for _, field := range presence {
		if err := v.validate.Var(field.value, "required"); err != nil {
			out.Missing = true
			out.Messages = append(out.Messages, field.message)
		}
	}

	if norm.Name != "" {
		if err := v.validate.Var(norm.Name, "min=2"); err != nil {
			out.Messages = append(out.Messages, "Name must be at least 2 characters long")
		}
		if err := v.validate.Var(norm.Name, "max=100"); err != nil {
			out.Messages = append(out.Messages, "Name cannot exceed 100 characters")
		}
	}
	if norm.Email != "" {
		if err := v.validate.Var(norm.Email, "registration_email"); err != nil {
			out.Messages = append(out.Messages, "Please provide a valid email address")
		}
	}
	if strings.TrimSpace(p.Phone) != "" {
		if err := v.validate.Var(norm.Phone, "len=10"); err != nil {
			out.Messages = append(out.Messages, "Phone number must be exactly 10 digits")
		}
	}
	if norm.Status != "" {
		if err := v.validate.Var(string(norm.Status), "registration_status"); err != nil {
			out.Messages = append(out.Messages, `Status must be either "single" or "couple"`)
		}
	}

	return norm, out
}

// Normalize applies the canonical transformations without validating.
// Normalizing an already-normalized payload yields the same payload.
func Normalize(p Payload) Normalized {
	return Normalized{
		Name:   strings.TrimSpace(p.Name),
		Email:  NormalizeEmail(p.Email),
		Phone:  NormalizePhone(p.Phone),
		Status: model.Status(strings.ToLower(strings.TrimSpace(p.Status))),
	}
}

// NormalizeEmail lowercases and trims an address. Two submissions that
// normalize to the same string are the same identity for duplicate
// detection.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips every non-digit character.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

func validateRegistrationEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

func validateRegistrationStatus(fl validator.FieldLevel) bool {
	switch model.Status(fl.Field().String()) {
	case model.StatusSingle, model.StatusCouple:
		return true
	}
	return false
}
