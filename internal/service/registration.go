package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"roobaroo/internal/model"
	"roobaroo/internal/repository"
	"roobaroo/internal/validator"

	"github.com/google/uuid"
)

// RegistrationService orchestrates one submission: validate, advisory
// duplicate pre-check, persist. The unique index behind the store is
// the authoritative duplicate defense; the pre-check only short-cuts
// the common case and cannot win a race between two submissions, so
// write-time duplicate errors get the same translation.
type RegistrationService struct {
	repo      repository.Repository
	validator *validator.Validator
	now       func() time.Time
}

type Option func(*RegistrationService)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *RegistrationService) { s.now = now }
}

func NewRegistrationService(repo repository.Repository, v *validator.Validator, opts ...Option) *RegistrationService {
	s := &RegistrationService{
		repo:      repo,
		validator: v,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and persists one registration. clientAddr is stored
// for audit only. On success the returned view is the confirmation the
// payment step consumes. A registration is either fully persisted or
// not persisted at all.
func (s *RegistrationService) Submit(ctx context.Context, payload validator.Payload, clientAddr string) (model.RegistrationView, error) {
	norm, violations := s.validator.ValidateRegistration(payload)
	if violations.Any() {
		return model.RegistrationView{}, &ValidationError{
			MissingFields: violations.Missing,
			Details:       violations.Messages,
		}
	}

	slog.InfoContext(ctx, "New registration request received",
		"name", norm.Name,
		"email", maskEmail(norm.Email),
		"status", norm.Status,
	)

	// Advisory fast path; the unique index below is what actually
	// guarantees at-most-one-registration-per-email.
	_, err := s.repo.GetRegistrationByEmail(ctx, norm.Email)
	switch {
	case err == nil:
		return model.RegistrationView{}, ErrDuplicateEmail
	case errors.Is(err, repository.ErrRegistrationNotFound):
		// Not registered yet; proceed.
	default:
		return model.RegistrationView{}, err
	}

	reg := model.Registration{
		ID:               uuid.NewString(),
		Name:             norm.Name,
		Email:            norm.Email,
		Phone:            norm.Phone,
		Status:           norm.Status,
		PaymentStatus:    model.PaymentPending,
		RegistrationDate: s.now(),
		IPAddress:        clientAddr,
	}

	created, err := s.repo.CreateRegistration(ctx, reg)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the race against a concurrent submission with the
			// same email.
			return model.RegistrationView{}, ErrDuplicateEmail
		}
		return model.RegistrationView{}, err
	}

	slog.InfoContext(ctx, "Registration saved",
		"id", created.ID,
		"email", maskEmail(created.Email),
	)

	return created.View(s.now()), nil
}

// Stats aggregates registration counts for the stats endpoint.
func (s *RegistrationService) Stats(ctx context.Context) (model.Stats, error) {
	total, err := s.repo.CountRegistrations(ctx, repository.Filter{})
	if err != nil {
		return model.Stats{}, err
	}

	single, err := s.repo.CountRegistrations(ctx, repository.Filter{Status: model.StatusSingle})
	if err != nil {
		return model.Stats{}, err
	}

	couple, err := s.repo.CountRegistrations(ctx, repository.Filter{Status: model.StatusCouple})
	if err != nil {
		return model.Stats{}, err
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.repo.CountRegistrations(ctx, repository.Filter{RegisteredSince: startOfDay})
	if err != nil {
		return model.Stats{}, err
	}

	return model.Stats{
		TotalRegistrations:  total,
		SingleRegistrations: single,
		CoupleRegistrations: couple,
		TodayRegistrations:  today,
		LastUpdated:         now,
	}, nil
}

// ProbeDatabase exercises one store round trip and returns the total
// registration count, for the connectivity test endpoint.
func (s *RegistrationService) ProbeDatabase(ctx context.Context) (int64, error) {
	return s.repo.CountRegistrations(ctx, repository.Filter{})
}

// maskEmail hides most of the local part for logs: jo***@example.com.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	keep := at
	if keep > 3 {
		keep = 3
	}
	return email[:keep] + "***" + email[at:]
}
