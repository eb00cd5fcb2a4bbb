package repository

import (
	"context"
	"errors"
	"time"

	"roobaroo/internal/model"
)

// Storage outcomes the service layer matches on. Anything the backend
// produces is classified into one of these before it leaves this
// package; raw driver errors never cross the boundary.
var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrSchemaValidation     = errors.New("document failed schema validation")
	ErrConnection           = errors.New("database connection failed")
	ErrStorage              = errors.New("storage error")
)

// Filter narrows CountRegistrations. Zero values mean "any".
type Filter struct {
	Status          model.Status
	RegisteredSince time.Time
}

// Repository is the registration store contract. The unique email
// index behind CreateRegistration is the authoritative duplicate
// defense; GetRegistrationByEmail exists for the advisory pre-check
// and must not be relied on alone.
type Repository interface {
	CreateRegistration(ctx context.Context, reg model.Registration) (model.Registration, error)
	GetRegistrationByEmail(ctx context.Context, email string) (model.Registration, error)
	CountRegistrations(ctx context.Context, filter Filter) (int64, error)
	EnsureIndexes(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
