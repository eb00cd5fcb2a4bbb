package repository

import (
	"context"
	"sync"
	"time"

	"roobaroo/internal/model"
)

// MemoryRepository keeps registrations in process memory with the same
// contract as the Mongo store, including the write-time uniqueness
// check. Used by tests and local development without a database.
type MemoryRepository struct {
	mu      sync.Mutex
	byEmail map[string]model.Registration
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byEmail: make(map[string]model.Registration),
	}
}

func (r *MemoryRepository) CreateRegistration(_ context.Context, reg model.Registration) (model.Registration, error) {
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[reg.Email]; exists {
		return model.Registration{}, ErrDuplicateEmail
	}
	r.byEmail[reg.Email] = reg
	return reg, nil
}

func (r *MemoryRepository) GetRegistrationByEmail(_ context.Context, email string) (model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.byEmail[email]
	if !ok {
		return model.Registration{}, ErrRegistrationNotFound
	}
	return reg, nil
}

func (r *MemoryRepository) CountRegistrations(_ context.Context, filter Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, reg := range r.byEmail {
		if filter.Status != "" && reg.Status != filter.Status {
			continue
		}
		if !filter.RegisteredSince.IsZero() && reg.RegistrationDate.Before(filter.RegisteredSince) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *MemoryRepository) EnsureIndexes(context.Context) error {
	return nil
}

func (r *MemoryRepository) HealthCheck(context.Context) error {
	return nil
}
