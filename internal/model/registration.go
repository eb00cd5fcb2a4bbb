package model

import (
	"time"
)

// Status is the attendance type chosen on the form.
type Status string

const (
	StatusSingle Status = "single"
	StatusCouple Status = "couple"
)

// PaymentStatus tracks the downstream payment step. Registrations are
// created as pending; this service never transitions the value itself.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Registration is the persisted record of one attendee signup.
// The email is unique across the collection; IPAddress is stored for
// audit only and never returned to clients.
type Registration struct {
	ID               string        `bson:"_id" json:"id"`
	Name             string        `bson:"name" json:"name"`
	Email            string        `bson:"email" json:"email"`
	Phone            string        `bson:"phone" json:"phone"`
	Status           Status        `bson:"status" json:"status"`
	PaymentStatus    PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	RegistrationDate time.Time     `bson:"registration_date" json:"registrationDate"`
	IPAddress        string        `bson:"ip_address,omitempty" json:"-"`
	CreatedAt        time.Time     `bson:"created_at" json:"-"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"-"`
}

// RegistrationView is the confirmation payload returned to the client
// after a successful submission. The payment step consumes it as-is.
type RegistrationView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Status           Status    `json:"status"`
	RegistrationDate time.Time `json:"registrationDate"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// View projects the public confirmation fields of a registration.
func (r Registration) View(submittedAt time.Time) RegistrationView {
	return RegistrationView{
		ID:               r.ID,
		Name:             r.Name,
		Email:            r.Email,
		Status:           r.Status,
		RegistrationDate: r.RegistrationDate,
		SubmittedAt:      submittedAt,
	}
}

// Stats is the aggregate view served by the stats endpoint.
type Stats struct {
	TotalRegistrations  int64     `json:"totalRegistrations"`
	SingleRegistrations int64     `json:"singleRegistrations"`
	CoupleRegistrations int64     `json:"coupleRegistrations"`
	TodayRegistrations  int64     `json:"todayRegistrations"`
	LastUpdated         time.Time `json:"lastUpdated"`
}
