package domain

import (
	"time"

	"github.com/google/uuid"
)

// Canonical field names every imported column is mapped onto.
const (
	FieldName          = "name"
	FieldTaxID         = "taxId"
	FieldRegion        = "region"
	FieldContactPerson = "contactPerson"
	FieldPhone         = "phone"
	FieldEmail         = "email"
)

// ContactCandidate is a validated record waiting to be persisted.
// Name, TaxID and Phone are guaranteed non-empty and normalized once a
// candidate has passed validation.
type ContactCandidate struct {
	Name          string `json:"name"`
	TaxID         string `json:"taxId"`
	Phone         string `json:"phone"`
	Region        string `json:"region,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Contact represents a persisted contact row owned by a user.
type Contact struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Name          string    `json:"name"`
	TaxID         string    `json:"tax_id"`
	Phone         string    `json:"phone"`
	Region        string    `json:"region,omitempty"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewContact stamps a candidate with an identity and an owning user.
func NewContact(ownerID uuid.UUID, candidate ContactCandidate) Contact {
	now := time.Now()
	return Contact{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Name:          candidate.Name,
		TaxID:         candidate.TaxID,
		Phone:         candidate.Phone,
		Region:        candidate.Region,
		ContactPerson: candidate.ContactPerson,
		Email:         candidate.Email,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
