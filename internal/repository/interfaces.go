package repository

import (
	"context"

	"github.com/rpattn/contactsvc/internal/domain"

	"github.com/google/uuid"
)

// ContactRepository defines the storage operations the import pipeline and
// the read-side endpoints depend on.
type ContactRepository interface {
	Create(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	// BulkUpsert inserts all contacts in one atomic statement. A conflict on
	// the owner-scoped (name, tax_id, phone) key updates only the mutable
	// fields region, contact_person and email; identity fields and the owner
	// are left untouched. Any error is a genuine storage failure.
	BulkUpsert(ctx context.Context, contacts []domain.Contact) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Contact, error)
	// Update rewrites the mutable fields (region, contact_person, email) of
	// one owned contact. Identity fields and the owner are never changed.
	Update(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Contact, int, error)
	Count(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
