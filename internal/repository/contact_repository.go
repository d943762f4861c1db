package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpattn/contactsvc/internal/db"
	"github.com/rpattn/contactsvc/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const contactColumns = `id, owner_id, name, tax_id, phone, region, contact_person, email, created_at, updated_at`

// contactRepository implements ContactRepository backed by the shared
// connection pool.
type contactRepository struct {
	conn *db.Connection
}

// NewContactRepository wires a repository backed by the database connection.
func NewContactRepository(conn *db.Connection) ContactRepository {
	return &contactRepository{conn: conn}
}

// Create inserts a single contact.
func (r *contactRepository) Create(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	row := r.conn.Pool.QueryRow(
		ctx,
		`INSERT INTO contacts (id, owner_id, name, tax_id, phone, region, contact_person, email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+contactColumns,
		contact.ID,
		contact.OwnerID,
		contact.Name,
		contact.TaxID,
		contact.Phone,
		nullable(contact.Region),
		nullable(contact.ContactPerson),
		nullable(contact.Email),
	)

	created, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return created, nil
}

// BulkUpsert saves a whole import batch with one statement. The conflict
// target is the owner-scoped composite identity; on conflict only the
// mutable fields are refreshed so re-importing a contact never duplicates it
// and never reassigns it to another owner.
func (r *contactRepository) BulkUpsert(ctx context.Context, contacts []domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(contacts))
	args := make([]any, 0, len(contacts)*8)
	for i, contact := range contacts {
		base := i * 8
		placeholders = append(placeholders, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8,
		))
		args = append(args,
			contact.ID,
			contact.OwnerID,
			contact.Name,
			contact.TaxID,
			contact.Phone,
			nullable(contact.Region),
			nullable(contact.ContactPerson),
			nullable(contact.Email),
		)
	}

	query := `INSERT INTO contacts (id, owner_id, name, tax_id, phone, region, contact_person, email)
		 VALUES ` + strings.Join(placeholders, ", ") + `
		 ON CONFLICT (owner_id, name, tax_id, phone) DO UPDATE SET
		 region = EXCLUDED.region,
		 contact_person = EXCLUDED.contact_person,
		 email = EXCLUDED.email,
		 updated_at = now()`

	// One transaction per import batch: either every row lands or none do.
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to bulk upsert contacts: %w", err)
	}
	return nil
}

// GetByID retrieves one contact scoped to its owner.
func (r *contactRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Contact, error) {
	row := r.conn.Pool.QueryRow(
		ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)

	contact, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// Update rewrites the mutable fields of one owned contact.
func (r *contactRepository) Update(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	row := r.conn.Pool.QueryRow(
		ctx,
		`UPDATE contacts
		 SET region = $3, contact_person = $4, email = $5, updated_at = now()
		 WHERE owner_id = $1 AND id = $2
		 RETURNING `+contactColumns,
		contact.OwnerID,
		contact.ID,
		nullable(contact.Region),
		nullable(contact.ContactPerson),
		nullable(contact.Email),
	)

	updated, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return updated, nil
}

// List returns one page of an owner's contacts plus the total count.
func (r *contactRepository) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Contact, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.Pool.Query(
		ctx,
		`SELECT `+contactColumns+`, count(*) OVER() AS total_count
		 FROM contacts
		 WHERE owner_id = $1
		 ORDER BY name, created_at
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	totalCount := 0
	for rows.Next() {
		var (
			contact       domain.Contact
			region        pgtype.Text
			contactPerson pgtype.Text
			email         pgtype.Text
		)
		if scanErr := rows.Scan(
			&contact.ID,
			&contact.OwnerID,
			&contact.Name,
			&contact.TaxID,
			&contact.Phone,
			&region,
			&contactPerson,
			&email,
			&contact.CreatedAt,
			&contact.UpdatedAt,
			&totalCount,
		); scanErr != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", scanErr)
		}
		contact.Region = region.String
		contact.ContactPerson = contactPerson.String
		contact.Email = email.String
		contacts = append(contacts, contact)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, fmt.Errorf("failed to iterate contacts: %w", rowsErr)
	}

	return contacts, totalCount, nil
}

// Count returns the number of contacts an owner holds.
func (r *contactRepository) Count(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn.Pool.QueryRow(ctx, `SELECT count(*) FROM contacts WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (domain.Contact, error) {
	var (
		contact       domain.Contact
		region        pgtype.Text
		contactPerson pgtype.Text
		email         pgtype.Text
	)
	if err := row.Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.Name,
		&contact.TaxID,
		&contact.Phone,
		&region,
		&contactPerson,
		&email,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	); err != nil {
		return domain.Contact{}, err
	}
	contact.Region = region.String
	contact.ContactPerson = contactPerson.String
	contact.Email = email.String
	return contact, nil
}

func nullable(value string) pgtype.Text {
	return pgtype.Text{String: value, Valid: value != ""}
}
