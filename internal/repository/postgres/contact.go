package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
)

const contactColumns = `
	id, name, email, phone_number, subject, message, status, is_read,
	created_at, updated_at`

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	query := `
		INSERT INTO contacts (
			id, name, email, phone_number, subject, message, status, is_read,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.PhoneNumber,
		contact.Subject,
		contact.Message,
		contact.Status,
		contact.IsRead,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *contactRepository) Get(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	var contact model.Contact
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		return nil, wrapNotFound(err)
	}
	return &contact, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *model.Contact) error {
	query := `
		UPDATE contacts
		SET status = $1, is_read = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		contact.Status,
		contact.IsRead,
		contact.UpdatedAt,
		contact.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context, filter *model.ContactFilter) ([]*model.Contact, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}
	if filter.IsRead != nil {
		where += fmt.Sprintf(" AND is_read = $%d", argCount)
		args = append(args, *filter.IsRead)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM contacts"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := `SELECT ` + contactColumns + ` FROM contacts` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	contacts := []*model.Contact{}
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, total, nil
}
