package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/negatcare/clinic-api/config"
	"github.com/negatcare/clinic-api/internal/repository"
)

// NewDB opens and pings a Postgres connection.
func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	return db, nil
}

// wrapNotFound converts sql.ErrNoRows into the repository sentinel.
func wrapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// duplicateField maps a pq unique-violation to the offending field
// name, derived from the constraint's column naming convention.
func duplicateField(err error) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return "", false
	}
	switch {
	case strings.Contains(pqErr.Constraint, "patient_id"):
		return "patientId", true
	case strings.Contains(pqErr.Constraint, "phone_number"):
		return "phoneNumber", true
	case strings.Contains(pqErr.Constraint, "username"):
		return "username", true
	case strings.Contains(pqErr.Constraint, "confirmation_code"):
		return "confirmationCode", true
	case strings.Contains(pqErr.Constraint, "slot"):
		return "slot", true
	default:
		return pqErr.Constraint, true
	}
}

// wrapDuplicate converts a pq unique-violation into a DuplicateError.
func wrapDuplicate(err error) error {
	if field, ok := duplicateField(err); ok {
		return &repository.DuplicateError{Field: field}
	}
	return err
}
