package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
)

const labResultColumns = `
	id, patient_id, visit_id, test_date, tests, result_summary, review,
	created_by, created_at, updated_at`

type labResultRepository struct {
	db *sqlx.DB
}

func NewLabResultRepository(db *sqlx.DB) repository.LabResultRepository {
	return &labResultRepository{db: db}
}

func (r *labResultRepository) Create(ctx context.Context, result *model.LabResult) error {
	query := `
		INSERT INTO lab_results (
			id, patient_id, visit_id, test_date, tests, result_summary, review,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.PatientID,
		result.VisitID,
		result.TestDate,
		result.Tests,
		result.ResultSummary,
		result.Review,
		result.CreatedBy,
		result.CreatedAt,
		result.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lab result: %w", err)
	}
	return nil
}

func (r *labResultRepository) Get(ctx context.Context, id uuid.UUID) (*model.LabResult, error) {
	query := `SELECT ` + labResultColumns + ` FROM lab_results WHERE id = $1`
	var result model.LabResult
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return nil, wrapNotFound(err)
	}
	return &result, nil
}

func (r *labResultRepository) Update(ctx context.Context, labResult *model.LabResult) error {
	query := `
		UPDATE lab_results
		SET test_date = $1, tests = $2, result_summary = $3, review = $4,
			updated_at = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		labResult.TestDate,
		labResult.Tests,
		labResult.ResultSummary,
		labResult.Review,
		labResult.UpdatedAt,
		labResult.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lab result: %w", err)
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

func (r *labResultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lab_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lab result: %w", err)
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

func (r *labResultRepository) List(ctx context.Context, filter *model.LabResultFilter) ([]*model.LabResult, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.PatientID != nil {
		where += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, *filter.PatientID)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM lab_results"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count lab results: %w", err)
	}

	query := `SELECT ` + labResultColumns + ` FROM lab_results` + where +
		fmt.Sprintf(" ORDER BY test_date DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	results := []*model.LabResult{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list lab results: %w", err)
	}
	return results, total, nil
}
