package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
)

const visitColumns = `
	id, patient_id, visit_date, vital_signs, general_exam, systems_review,
	assessment, plan, notes, created_by, created_at, updated_at`

type visitRepository struct {
	db *sqlx.DB
}

func NewVisitRepository(db *sqlx.DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (
			id, patient_id, visit_date, vital_signs, general_exam, systems_review,
			assessment, plan, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		visit.ID,
		visit.PatientID,
		visit.VisitDate,
		visit.VitalSigns,
		visit.GeneralExam,
		visit.SystemsReview,
		visit.Assessment,
		visit.Plan,
		visit.Notes,
		visit.CreatedBy,
		visit.CreatedAt,
		visit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = $1`
	var visit model.Visit
	if err := r.db.GetContext(ctx, &visit, query, id); err != nil {
		return nil, wrapNotFound(err)
	}
	return &visit, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit) error {
	query := `
		UPDATE visits
		SET visit_date = $1, vital_signs = $2, general_exam = $3,
			systems_review = $4, assessment = $5, plan = $6, notes = $7,
			updated_at = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		visit.VisitDate,
		visit.VitalSigns,
		visit.GeneralExam,
		visit.SystemsReview,
		visit.Assessment,
		visit.Plan,
		visit.Notes,
		visit.UpdatedAt,
		visit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update visit: %w", err)
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

func (r *visitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
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

func (r *visitRepository) List(ctx context.Context, filter *model.VisitFilter) ([]*model.Visit, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.PatientID != nil {
		where += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, *filter.PatientID)
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(
			" AND (assessment ILIKE $%d OR plan ILIKE $%d OR notes ILIKE $%d)",
			argCount, argCount, argCount,
		)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM visits"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count visits: %w", err)
	}

	query := `SELECT ` + visitColumns + ` FROM visits` + where +
		fmt.Sprintf(" ORDER BY visit_date DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	visits := []*model.Visit{}
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, total, nil
}
