package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
)

const patientColumns = `
	id, patient_id, first_name, last_name, gender, date_of_birth,
	phone_number, email, address, emergency_contact, medical_history,
	consent_given, created_at, updated_at`

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, patient_id, first_name, last_name, gender, date_of_birth,
			phone_number, email, address, emergency_contact, medical_history,
			consent_given, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.PatientID,
		patient.FirstName,
		patient.LastName,
		patient.Gender,
		patient.DateOfBirth,
		patient.PhoneNumber,
		patient.Email,
		patient.Address,
		patient.EmergencyContact,
		patient.MedicalHistory,
		patient.ConsentGiven,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", wrapDuplicate(err))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, wrapNotFound(err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByPatientID(ctx context.Context, patientID string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE patient_id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, patientID); err != nil {
		return nil, wrapNotFound(err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByPhoneNumber(ctx context.Context, phone string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE phone_number = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, phone); err != nil {
		return nil, wrapNotFound(err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, gender = $3, date_of_birth = $4,
			phone_number = $5, email = $6, address = $7, emergency_contact = $8,
			medical_history = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Gender,
		patient.DateOfBirth,
		patient.PhoneNumber,
		patient.Email,
		patient.Address,
		patient.EmergencyContact,
		patient.MedicalHistory,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", wrapDuplicate(err))
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

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
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

func (r *patientRepository) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error) {
	where := ""
	args := []interface{}{}
	argCount := 1

	if filter.Search != "" {
		where = fmt.Sprintf(
			" WHERE (first_name || ' ' || last_name) ILIKE $%d OR patient_id ILIKE $%d OR phone_number ILIKE $%d",
			argCount, argCount, argCount,
		)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM patients"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := `SELECT ` + patientColumns + ` FROM patients` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}
