package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
)

const appointmentColumns = `
	id, patient_id, walk_in_patient, appointment_date, appointment_time,
	duration, type, location, assigned_to, status, notes, created_by,
	reminder_sent, created_at, updated_at`

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, walk_in_patient, appointment_date, appointment_time,
			duration, type, location, assigned_to, status, notes, created_by,
			reminder_sent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.WalkInPatient,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.Duration,
		apt.Type,
		apt.Location,
		apt.AssignedTo,
		apt.Status,
		apt.Notes,
		apt.CreatedBy,
		apt.ReminderSent,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", wrapDuplicate(err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, wrapNotFound(err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, walk_in_patient = $2, appointment_date = $3,
			appointment_time = $4, duration = $5, type = $6, location = $7,
			assigned_to = $8, status = $9, notes = $10, reminder_sent = $11,
			updated_at = $12
		WHERE id = $13
	`
	result, err := r.db.ExecContext(ctx, query,
		apt.PatientID,
		apt.WalkInPatient,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.Duration,
		apt.Type,
		apt.Location,
		apt.AssignedTo,
		apt.Status,
		apt.Notes,
		apt.ReminderSent,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", wrapDuplicate(err))
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

func (r *appointmentRepository) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}
	if filter.CreatedBy != "" {
		where += fmt.Sprintf(" AND created_by = $%d", argCount)
		args = append(args, filter.CreatedBy)
		argCount++
	}
	if filter.Upcoming {
		where += fmt.Sprintf(" AND appointment_date >= $%d AND status IN ('Scheduled', 'Confirmed')", argCount)
		args = append(args, time.Now().Format("2006-01-02"))
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(
			" AND (assigned_to ILIKE $%d OR notes ILIKE $%d OR walk_in_patient->>'fullName' ILIKE $%d)",
			argCount, argCount, argCount,
		)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM appointments"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments` + where +
		fmt.Sprintf(" ORDER BY appointment_date ASC, appointment_time ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (r *appointmentRepository) HasSlotConflict(ctx context.Context, date, timeOfDay, assignedTo string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE appointment_date = $1
			AND appointment_time = $2
			AND assigned_to = $3
			AND status IN ('Scheduled', 'Confirmed')
	`
	args := []interface{}{date, timeOfDay, assignedTo}

	if excludeID != nil {
		query += " AND id != $4"
		args = append(args, *excludeID)
	}
	query += ")"

	var conflict bool
	if err := r.db.GetContext(ctx, &conflict, query, args...); err != nil {
		return false, fmt.Errorf("failed to check slot conflict: %w", err)
	}
	return conflict, nil
}

func (r *appointmentRepository) ListDueReminders(ctx context.Context, date string) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appointment_date = $1
		AND status IN ('Scheduled', 'Confirmed')
		AND reminder_sent = FALSE
		ORDER BY appointment_time ASC
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, date); err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE appointments SET reminder_sent = TRUE, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
