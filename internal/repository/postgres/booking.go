package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
)

const bookingColumns = `
	id, full_name, email, phone_number, appointment_type, preferred_date,
	preferred_time, address, reason_for_visit, medical_history, status,
	confirmation_code, created_at, updated_at`

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, full_name, email, phone_number, appointment_type, preferred_date,
			preferred_time, address, reason_for_visit, medical_history, status,
			confirmation_code, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.FullName,
		booking.Email,
		booking.PhoneNumber,
		booking.AppointmentType,
		booking.PreferredDate,
		booking.PreferredTime,
		booking.Address,
		booking.ReasonForVisit,
		booking.MedicalHistory,
		booking.Status,
		booking.ConfirmationCode,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", wrapDuplicate(err))
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, wrapNotFound(err)
	}
	return &booking, nil
}

func (r *bookingRepository) GetByConfirmationCode(ctx context.Context, code string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE confirmation_code = $1`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, code); err != nil {
		return nil, wrapNotFound(err)
	}
	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET appointment_type = $1, preferred_date = $2, preferred_time = $3,
			address = $4, reason_for_visit = $5, medical_history = $6,
			status = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		booking.AppointmentType,
		booking.PreferredDate,
		booking.PreferredTime,
		booking.Address,
		booking.ReasonForVisit,
		booking.MedicalHistory,
		booking.Status,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
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

func (r *bookingRepository) List(ctx context.Context, filter *model.BookingFilter) ([]*model.Booking, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(
			" AND (full_name ILIKE $%d OR email ILIKE $%d OR phone_number ILIKE $%d OR confirmation_code ILIKE $%d)",
			argCount, argCount, argCount, argCount,
		)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bookings"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	bookings := []*model.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *bookingRepository) HasActiveSlot(ctx context.Context, email, phone, date, timeBand string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE (email = $1 OR phone_number = $2)
			AND preferred_date = $3
			AND preferred_time = $4
			AND status IN ('Pending', 'Confirmed')
	`
	args := []interface{}{email, phone, date, timeBand}

	if excludeID != nil {
		query += " AND id != $5"
		args = append(args, *excludeID)
	}
	query += ")"

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("failed to check booking slot: %w", err)
	}
	return exists, nil
}
