package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/negatcare/clinic-api/internal/model"
	"github.com/negatcare/clinic-api/internal/repository"
	"github.com/negatcare/clinic-api/pkg/apperror"
)

const dateTimeLayout = "2006-01-02 15:04"

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository) *Service {
	return &Service{repo: repo, patients: patients}
}

// parseSlot combines the calendar date and "HH:MM" time into a local
// time. The guard below compares it against the wall clock once, with
// no skew tolerance; requests near the boundary may go either way.
func parseSlot(date, timeOfDay string) (time.Time, error) {
	return time.ParseInLocation(dateTimeLayout, date+" "+timeOfDay, time.Local)
}

// transitionAllowed is the whole state machine: every pair is allowed
// except moves out of Completed to anything but Cancelled (or
// re-stating Completed). Deliberately permissive; tightening it would
// change observable behavior.
func transitionAllowed(current, requested model.AppointmentStatus) bool {
	if current != model.AppointmentStatusCompleted {
		return true
	}
	return requested == model.AppointmentStatusCompleted || requested == model.AppointmentStatusCancelled
}

func (s *Service) Create(ctx context.Context, principal *model.Principal, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if (req.PatientID == nil) == (req.WalkInPatient == nil) {
		return nil, apperror.Validation("exactly one of patientId and walkInPatient is required")
	}
	if req.WalkInPatient != nil && (req.WalkInPatient.FullName == "" || req.WalkInPatient.PhoneNumber == "") {
		return nil, apperror.Validation("walk-in patient requires fullName and phoneNumber")
	}

	if req.PatientID != nil {
		if _, err := s.patients.Get(ctx, *req.PatientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("patient")
			}
			return nil, apperror.Internal(err)
		}
	}

	status := model.AppointmentStatusScheduled
	if req.Status != "" {
		status = model.AppointmentStatus(req.Status)
	}

	slot, err := parseSlot(req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return nil, apperror.Validation("appointmentDate must be YYYY-MM-DD and appointmentTime HH:MM")
	}
	// Backfilling a completed appointment is the one allowed past-date
	// write.
	if slot.Before(time.Now()) && status != model.AppointmentStatusCompleted {
		return nil, apperror.Validation("appointment cannot be scheduled in the past")
	}

	if req.AssignedTo != "" && status != model.AppointmentStatusCancelled {
		conflict, err := s.repo.HasSlotConflict(ctx, req.AppointmentDate, req.AppointmentTime, req.AssignedTo, nil)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if conflict {
			return nil, apperror.Conflict("staff already booked for this date and time")
		}
	}

	duration := req.Duration
	if duration == 0 {
		duration = model.DefaultAppointmentDuration
	}
	location := req.Location
	if location == "" {
		location = "Clinic"
	}

	now := time.Now()
	apt := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:       req.PatientID,
		WalkInPatient:   req.WalkInPatient,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Duration:        duration,
		Type:            req.Type,
		Location:        location,
		AssignedTo:      req.AssignedTo,
		Status:          status,
		Notes:           req.Notes,
		CreatedBy:       principal.UserID.String(),
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, apperror.Conflict("staff already booked for this date and time")
		}
		return nil, apperror.Internal(err)
	}
	return apt, nil
}

func (s *Service) Get(ctx context.Context, principal *model.Principal, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal(err)
	}
	if err := s.checkOwnership(principal, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, principal *model.Principal, filter *model.AppointmentFilter) ([]*model.Appointment, int, error) {
	// Plain users only ever see their own records, whatever filters
	// they pass.
	if principal.Role == model.RoleUser {
		filter.CreatedBy = principal.UserID.String()
	}

	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return appointments, total, nil
}

func (s *Service) Update(ctx context.Context, principal *model.Principal, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal(err)
	}
	if err := s.checkOwnership(principal, apt); err != nil {
		return nil, err
	}

	newStatus := apt.Status
	if req.Status != nil {
		newStatus = model.AppointmentStatus(*req.Status)
	}

	if apt.Status == model.AppointmentStatusCompleted {
		if !req.StatusOnly() {
			return nil, apperror.Validation("completed appointments can only have their status changed")
		}
		if !transitionAllowed(apt.Status, newStatus) {
			return nil, apperror.Validation("completed appointments can only be cancelled")
		}
	}

	slotChanged := req.AppointmentDate != nil || req.AppointmentTime != nil || req.AssignedTo != nil

	// Merge the partial update over the stored record.
	if req.PatientID != nil {
		if _, err := s.patients.Get(ctx, *req.PatientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound("patient")
			}
			return nil, apperror.Internal(err)
		}
		apt.PatientID = req.PatientID
		apt.WalkInPatient = nil
	}
	if req.WalkInPatient != nil {
		if req.WalkInPatient.FullName == "" || req.WalkInPatient.PhoneNumber == "" {
			return nil, apperror.Validation("walk-in patient requires fullName and phoneNumber")
		}
		apt.WalkInPatient = req.WalkInPatient
		apt.PatientID = nil
	}
	if req.AppointmentDate != nil {
		apt.AppointmentDate = *req.AppointmentDate
	}
	if req.AppointmentTime != nil {
		apt.AppointmentTime = *req.AppointmentTime
	}
	if req.Duration != nil {
		apt.Duration = *req.Duration
	}
	if req.Type != nil {
		apt.Type = *req.Type
	}
	if req.Location != nil {
		apt.Location = *req.Location
	}
	if req.AssignedTo != nil {
		apt.AssignedTo = *req.AssignedTo
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	apt.Status = newStatus

	// Status-only edits and completion backfills skip the past-date
	// guard.
	if !req.StatusOnly() && newStatus != model.AppointmentStatusCompleted {
		slot, err := parseSlot(apt.AppointmentDate, apt.AppointmentTime)
		if err != nil {
			return nil, apperror.Validation("appointmentDate must be YYYY-MM-DD and appointmentTime HH:MM")
		}
		if slot.Before(time.Now()) {
			return nil, apperror.Validation("appointment cannot be scheduled in the past")
		}
	}

	if slotChanged && newStatus != model.AppointmentStatusCancelled && apt.AssignedTo != "" {
		conflict, err := s.repo.HasSlotConflict(ctx, apt.AppointmentDate, apt.AppointmentTime, apt.AssignedTo, &apt.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if conflict {
			return nil, apperror.Conflict("staff already booked for this date and time")
		}
	}

	apt.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, apt); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, apperror.Conflict("staff already booked for this date and time")
		}
		return nil, apperror.Internal(err)
	}
	return apt, nil
}

// Cancel is the DELETE verb: a soft-cancel, permitted from any status.
func (s *Service) Cancel(ctx context.Context, principal *model.Principal, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("appointment")
		}
		return nil, apperror.Internal(err)
	}
	if err := s.checkOwnership(principal, apt); err != nil {
		return nil, err
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, apperror.Internal(err)
	}
	return apt, nil
}

func (s *Service) checkOwnership(principal *model.Principal, apt *model.Appointment) error {
	if principal.Role == model.RoleUser && apt.CreatedBy != principal.UserID.String() {
		return apperror.Forbidden("you can only access your own appointments")
	}
	return nil
}
