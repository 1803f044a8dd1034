package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "No-show"
)

// AppointmentStatuses lists every valid status value.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

const DefaultAppointmentDuration = 30

// WalkInPatient identifies an appointment subject not present in the
// patients table.
type WalkInPatient struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

func (w WalkInPatient) Value() (driver.Value, error) { return json.Marshal(w) }

func (w *WalkInPatient) Scan(src interface{}) error { return scanJSON(w, src) }

// Appointment is a scheduled clinic slot. Exactly one of PatientID and
// WalkInPatient is set. Dates are calendar dates ("2006-01-02") and
// times free-text "HH:MM", matching what the booking forms submit.
type Appointment struct {
	Base
	PatientID       *uuid.UUID        `json:"patientId,omitempty" db:"patient_id"`
	WalkInPatient   *WalkInPatient    `json:"walkInPatient,omitempty" db:"walk_in_patient"`
	AppointmentDate string            `json:"appointmentDate" db:"appointment_date"`
	AppointmentTime string            `json:"appointmentTime" db:"appointment_time"`
	Duration        int               `json:"duration" db:"duration"`
	Type            string            `json:"type" db:"type"`
	Location        string            `json:"location" db:"location"`
	AssignedTo      string            `json:"assignedTo,omitempty" db:"assigned_to"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Notes           string            `json:"notes,omitempty" db:"notes"`
	CreatedBy       string            `json:"createdBy" db:"created_by"`
	ReminderSent    bool              `json:"reminderSent" db:"reminder_sent"`
}

type CreateAppointmentRequest struct {
	PatientID       *uuid.UUID     `json:"patientId"`
	WalkInPatient   *WalkInPatient `json:"walkInPatient"`
	AppointmentDate string         `json:"appointmentDate" binding:"required"`
	AppointmentTime string         `json:"appointmentTime" binding:"required,hhmm"`
	Duration        int            `json:"duration" binding:"omitempty,min=5,max=480"`
	Type            string         `json:"type" binding:"required,oneof='General Consultation' 'Follow-up' 'Lab Result Review' 'Medication Review' 'Home Visit' 'Emergency' 'Other'"`
	Location        string         `json:"location" binding:"omitempty,oneof='Clinic' 'Home Visit' 'Phone Consultation' 'Other'"`
	AssignedTo      string         `json:"assignedTo"`
	Status          string         `json:"status" binding:"omitempty,oneof='Scheduled' 'Confirmed' 'Completed' 'Cancelled' 'No-show'"`
	Notes           string         `json:"notes" binding:"max=2000"`
}

type UpdateAppointmentRequest struct {
	PatientID       *uuid.UUID     `json:"patientId"`
	WalkInPatient   *WalkInPatient `json:"walkInPatient"`
	AppointmentDate *string        `json:"appointmentDate"`
	AppointmentTime *string        `json:"appointmentTime" binding:"omitempty,hhmm"`
	Duration        *int           `json:"duration" binding:"omitempty,min=5,max=480"`
	Type            *string        `json:"type" binding:"omitempty,oneof='General Consultation' 'Follow-up' 'Lab Result Review' 'Medication Review' 'Home Visit' 'Emergency' 'Other'"`
	Location        *string        `json:"location" binding:"omitempty,oneof='Clinic' 'Home Visit' 'Phone Consultation' 'Other'"`
	AssignedTo      *string        `json:"assignedTo"`
	Status          *string        `json:"status" binding:"omitempty,oneof='Scheduled' 'Confirmed' 'Completed' 'Cancelled' 'No-show'"`
	Notes           *string        `json:"notes" binding:"omitempty,max=2000"`
}

// StatusOnly reports whether the update touches nothing but status.
func (r *UpdateAppointmentRequest) StatusOnly() bool {
	return r.PatientID == nil && r.WalkInPatient == nil &&
		r.AppointmentDate == nil && r.AppointmentTime == nil &&
		r.Duration == nil && r.Type == nil && r.Location == nil &&
		r.AssignedTo == nil && r.Notes == nil
}

type AppointmentFilter struct {
	Status    AppointmentStatus
	Search    string
	Upcoming  bool
	CreatedBy string
	Limit     int
	Offset    int
}
