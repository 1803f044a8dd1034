package model

import (
	"database/sql/driver"
	"encoding/json"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "Pending"
	BookingStatusConfirmed  BookingStatus = "Confirmed"
	BookingStatusInProgress BookingStatus = "In Progress"
	BookingStatusCompleted  BookingStatus = "Completed"
	BookingStatusCancelled  BookingStatus = "Cancelled"
)

const DefaultBookingType = "Home Medical Checkup"

// ConfirmationCodePrefix prefixes every booking confirmation code.
const ConfirmationCodePrefix = "NAC"

// Preferred time bands offered on the public booking form.
const (
	TimeBandMorning   = "Morning (8AM-12PM)"
	TimeBandAfternoon = "Afternoon (12PM-4PM)"
	TimeBandEvening   = "Evening (4PM-8PM)"
)

// BookingAddress is the home-visit address sub-document.
type BookingAddress struct {
	SubCity         string `json:"subCity,omitempty"`
	Landmark        string `json:"landmark,omitempty"`
	SpecificAddress string `json:"specificAddress,omitempty"`
}

func (a BookingAddress) Value() (driver.Value, error) { return json.Marshal(a) }

func (a *BookingAddress) Scan(src interface{}) error { return scanJSON(a, src) }

// Booking is a public appointment request made without a login. The
// confirmation code lets the requester look it up later.
type Booking struct {
	Base
	FullName         string         `json:"fullName" db:"full_name"`
	Email            string         `json:"email" db:"email"`
	PhoneNumber      string         `json:"phoneNumber" db:"phone_number"`
	AppointmentType  string         `json:"appointmentType" db:"appointment_type"`
	PreferredDate    string         `json:"preferredDate" db:"preferred_date"`
	PreferredTime    string         `json:"preferredTime" db:"preferred_time"`
	Address          BookingAddress `json:"address" db:"address"`
	ReasonForVisit   string         `json:"reasonForVisit,omitempty" db:"reason_for_visit"`
	MedicalHistory   string         `json:"medicalHistory,omitempty" db:"medical_history"`
	Status           BookingStatus  `json:"status" db:"status"`
	ConfirmationCode string         `json:"confirmationCode" db:"confirmation_code"`
}

type CreateBookingRequest struct {
	FullName        string          `json:"fullName" binding:"required"`
	Email           string          `json:"email" binding:"required,email"`
	PhoneNumber     string          `json:"phoneNumber" binding:"required"`
	AppointmentType string          `json:"appointmentType"`
	PreferredDate   string          `json:"preferredDate" binding:"required"`
	PreferredTime   string          `json:"preferredTime" binding:"required,oneof='Morning (8AM-12PM)' 'Afternoon (12PM-4PM)' 'Evening (4PM-8PM)'"`
	Address         *BookingAddress `json:"address"`
	ReasonForVisit  string          `json:"reasonForVisit"`
	MedicalHistory  string          `json:"medicalHistory"`
}

type UpdateBookingRequest struct {
	AppointmentType *string         `json:"appointmentType"`
	PreferredDate   *string         `json:"preferredDate"`
	PreferredTime   *string         `json:"preferredTime" binding:"omitempty,oneof='Morning (8AM-12PM)' 'Afternoon (12PM-4PM)' 'Evening (4PM-8PM)'"`
	Address         *BookingAddress `json:"address"`
	ReasonForVisit  *string         `json:"reasonForVisit"`
	MedicalHistory  *string         `json:"medicalHistory"`
	Status          *string         `json:"status" binding:"omitempty,oneof='Pending' 'Confirmed' 'In Progress' 'Completed' 'Cancelled'"`
}

type BookingFilter struct {
	Status BookingStatus
	Search string
	Limit  int
	Offset int
}
