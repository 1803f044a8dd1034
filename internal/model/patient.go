package model

import (
	"database/sql/driver"
	"encoding/json"
)

// Condition is a single entry in a patient's condition history.
type Condition struct {
	Name          string `json:"name"`
	DiagnosedYear string `json:"diagnosedYear,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Medication is a current or past medication entry.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

type SocialHistory struct {
	Smoking    string `json:"smoking,omitempty"`
	Alcohol    string `json:"alcohol,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// MedicalHistory is the embedded history sub-document on a patient.
type MedicalHistory struct {
	Conditions    []Condition   `json:"conditions,omitempty"`
	Medications   []Medication  `json:"medications,omitempty"`
	SocialHistory SocialHistory `json:"socialHistory,omitempty"`
	Allergies     []string      `json:"allergies,omitempty"`
}

func (h MedicalHistory) Value() (driver.Value, error) { return json.Marshal(h) }

func (h *MedicalHistory) Scan(src interface{}) error { return scanJSON(h, src) }

// Patient is a registered clinic patient. PatientID is the clinic's
// human-readable identifier and is unique, as is PhoneNumber.
type Patient struct {
	Base
	PatientID        string         `json:"patientId" db:"patient_id"`
	FirstName        string         `json:"firstName" db:"first_name"`
	LastName         string         `json:"lastName" db:"last_name"`
	Gender           string         `json:"gender" db:"gender"`
	DateOfBirth      string         `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	PhoneNumber      string         `json:"phoneNumber" db:"phone_number"`
	Email            string         `json:"email,omitempty" db:"email"`
	Address          string         `json:"address,omitempty" db:"address"`
	EmergencyContact string         `json:"emergencyContact,omitempty" db:"emergency_contact"`
	MedicalHistory   MedicalHistory `json:"medicalHistory" db:"medical_history"`
	ConsentGiven     bool           `json:"consentGiven" db:"consent_given"`
}

type CreatePatientRequest struct {
	PatientID        string          `json:"patientId" binding:"required"`
	FirstName        string          `json:"firstName" binding:"required"`
	LastName         string          `json:"lastName" binding:"required"`
	Gender           string          `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	DateOfBirth      string          `json:"dateOfBirth"`
	PhoneNumber      string          `json:"phoneNumber" binding:"required"`
	Email            string          `json:"email" binding:"omitempty,email"`
	Address          string          `json:"address"`
	EmergencyContact string          `json:"emergencyContact"`
	MedicalHistory   *MedicalHistory `json:"medicalHistory"`
	ConsentGiven     bool            `json:"consentGiven"`
}

type UpdatePatientRequest struct {
	FirstName        *string         `json:"firstName"`
	LastName         *string         `json:"lastName"`
	Gender           *string         `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	DateOfBirth      *string         `json:"dateOfBirth"`
	PhoneNumber      *string         `json:"phoneNumber"`
	Email            *string         `json:"email" binding:"omitempty,email"`
	Address          *string         `json:"address"`
	EmergencyContact *string         `json:"emergencyContact"`
	MedicalHistory   *MedicalHistory `json:"medicalHistory"`
}

type PatientFilter struct {
	Search string
	Limit  int
	Offset int
}
