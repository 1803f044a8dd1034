package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// Findings for a single body system in the systems review.
const (
	FindingNormal   = "Normal"
	FindingAbnormal = "Abnormal"
	FindingNone     = ""
)

type VitalSigns struct {
	BloodPressure    string `json:"bloodPressure,omitempty"`
	PulseRate        string `json:"pulseRate,omitempty"`
	Temperature      string `json:"temperature,omitempty"`
	RespiratoryRate  string `json:"respiratoryRate,omitempty"`
	OxygenSaturation string `json:"oxygenSaturation,omitempty"`
	Weight           string `json:"weight,omitempty"`
}

func (v VitalSigns) Value() (driver.Value, error) { return json.Marshal(v) }

func (v *VitalSigns) Scan(src interface{}) error { return scanJSON(v, src) }

// SystemsReview maps a body system name to a finding (Normal, Abnormal
// or empty when not examined).
type SystemsReview map[string]string

func (s SystemsReview) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SystemsReview) Scan(src interface{}) error { return scanJSON(s, src) }

// Visit is a home-visit clinical record for a registered patient.
type Visit struct {
	Base
	PatientID     uuid.UUID     `json:"patientId" db:"patient_id"`
	VisitDate     string        `json:"visitDate" db:"visit_date"`
	VitalSigns    VitalSigns    `json:"vitalSigns" db:"vital_signs"`
	GeneralExam   string        `json:"generalExam,omitempty" db:"general_exam"`
	SystemsReview SystemsReview `json:"systemsReview" db:"systems_review"`
	Assessment    string        `json:"assessment,omitempty" db:"assessment"`
	Plan          string        `json:"plan,omitempty" db:"plan"`
	Notes         string        `json:"notes,omitempty" db:"notes"`
	CreatedBy     string        `json:"createdBy" db:"created_by"`
}

type CreateVisitRequest struct {
	PatientID     uuid.UUID     `json:"patientId" binding:"required"`
	VisitDate     string        `json:"visitDate" binding:"required"`
	VitalSigns    *VitalSigns   `json:"vitalSigns"`
	GeneralExam   string        `json:"generalExam"`
	SystemsReview SystemsReview `json:"systemsReview"`
	Assessment    string        `json:"assessment"`
	Plan          string        `json:"plan"`
	Notes         string        `json:"notes"`
}

type UpdateVisitRequest struct {
	VisitDate     *string       `json:"visitDate"`
	VitalSigns    *VitalSigns   `json:"vitalSigns"`
	GeneralExam   *string       `json:"generalExam"`
	SystemsReview SystemsReview `json:"systemsReview"`
	Assessment    *string       `json:"assessment"`
	Plan          *string       `json:"plan"`
	Notes         *string       `json:"notes"`
}

type VisitFilter struct {
	PatientID *uuid.UUID
	Search    string
	Limit     int
	Offset    int
}
