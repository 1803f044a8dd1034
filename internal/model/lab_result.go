package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LabTests flags which panels were run for this result.
type LabTests struct {
	CBC           bool   `json:"cbc"`
	Urinalysis    bool   `json:"urinalysis"`
	BloodGlucose  bool   `json:"bloodGlucose"`
	LipidProfile  bool   `json:"lipidProfile"`
	LiverFunction bool   `json:"liverFunction"`
	RenalFunction bool   `json:"renalFunction"`
	Other         bool   `json:"other"`
	OtherDetail   string `json:"otherDetail,omitempty"`
}

func (t LabTests) Value() (driver.Value, error) { return json.Marshal(t) }

func (t *LabTests) Scan(src interface{}) error { return scanJSON(t, src) }

// LabReview records whether and by whom a result has been reviewed.
type LabReview struct {
	Reviewed   bool       `json:"reviewed"`
	ReviewedBy string     `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

func (r LabReview) Value() (driver.Value, error) { return json.Marshal(r) }

func (r *LabReview) Scan(src interface{}) error { return scanJSON(r, src) }

// LabResult references a patient and optionally the visit the sample
// was taken at; the visit must belong to the same patient.
type LabResult struct {
	Base
	PatientID     uuid.UUID  `json:"patientId" db:"patient_id"`
	VisitID       *uuid.UUID `json:"visitId,omitempty" db:"visit_id"`
	TestDate      string     `json:"testDate" db:"test_date"`
	Tests         LabTests   `json:"tests" db:"tests"`
	ResultSummary string     `json:"resultSummary,omitempty" db:"result_summary"`
	Review        LabReview  `json:"review" db:"review"`
	CreatedBy     string     `json:"createdBy" db:"created_by"`
}

type CreateLabResultRequest struct {
	PatientID     uuid.UUID  `json:"patientId" binding:"required"`
	VisitID       *uuid.UUID `json:"visitId"`
	TestDate      string     `json:"testDate" binding:"required"`
	Tests         LabTests   `json:"tests"`
	ResultSummary string     `json:"resultSummary"`
}

type UpdateLabResultRequest struct {
	TestDate      *string    `json:"testDate"`
	Tests         *LabTests  `json:"tests"`
	ResultSummary *string    `json:"resultSummary"`
	Review        *LabReview `json:"review"`
}

type LabResultFilter struct {
	PatientID *uuid.UUID
	Limit     int
	Offset    int
}
