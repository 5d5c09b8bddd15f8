package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/sentinelhealth/sentinel/pkg/events"
)

const (
	// EventTypeAssessmentRecorded is emitted whenever an assessment is recorded.
	EventTypeAssessmentRecorded = "sentinel.assessment.recorded"

	// EventTypeHighRiskDetected is emitted when an assessment lands in the
	// CRITICAL risk band.
	EventTypeHighRiskDetected = "sentinel.high_risk.detected"
)

const aggregateTypeAssessment = "Assessment"

// AssessmentRecordedPayload is the serialized body of an AssessmentRecorded event.
type AssessmentRecordedPayload struct {
	AssessmentID    uuid.UUID `json:"assessment_id"`
	ClinicID        uuid.UUID `json:"clinic_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	Probability     float64   `json:"probability"`
	RiskBand        string    `json:"risk_band"`
	Mode            string    `json:"mode"`
	HeartRate       float64   `json:"heart_rate"`
	BloodPressure   float64   `json:"blood_pressure"`
	Oxygen          float64   `json:"oxygen"`
	Temperature     float64   `json:"temperature"`
	InfectionMarker float64   `json:"infection_marker"`
	Pain            bool      `json:"pain"`
	Breathless      bool      `json:"breathless"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// AssessmentRecorded is published when a risk assessment has been recorded
// for a patient.
type AssessmentRecorded struct {
	events.BaseEvent
	AssessmentRecordedPayload
}

// NewAssessmentRecorded creates an AssessmentRecorded event.
func NewAssessmentRecorded(p AssessmentRecordedPayload) AssessmentRecorded {
	body, _ := json.Marshal(p)
	return AssessmentRecorded{
		BaseEvent:                 events.NewBaseEvent(EventTypeAssessmentRecorded, p.AssessmentID, aggregateTypeAssessment, body),
		AssessmentRecordedPayload: p,
	}
}

// HighRiskDetectedPayload is the serialized body of a HighRiskDetected event.
type HighRiskDetectedPayload struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
	ClinicID     uuid.UUID `json:"clinic_id"`
	PatientID    uuid.UUID `json:"patient_id"`
	Probability  float64   `json:"probability"`
	TopFeature   string    `json:"top_feature"`
	DetectedAt   time.Time `json:"detected_at"`
}

// HighRiskDetected is published when an assessment lands in the CRITICAL
// band, so alerting can page the on-call clinician.
type HighRiskDetected struct {
	events.BaseEvent
	HighRiskDetectedPayload
}

// NewHighRiskDetected creates a HighRiskDetected event.
func NewHighRiskDetected(p HighRiskDetectedPayload) HighRiskDetected {
	body, _ := json.Marshal(p)
	return HighRiskDetected{
		BaseEvent:               events.NewBaseEvent(EventTypeHighRiskDetected, p.AssessmentID, aggregateTypeAssessment, body),
		HighRiskDetectedPayload: p,
	}
}
