package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/sentinelhealth/sentinel/internal/domain/model"
	"github.com/sentinelhealth/sentinel/internal/domain/valueobject"
)

// AnalyzePatientRequest is the input DTO for the AnalyzePatient use case.
type AnalyzePatientRequest struct {
	ClinicID        uuid.UUID `json:"clinic_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	HeartRate       float64   `json:"heart_rate"`
	BloodPressure   float64   `json:"blood_pressure"`
	Oxygen          float64   `json:"oxygen"`
	Temperature     float64   `json:"temperature"`
	InfectionMarker float64   `json:"infection_marker"`
	Pain            bool      `json:"pain"`
	Breathless      bool      `json:"breathless"`
	Mode            string    `json:"mode"`
}

// Vitals maps the request fields to the domain snapshot.
func (r AnalyzePatientRequest) Vitals() valueobject.VitalsSnapshot {
	return valueobject.VitalsSnapshot{
		HeartRate:       r.HeartRate,
		BloodPressure:   r.BloodPressure,
		Oxygen:          r.Oxygen,
		Temperature:     r.Temperature,
		InfectionMarker: r.InfectionMarker,
	}
}

// Symptoms maps the request flags to the domain snapshot.
func (r AnalyzePatientRequest) Symptoms() valueobject.SymptomSnapshot {
	return valueobject.SymptomSnapshot{Pain: r.Pain, Breathless: r.Breathless}
}

// ContributionDTO is one attribution term in a response.
type ContributionDTO struct {
	Feature      string  `json:"feature"`
	Phi          float64 `json:"phi"`
	DisplayClass string  `json:"display_class"`
}

// AssessmentResponse is the output DTO returned for a recorded assessment.
type AssessmentResponse struct {
	ID              uuid.UUID         `json:"id"`
	ClinicID        uuid.UUID         `json:"clinic_id"`
	PatientID       uuid.UUID         `json:"patient_id"`
	Probability     float64           `json:"probability"`
	BaseValue       float64           `json:"base_value"`
	Contributions   []ContributionDTO `json:"contributions"`
	LimeSensitivity float64           `json:"lime_sensitivity"`
	RiskBand        string            `json:"risk_band"`
	Mode            string            `json:"mode"`
	HeartRate       float64           `json:"heart_rate"`
	BloodPressure   float64           `json:"blood_pressure"`
	Oxygen          float64           `json:"oxygen"`
	Temperature     float64           `json:"temperature"`
	InfectionMarker float64           `json:"infection_marker"`
	Pain            bool              `json:"pain"`
	Breathless      bool              `json:"breathless"`
	RecordedAt      time.Time         `json:"recorded_at"`
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	ClinicID     uuid.UUID `json:"clinic_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// ListHistoryRequest is the input DTO for listing a patient's history.
type ListHistoryRequest struct {
	ClinicID  uuid.UUID `json:"clinic_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Limit     int       `json:"limit"`
	Offset    int       `json:"offset"`
}

// FromAssessment maps a domain aggregate to the response DTO.
func FromAssessment(a *model.Assessment) AssessmentResponse {
	result := a.Result()
	contributions := make([]ContributionDTO, 0, len(result.Contributions))
	for _, c := range result.Contributions {
		contributions = append(contributions, ContributionDTO{
			Feature:      c.Feature,
			Phi:          c.Phi,
			DisplayClass: c.DisplayClass(),
		})
	}

	vitals := a.Vitals()
	symptoms := a.Symptoms()

	return AssessmentResponse{
		ID:              a.ID(),
		ClinicID:        a.ClinicID(),
		PatientID:       a.PatientID(),
		Probability:     result.Probability,
		BaseValue:       result.BaseValue,
		Contributions:   contributions,
		LimeSensitivity: result.LimeSensitivity,
		RiskBand:        a.RiskBand().String(),
		Mode:            a.Mode(),
		HeartRate:       vitals.HeartRate,
		BloodPressure:   vitals.BloodPressure,
		Oxygen:          vitals.Oxygen,
		Temperature:     vitals.Temperature,
		InfectionMarker: vitals.InfectionMarker,
		Pain:            symptoms.Pain,
		Breathless:      symptoms.Breathless,
		RecordedAt:      a.RecordedAt(),
	}
}
