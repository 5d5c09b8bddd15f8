package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/sentinelhealth/sentinel/internal/domain/model"
)

// SaveProfileRequest is the input DTO for the SaveProfile use case.
type SaveProfileRequest struct {
	ClinicID  uuid.UUID `json:"clinic_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Age       int       `json:"age"`
	HeightCm  float64   `json:"height_cm"`
	WeightKg  float64   `json:"weight_kg"`
}

// GetProfileRequest is the input DTO for retrieving a profile.
type GetProfileRequest struct {
	ClinicID  uuid.UUID `json:"clinic_id"`
	PatientID uuid.UUID `json:"patient_id"`
}

// ProfileResponse is the output DTO for a patient profile.
type ProfileResponse struct {
	ClinicID  uuid.UUID `json:"clinic_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Age       int       `json:"age"`
	HeightCm  float64   `json:"height_cm"`
	WeightKg  float64   `json:"weight_kg"`
	Complete  bool      `json:"complete"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromProfile maps a domain profile to the response DTO.
func FromProfile(p *model.PatientProfile) ProfileResponse {
	return ProfileResponse{
		ClinicID:  p.ClinicID(),
		PatientID: p.PatientID(),
		Age:       p.Age(),
		HeightCm:  p.HeightCm(),
		WeightKg:  p.WeightKg(),
		Complete:  p.IsComplete(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
