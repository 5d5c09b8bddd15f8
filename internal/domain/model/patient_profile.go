package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PatientProfile is the one-time onboarding record for a patient. Assessments
// are refused until a complete profile exists for the caller.
type PatientProfile struct {
	patientID uuid.UUID
	clinicID  uuid.UUID
	age       int
	heightCm  float64
	weightKg  float64
	createdAt time.Time
	updatedAt time.Time
}

// NewPatientProfile creates a profile record.
func NewPatientProfile(clinicID, patientID uuid.UUID, age int, heightCm, weightKg float64) (*PatientProfile, error) {
	if clinicID == uuid.Nil {
		return nil, fmt.Errorf("clinic ID is required")
	}
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient ID is required")
	}
	if age <= 0 || age > 130 {
		return nil, fmt.Errorf("age must be between 1 and 130, got %d", age)
	}
	if heightCm <= 0 {
		return nil, fmt.Errorf("height must be positive")
	}
	if weightKg <= 0 {
		return nil, fmt.Errorf("weight must be positive")
	}

	now := time.Now().UTC()

	return &PatientProfile{
		patientID: patientID,
		clinicID:  clinicID,
		age:       age,
		heightCm:  heightCm,
		weightKg:  weightKg,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPatientProfile rebuilds a profile from persisted data.
func ReconstructPatientProfile(clinicID, patientID uuid.UUID, age int, heightCm, weightKg float64, createdAt, updatedAt time.Time) *PatientProfile {
	return &PatientProfile{
		patientID: patientID,
		clinicID:  clinicID,
		age:       age,
		heightCm:  heightCm,
		weightKg:  weightKg,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// IsComplete reports whether the profile satisfies the onboarding gate.
func (p *PatientProfile) IsComplete() bool {
	return p.age > 0 && p.heightCm > 0 && p.weightKg > 0
}

func (p *PatientProfile) PatientID() uuid.UUID { return p.patientID }
func (p *PatientProfile) ClinicID() uuid.UUID  { return p.clinicID }
func (p *PatientProfile) Age() int             { return p.age }
func (p *PatientProfile) HeightCm() float64    { return p.heightCm }
func (p *PatientProfile) WeightKg() float64    { return p.weightKg }
func (p *PatientProfile) CreatedAt() time.Time { return p.createdAt }
func (p *PatientProfile) UpdatedAt() time.Time { return p.updatedAt }
