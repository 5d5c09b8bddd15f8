package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sentinelhealth/sentinel/internal/domain/event"
	"github.com/sentinelhealth/sentinel/internal/domain/valueobject"
	"github.com/sentinelhealth/sentinel/pkg/events"
)

// Assessment modes. "live" marks readings taken from a monitor; "simulation"
// marks what-if inputs entered by a clinician.
const (
	ModeLive       = "live"
	ModeSimulation = "simulation"
)

// Assessment is the aggregate root for recorded risk assessments. It captures
// one engine invocation as an immutable audit entry owned by a patient.
type Assessment struct {
	events.EventCollector

	id         uuid.UUID
	clinicID   uuid.UUID
	patientID  uuid.UUID
	vitals     valueobject.VitalsSnapshot
	symptoms   valueobject.SymptomSnapshot
	result     valueobject.InferenceResult
	riskBand   valueobject.RiskBand
	mode       string
	recordedAt time.Time
	createdAt  time.Time
	version    int
}

// NewAssessment creates an assessment for an engine result and raises the
// corresponding domain events. The recorded timestamp is server-assigned.
func NewAssessment(
	clinicID uuid.UUID,
	patientID uuid.UUID,
	vitals valueobject.VitalsSnapshot,
	symptoms valueobject.SymptomSnapshot,
	result valueobject.InferenceResult,
	mode string,
) (*Assessment, error) {
	if clinicID == uuid.Nil {
		return nil, fmt.Errorf("clinic ID is required")
	}
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient ID is required")
	}
	if mode != ModeLive && mode != ModeSimulation {
		return nil, fmt.Errorf("invalid assessment mode: %q", mode)
	}

	now := time.Now().UTC()

	a := &Assessment{
		id:         uuid.New(),
		clinicID:   clinicID,
		patientID:  patientID,
		vitals:     vitals,
		symptoms:   symptoms,
		result:     result,
		riskBand:   valueobject.RiskBandFromProbability(result.Probability),
		mode:       mode,
		recordedAt: now,
		createdAt:  now,
		version:    1,
	}

	a.Record(event.NewAssessmentRecorded(event.AssessmentRecordedPayload{
		AssessmentID:    a.id,
		ClinicID:        a.clinicID,
		PatientID:       a.patientID,
		Probability:     result.Probability,
		RiskBand:        a.riskBand.String(),
		Mode:            a.mode,
		HeartRate:       vitals.HeartRate,
		BloodPressure:   vitals.BloodPressure,
		Oxygen:          vitals.Oxygen,
		Temperature:     vitals.Temperature,
		InfectionMarker: vitals.InfectionMarker,
		Pain:            symptoms.Pain,
		Breathless:      symptoms.Breathless,
		RecordedAt:      a.recordedAt,
	}))

	if a.riskBand.Equal(valueobject.RiskBandCritical) {
		a.Record(event.NewHighRiskDetected(event.HighRiskDetectedPayload{
			AssessmentID: a.id,
			ClinicID:     a.clinicID,
			PatientID:    a.patientID,
			Probability:  result.Probability,
			TopFeature:   result.TopFeature(),
			DetectedAt:   a.recordedAt,
		}))
	}

	return a, nil
}

// ReconstructAssessment rebuilds an Assessment from persisted data
// (no validation, no events).
func ReconstructAssessment(
	id, clinicID, patientID uuid.UUID,
	vitals valueobject.VitalsSnapshot,
	symptoms valueobject.SymptomSnapshot,
	result valueobject.InferenceResult,
	riskBand valueobject.RiskBand,
	mode string,
	recordedAt time.Time,
	version int,
	createdAt time.Time,
) *Assessment {
	return &Assessment{
		id:         id,
		clinicID:   clinicID,
		patientID:  patientID,
		vitals:     vitals,
		symptoms:   symptoms,
		result:     result,
		riskBand:   riskBand,
		mode:       mode,
		recordedAt: recordedAt,
		version:    version,
		createdAt:  createdAt,
	}
}

// --- Accessors ---

func (a *Assessment) ID() uuid.UUID                         { return a.id }
func (a *Assessment) ClinicID() uuid.UUID                   { return a.clinicID }
func (a *Assessment) PatientID() uuid.UUID                  { return a.patientID }
func (a *Assessment) Vitals() valueobject.VitalsSnapshot    { return a.vitals }
func (a *Assessment) Symptoms() valueobject.SymptomSnapshot { return a.symptoms }
func (a *Assessment) Result() valueobject.InferenceResult   { return a.result }
func (a *Assessment) RiskBand() valueobject.RiskBand        { return a.riskBand }
func (a *Assessment) Mode() string                          { return a.mode }
func (a *Assessment) RecordedAt() time.Time                 { return a.recordedAt }
func (a *Assessment) CreatedAt() time.Time                  { return a.createdAt }
func (a *Assessment) Version() int                          { return a.version }
