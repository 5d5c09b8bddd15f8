package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/domain/model"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
	"github.com/sentinelhealth/sentinel/internal/domain/service"
)

// ErrProfileIncomplete is returned when an assessment is requested before the
// patient's one-time profile exists.
var ErrProfileIncomplete = errors.New("patient profile is missing or incomplete")

// AnalyzePatient is the use case for running the risk engine over a snapshot
// and recording the result as an audit entry.
type AnalyzePatient struct {
	assessments port.AssessmentRepository
	profiles    port.ProfileRepository
	publisher   port.EventPublisher
	engine      service.Engine
	logger      *slog.Logger
}

// NewAnalyzePatient creates a new AnalyzePatient use case.
func NewAnalyzePatient(
	assessments port.AssessmentRepository,
	profiles port.ProfileRepository,
	publisher port.EventPublisher,
	engine service.Engine,
	logger *slog.Logger,
) *AnalyzePatient {
	return &AnalyzePatient{
		assessments: assessments,
		profiles:    profiles,
		publisher:   publisher,
		engine:      engine,
		logger:      logger,
	}
}

// Execute runs inference, records the assessment, and publishes the raised
// domain events. A missing or incomplete profile refuses the request; a
// publish failure after a successful save is logged and swallowed so the
// audit record is never lost to a broker outage.
func (uc *AnalyzePatient) Execute(ctx context.Context, req dto.AnalyzePatientRequest) (dto.AssessmentResponse, error) {
	// 1. The onboarding gate: no assessments before a complete profile.
	profile, err := uc.profiles.FindByPatientID(ctx, req.ClinicID, req.PatientID)
	if err != nil {
		if errors.Is(err, port.ErrProfileNotFound) {
			return dto.AssessmentResponse{}, ErrProfileIncomplete
		}
		return dto.AssessmentResponse{}, fmt.Errorf("failed to load profile: %w", err)
	}
	if !profile.IsComplete() {
		return dto.AssessmentResponse{}, ErrProfileIncomplete
	}

	// 2. Run the engine. Pure computation, nothing to fail.
	result := uc.engine.Compute(req.Vitals(), req.Symptoms())

	// 3. Build the aggregate; this derives the band and raises events.
	assessment, err := model.NewAssessment(req.ClinicID, req.PatientID, req.Vitals(), req.Symptoms(), result, req.Mode)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to create assessment: %w", err)
	}

	// 4. Persist the audit entry.
	if err := uc.assessments.Save(ctx, assessment); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to save assessment: %w", err)
	}

	// 5. Publish domain events.
	evts := assessment.ClearEvents()
	if len(evts) > 0 {
		publish := make([]interface{}, 0, len(evts))
		for _, e := range evts {
			publish = append(publish, e)
		}
		if err := uc.publisher.Publish(ctx, publish...); err != nil {
			uc.logger.Error("failed to publish assessment events",
				slog.String("assessment_id", assessment.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return dto.FromAssessment(assessment), nil
}
