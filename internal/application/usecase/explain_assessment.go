package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
)

// FallbackExplanation is the fixed substitute returned when the
// text-generation collaborator fails for any reason.
const FallbackExplanation = "An explanation is currently unavailable. " +
	"Please review the risk probability and the contribution breakdown directly."

// promptTemplate interpolates the profile age, current vitals, the computed
// probability and the top contribution's feature name.
const promptTemplate = "You are assisting a clinician. Patient, age %d, presents with " +
	"heart rate %.1f bpm, systolic blood pressure %.1f mmHg, SpO2 %.1f%%, " +
	"temperature %.1f C and infection marker %.1f. The risk model estimates a " +
	"%.1f%% risk probability, driven primarily by %q. Explain this assessment " +
	"in two or three plain sentences."

// ExplainAssessment is the use case for producing a best-effort natural
// language explanation of a recorded assessment.
type ExplainAssessment struct {
	assessments port.AssessmentRepository
	profiles    port.ProfileRepository
	generator   port.TextGenerator
	logger      *slog.Logger
}

// NewExplainAssessment creates a new ExplainAssessment use case.
func NewExplainAssessment(
	assessments port.AssessmentRepository,
	profiles port.ProfileRepository,
	generator port.TextGenerator,
	logger *slog.Logger,
) *ExplainAssessment {
	return &ExplainAssessment{
		assessments: assessments,
		profiles:    profiles,
		generator:   generator,
		logger:      logger,
	}
}

// Execute builds the prompt and makes a single attempt against the
// text-generation collaborator. Any generation failure is swallowed and the
// fixed fallback message is returned instead; no retry, no backoff.
func (uc *ExplainAssessment) Execute(ctx context.Context, req dto.ExplainAssessmentRequest) (dto.ExplanationResponse, error) {
	assessment, err := uc.assessments.FindByID(ctx, req.ClinicID, req.AssessmentID)
	if err != nil {
		return dto.ExplanationResponse{}, fmt.Errorf("failed to find assessment: %w", err)
	}

	// The assessment must belong to the requested patient.
	if req.PatientID != uuid.Nil && assessment.PatientID() != req.PatientID {
		return dto.ExplanationResponse{}, fmt.Errorf("assessment %s is not for the requested patient: %w", req.AssessmentID, port.ErrAssessmentNotFound)
	}

	profile, err := uc.profiles.FindByPatientID(ctx, req.ClinicID, assessment.PatientID())
	if err != nil {
		return dto.ExplanationResponse{}, fmt.Errorf("failed to load profile: %w", err)
	}

	vitals := assessment.Vitals()
	result := assessment.Result()
	prompt := fmt.Sprintf(promptTemplate,
		profile.Age(),
		vitals.HeartRate,
		vitals.BloodPressure,
		vitals.Oxygen,
		vitals.Temperature,
		vitals.InfectionMarker,
		result.Probability*100,
		result.TopFeature(),
	)

	text, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		uc.logger.Warn("text generation failed, using fallback explanation",
			slog.String("assessment_id", assessment.ID().String()),
			slog.String("error", err.Error()),
		)
		return dto.ExplanationResponse{
			AssessmentID: assessment.ID(),
			Text:         FallbackExplanation,
			Fallback:     true,
		}, nil
	}

	return dto.ExplanationResponse{
		AssessmentID: assessment.ID(),
		Text:         text,
	}, nil
}
