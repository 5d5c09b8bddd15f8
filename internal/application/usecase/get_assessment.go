package usecase

import (
	"context"
	"fmt"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
)

// GetAssessment is the use case for retrieving a single recorded assessment.
type GetAssessment struct {
	assessments port.AssessmentRepository
}

// NewGetAssessment creates a new GetAssessment use case.
func NewGetAssessment(assessments port.AssessmentRepository) *GetAssessment {
	return &GetAssessment{assessments: assessments}
}

// Execute retrieves the assessment by ID within the caller's clinic.
func (uc *GetAssessment) Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error) {
	assessment, err := uc.assessments.FindByID(ctx, req.ClinicID, req.AssessmentID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to find assessment: %w", err)
	}

	return dto.FromAssessment(assessment), nil
}
