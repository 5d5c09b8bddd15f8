package usecase

import (
	"context"
	"fmt"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// ListHistory is the use case for reading a patient's assessment history.
type ListHistory struct {
	assessments port.AssessmentRepository
}

// NewListHistory creates a new ListHistory use case.
func NewListHistory(assessments port.AssessmentRepository) *ListHistory {
	return &ListHistory{assessments: assessments}
}

// Execute lists assessments for the patient, newest first.
func (uc *ListHistory) Execute(ctx context.Context, req dto.ListHistoryRequest) ([]dto.AssessmentResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	assessments, err := uc.assessments.FindByPatientID(ctx, req.ClinicID, req.PatientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	responses := make([]dto.AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		responses = append(responses, dto.FromAssessment(a))
	}
	return responses, nil
}
