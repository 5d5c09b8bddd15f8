package dto

import "github.com/google/uuid"

// ExplainAssessmentRequest is the input DTO for the ExplainAssessment use case.
type ExplainAssessmentRequest struct {
	ClinicID     uuid.UUID `json:"clinic_id"`
	PatientID    uuid.UUID `json:"patient_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// ExplanationResponse is the output DTO for an assessment explanation.
type ExplanationResponse struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
	Text         string    `json:"text"`
	// Fallback is true when the text-generation collaborator failed and the
	// fixed substitute message was returned instead.
	Fallback bool `json:"fallback"`
}
