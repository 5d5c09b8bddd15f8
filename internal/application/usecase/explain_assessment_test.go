package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/application/usecase"
	"github.com/sentinelhealth/sentinel/internal/domain/model"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
	"github.com/sentinelhealth/sentinel/internal/domain/service"
	"github.com/sentinelhealth/sentinel/internal/domain/valueobject"
	"github.com/sentinelhealth/sentinel/pkg/testutil"
)

func recordedAssessment(t *testing.T) *model.Assessment {
	t.Helper()
	vitals := valueobject.VitalsSnapshot{HeartRate: 130, BloodPressure: 80, Oxygen: 90, Temperature: 37, InfectionMarker: 5}
	symptoms := valueobject.SymptomSnapshot{Pain: true, Breathless: true}
	result := service.NewRiskEngine().Compute(vitals, symptoms)

	a, err := model.NewAssessment(testutil.TestClinicID, testutil.TestPatientID1, vitals, symptoms, result, model.ModeLive)
	require.NoError(t, err)
	return a
}

func TestExplainAssessment_Execute(t *testing.T) {
	t.Run("returns generated text on success", func(t *testing.T) {
		assessment := recordedAssessment(t)
		repo := &mockAssessmentRepository{
			findByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*model.Assessment, error) {
				return assessment, nil
			},
		}
		generator := &mockTextGenerator{text: "Elevated heart rate is the main driver of this risk estimate."}

		uc := usecase.NewExplainAssessment(repo, onboardedProfiles(t, testutil.TestPatientID1), generator, testLogger())

		resp, err := uc.Execute(context.Background(), dto.ExplainAssessmentRequest{
			ClinicID:     testutil.TestClinicID,
			AssessmentID: assessment.ID(),
		})

		require.NoError(t, err)
		assert.False(t, resp.Fallback)
		assert.Equal(t, generator.text, resp.Text)
		assert.Equal(t, assessment.ID(), resp.AssessmentID)
	})

	t.Run("substitutes the fallback message when generation fails", func(t *testing.T) {
		assessment := recordedAssessment(t)
		repo := &mockAssessmentRepository{
			findByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*model.Assessment, error) {
				return assessment, nil
			},
		}
		generator := &mockTextGenerator{err: fmt.Errorf("upstream timeout")}

		uc := usecase.NewExplainAssessment(repo, onboardedProfiles(t, testutil.TestPatientID1), generator, testLogger())

		resp, err := uc.Execute(context.Background(), dto.ExplainAssessmentRequest{
			ClinicID:     testutil.TestClinicID,
			AssessmentID: assessment.ID(),
		})

		// The collaborator error is swallowed entirely.
		require.NoError(t, err)
		assert.True(t, resp.Fallback)
		assert.Equal(t, usecase.FallbackExplanation, resp.Text)
	})

	t.Run("fails when the assessment belongs to a different patient", func(t *testing.T) {
		assessment := recordedAssessment(t)
		repo := &mockAssessmentRepository{
			findByIDFunc: func(_ context.Context, _, _ uuid.UUID) (*model.Assessment, error) {
				return assessment, nil
			},
		}
		uc := usecase.NewExplainAssessment(repo, onboardedProfiles(t, testutil.TestPatientID1), &mockTextGenerator{}, testLogger())

		_, err := uc.Execute(context.Background(), dto.ExplainAssessmentRequest{
			ClinicID:     testutil.TestClinicID,
			PatientID:    testutil.TestPatientID2,
			AssessmentID: assessment.ID(),
		})

		assert.ErrorIs(t, err, port.ErrAssessmentNotFound)
	})

	t.Run("fails when the assessment does not exist", func(t *testing.T) {
		uc := usecase.NewExplainAssessment(&mockAssessmentRepository{}, onboardedProfiles(t, testutil.TestPatientID1), &mockTextGenerator{}, testLogger())

		_, err := uc.Execute(context.Background(), dto.ExplainAssessmentRequest{
			ClinicID:     testutil.TestClinicID,
			AssessmentID: uuid.New(),
		})

		assert.ErrorContains(t, err, "failed to find assessment")
	})
}
