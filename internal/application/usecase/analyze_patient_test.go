package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/application/usecase"
	"github.com/sentinelhealth/sentinel/internal/domain/model"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
	"github.com/sentinelhealth/sentinel/internal/domain/service"
	"github.com/sentinelhealth/sentinel/pkg/testutil"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	saved        []*model.Assessment
	saveFunc     func(ctx context.Context, a *model.Assessment) error
	findByIDFunc func(ctx context.Context, clinicID, id uuid.UUID) (*model.Assessment, error)
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a *model.Assessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, clinicID, id uuid.UUID) (*model.Assessment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, clinicID, id)
	}
	return nil, port.ErrAssessmentNotFound
}

func (m *mockAssessmentRepository) FindByPatientID(_ context.Context, _, _ uuid.UUID, _, _ int) ([]*model.Assessment, error) {
	return m.saved, nil
}

type mockProfileRepository struct {
	profiles map[uuid.UUID]*model.PatientProfile
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{profiles: make(map[uuid.UUID]*model.PatientProfile)}
}

func (m *mockProfileRepository) Save(_ context.Context, p *model.PatientProfile) error {
	m.profiles[p.PatientID()] = p
	return nil
}

func (m *mockProfileRepository) FindByPatientID(_ context.Context, _, patientID uuid.UUID) (*model.PatientProfile, error) {
	p, ok := m.profiles[patientID]
	if !ok {
		return nil, port.ErrProfileNotFound
	}
	return p, nil
}

type mockEventPublisher struct {
	published   []interface{}
	publishFunc func(ctx context.Context, events ...interface{}) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...interface{}) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	m.published = append(m.published, events...)
	return nil
}

type mockTextGenerator struct {
	text string
	err  error
}

func (m *mockTextGenerator) Generate(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func onboardedProfiles(t *testing.T, patientID uuid.UUID) *mockProfileRepository {
	t.Helper()
	profiles := newMockProfileRepository()
	profile, err := model.NewPatientProfile(testutil.TestClinicID, patientID, 45, 170, 70)
	require.NoError(t, err)
	require.NoError(t, profiles.Save(context.Background(), profile))
	return profiles
}

func validAnalyzeRequest(patientID uuid.UUID) dto.AnalyzePatientRequest {
	return dto.AnalyzePatientRequest{
		ClinicID:        testutil.TestClinicID,
		PatientID:       patientID,
		HeartRate:       80,
		BloodPressure:   120,
		Oxygen:          98,
		Temperature:     37,
		InfectionMarker: 1,
		Mode:            model.ModeLive,
	}
}

// --- Tests ---

func TestAnalyzePatient_Execute(t *testing.T) {
	t.Run("records an assessment for an onboarded patient", func(t *testing.T) {
		patientID := testutil.TestPatientID1
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewAnalyzePatient(repo, onboardedProfiles(t, patientID), publisher, service.NewRiskEngine(), testLogger())

		resp, err := uc.Execute(context.Background(), validAnalyzeRequest(patientID))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Equal(t, patientID, resp.PatientID)
		assert.Equal(t, 0.5, resp.Probability)
		assert.Equal(t, "MEDIUM", resp.RiskBand)
		assert.Len(t, resp.Contributions, 4)
		assert.Len(t, repo.saved, 1)
		assert.Len(t, publisher.published, 1)
	})

	t.Run("raises a high risk event for a critical assessment", func(t *testing.T) {
		patientID := testutil.TestPatientID1
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewAnalyzePatient(repo, onboardedProfiles(t, patientID), publisher, service.NewRiskEngine(), testLogger())

		req := validAnalyzeRequest(patientID)
		req.HeartRate = 140
		req.BloodPressure = 75
		req.Oxygen = 85
		req.InfectionMarker = 12
		req.Pain = true
		req.Breathless = true

		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "CRITICAL", resp.RiskBand)
		assert.Len(t, publisher.published, 2)
	})

	t.Run("refuses a patient without a profile", func(t *testing.T) {
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewAnalyzePatient(repo, newMockProfileRepository(), publisher, service.NewRiskEngine(), testLogger())

		_, err := uc.Execute(context.Background(), validAnalyzeRequest(testutil.TestPatientID1))

		assert.ErrorIs(t, err, usecase.ErrProfileIncomplete)
		assert.Empty(t, repo.saved)
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		patientID := testutil.TestPatientID1
		uc := usecase.NewAnalyzePatient(&mockAssessmentRepository{}, onboardedProfiles(t, patientID), &mockEventPublisher{}, service.NewRiskEngine(), testLogger())

		req := validAnalyzeRequest(patientID)
		req.Mode = "replay"

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorContains(t, err, "invalid assessment mode")
	})

	t.Run("propagates repository save failures", func(t *testing.T) {
		patientID := testutil.TestPatientID1
		repo := &mockAssessmentRepository{
			saveFunc: func(context.Context, *model.Assessment) error {
				return fmt.Errorf("connection refused")
			},
		}

		uc := usecase.NewAnalyzePatient(repo, onboardedProfiles(t, patientID), &mockEventPublisher{}, service.NewRiskEngine(), testLogger())

		_, err := uc.Execute(context.Background(), validAnalyzeRequest(patientID))
		assert.ErrorContains(t, err, "failed to save assessment")
	})

	t.Run("swallows publish failures after a successful save", func(t *testing.T) {
		patientID := testutil.TestPatientID1
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{
			publishFunc: func(context.Context, ...interface{}) error {
				return fmt.Errorf("broker unavailable")
			},
		}

		uc := usecase.NewAnalyzePatient(repo, onboardedProfiles(t, patientID), publisher, service.NewRiskEngine(), testLogger())

		resp, err := uc.Execute(context.Background(), validAnalyzeRequest(patientID))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		assert.Len(t, repo.saved, 1)
	})
}
