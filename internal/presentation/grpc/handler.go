package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/application/usecase"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
	"github.com/sentinelhealth/sentinel/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// clinicIDFromContext extracts the clinic ID from JWT claims in the context.
// The clinic is always taken from the verified token, never from the request body.
func clinicIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims.ClinicID, nil
}

// enforceOwnPatient restricts callers whose only granted role is patient to
// their own records. Staff roles (clinician, auditor, service) may reach any
// patient within their clinic.
func enforceOwnPatient(ctx context.Context, patientID uuid.UUID) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	if claims.HasRole(auth.RoleClinician) || claims.HasRole(auth.RoleAuditor) || claims.HasRole(auth.RoleService) {
		return nil
	}
	if patientID != claims.UserID {
		return status.Error(codes.PermissionDenied, "patients may only access their own records")
	}
	return nil
}

// Compile-time assertion that SentinelServiceHandler implements SentinelServiceServer.
var _ SentinelServiceServer = (*SentinelServiceHandler)(nil)

// SentinelServiceHandler implements the gRPC SentinelServiceServer interface.
type SentinelServiceHandler struct {
	UnimplementedSentinelServiceServer
	analyzePatient    *usecase.AnalyzePatient
	getAssessment     *usecase.GetAssessment
	listHistory       *usecase.ListHistory
	saveProfile       *usecase.SaveProfile
	getProfile        *usecase.GetProfile
	explainAssessment *usecase.ExplainAssessment
	historyStream     port.HistoryStream
	logger            *slog.Logger
}

// NewSentinelServiceHandler creates a new gRPC handler.
func NewSentinelServiceHandler(
	analyzePatient *usecase.AnalyzePatient,
	getAssessment *usecase.GetAssessment,
	listHistory *usecase.ListHistory,
	saveProfile *usecase.SaveProfile,
	getProfile *usecase.GetProfile,
	explainAssessment *usecase.ExplainAssessment,
	historyStream port.HistoryStream,
	logger *slog.Logger,
) *SentinelServiceHandler {
	return &SentinelServiceHandler{
		analyzePatient:    analyzePatient,
		getAssessment:     getAssessment,
		listHistory:       listHistory,
		saveProfile:       saveProfile,
		getProfile:        getProfile,
		explainAssessment: explainAssessment,
		historyStream:     historyStream,
		logger:            logger,
	}
}

// Proto-aligned request/response message types.

// AnalyzePatientRequest represents the proto AnalyzePatientRequest message.
type AnalyzePatientRequest struct {
	PatientID       string  `json:"patient_id"`
	HeartRate       float64 `json:"heart_rate"`
	BloodPressure   float64 `json:"blood_pressure"`
	Oxygen          float64 `json:"oxygen"`
	Temperature     float64 `json:"temperature"`
	InfectionMarker float64 `json:"infection_marker"`
	Pain            bool    `json:"pain"`
	Breathless      bool    `json:"breathless"`
	Mode            string  `json:"mode"`
}

// ContributionMsg represents the proto Contribution message.
type ContributionMsg struct {
	Feature      string  `json:"feature"`
	Phi          float64 `json:"phi"`
	DisplayClass string  `json:"display_class"`
}

// AssessmentMsg represents the proto Assessment message.
type AssessmentMsg struct {
	ID              string             `json:"id"`
	ClinicID        string             `json:"clinic_id"`
	PatientID       string             `json:"patient_id"`
	Probability     float64            `json:"probability"`
	BaseValue       float64            `json:"base_value"`
	Contributions   []*ContributionMsg `json:"contributions"`
	LimeSensitivity float64            `json:"lime_sensitivity"`
	RiskBand        string             `json:"risk_band"`
	Mode            string             `json:"mode"`
	RecordedAt      int64              `json:"recorded_at"`
}

// AnalyzePatientResponse represents the proto AnalyzePatientResponse message.
type AnalyzePatientResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	ID string `json:"id"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// ListHistoryRequest represents the proto ListHistoryRequest message.
type ListHistoryRequest struct {
	PatientID string `json:"patient_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

// ListHistoryResponse represents the proto ListHistoryResponse message.
type ListHistoryResponse struct {
	Assessments []*AssessmentMsg `json:"assessments"`
}

// SaveProfileRequest represents the proto SaveProfileRequest message.
type SaveProfileRequest struct {
	PatientID string  `json:"patient_id"`
	Age       int32   `json:"age"`
	HeightCm  float64 `json:"height_cm"`
	WeightKg  float64 `json:"weight_kg"`
}

// ProfileMsg represents the proto Profile message.
type ProfileMsg struct {
	ClinicID  string  `json:"clinic_id"`
	PatientID string  `json:"patient_id"`
	Age       int32   `json:"age"`
	HeightCm  float64 `json:"height_cm"`
	WeightKg  float64 `json:"weight_kg"`
	Complete  bool    `json:"complete"`
}

// SaveProfileResponse represents the proto SaveProfileResponse message.
type SaveProfileResponse struct {
	Profile *ProfileMsg `json:"profile"`
}

// GetProfileRequest represents the proto GetProfileRequest message.
type GetProfileRequest struct {
	PatientID string `json:"patient_id"`
}

// GetProfileResponse represents the proto GetProfileResponse message.
type GetProfileResponse struct {
	Profile *ProfileMsg `json:"profile"`
}

// ExplainAssessmentRequest represents the proto ExplainAssessmentRequest message.
type ExplainAssessmentRequest struct {
	PatientID    string `json:"patient_id"`
	AssessmentID string `json:"assessment_id"`
}

// ExplainAssessmentResponse represents the proto ExplainAssessmentResponse message.
type ExplainAssessmentResponse struct {
	AssessmentID string `json:"assessment_id"`
	Text         string `json:"text"`
	Fallback     bool   `json:"fallback"`
}

// WatchHistoryRequest represents the proto WatchHistoryRequest message.
type WatchHistoryRequest struct {
	PatientID string `json:"patient_id"`
}

// HistoryEntryMsg represents the proto HistoryEntry message.
type HistoryEntryMsg struct {
	AssessmentID string  `json:"assessment_id"`
	Probability  float64 `json:"probability"`
	RiskBand     string  `json:"risk_band"`
	Mode         string  `json:"mode"`
	RecordedAt   int64   `json:"recorded_at"`
}

// HistoryUpdate represents the proto HistoryUpdate message. Each update carries
// the full current set for the patient, newest first.
type HistoryUpdate struct {
	Entries []*HistoryEntryMsg `json:"entries"`
}

func toAssessmentMsg(r dto.AssessmentResponse) *AssessmentMsg {
	contributions := make([]*ContributionMsg, 0, len(r.Contributions))
	for _, c := range r.Contributions {
		contributions = append(contributions, &ContributionMsg{
			Feature:      c.Feature,
			Phi:          c.Phi,
			DisplayClass: c.DisplayClass,
		})
	}
	return &AssessmentMsg{
		ID:              r.ID.String(),
		ClinicID:        r.ClinicID.String(),
		PatientID:       r.PatientID.String(),
		Probability:     r.Probability,
		BaseValue:       r.BaseValue,
		Contributions:   contributions,
		LimeSensitivity: r.LimeSensitivity,
		RiskBand:        r.RiskBand,
		Mode:            r.Mode,
		RecordedAt:      r.RecordedAt.UnixMilli(),
	}
}

func toProfileMsg(r dto.ProfileResponse) *ProfileMsg {
	return &ProfileMsg{
		ClinicID:  r.ClinicID.String(),
		PatientID: r.PatientID.String(),
		Age:       int32(r.Age),
		HeightCm:  r.HeightCm,
		WeightKg:  r.WeightKg,
		Complete:  r.Complete,
	}
}

// mapUseCaseError translates application errors into gRPC status codes.
func mapUseCaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrProfileIncomplete):
		return status.Error(codes.FailedPrecondition, "patient profile is missing or incomplete")
	case errors.Is(err, port.ErrAssessmentNotFound):
		return status.Error(codes.NotFound, "assessment not found")
	case errors.Is(err, port.ErrProfileNotFound):
		return status.Error(codes.NotFound, "profile not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// AnalyzePatient handles a patient analysis request.
func (h *SentinelServiceHandler) AnalyzePatient(ctx context.Context, req *AnalyzePatientRequest) (*AnalyzePatientResponse, error) {
	if err := requireRole(ctx, auth.RoleClinician, auth.RoleService); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	clinicID, err := clinicIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid patient_id: %v", err)
	}

	mode := req.Mode
	if mode == "" {
		mode = "live"
	}
	if mode != "live" && mode != "simulation" {
		return nil, status.Errorf(codes.InvalidArgument, "invalid mode %q", req.Mode)
	}

	h.logger.Info("analyzing patient",
		slog.String("clinic_id", clinicID.String()),
		slog.String("patient_id", patientID.String()),
		slog.String("mode", mode),
	)

	result, err := h.analyzePatient.Execute(ctx, dto.AnalyzePatientRequest{
		ClinicID:        clinicID,
		PatientID:       patientID,
		HeartRate:       req.HeartRate,
		BloodPressure:   req.BloodPressure,
		Oxygen:          req.Oxygen,
		Temperature:     req.Temperature,
		InfectionMarker: req.InfectionMarker,
		Pain:            req.Pain,
		Breathless:      req.Breathless,
		Mode:            mode,
	})
	if err != nil {
		h.logger.Error("failed to analyze patient",
			slog.String("patient_id", patientID.String()),
			slog.String("error", err.Error()),
		)
		return nil, mapUseCaseError(err)
	}

	return &AnalyzePatientResponse{Assessment: toAssessmentMsg(result)}, nil
}

// GetAssessment handles a get assessment request.
func (h *SentinelServiceHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	if err := requireRole(ctx, auth.RoleClinician, auth.RoleAuditor, auth.RoleService, auth.RolePatient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	clinicID, err := clinicIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	assessmentID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getAssessment.Execute(ctx, dto.GetAssessmentRequest{
		ClinicID:     clinicID,
		AssessmentID: assessmentID,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	// A patient may only fetch their own assessments; report absence rather
	// than revealing that the record exists.
	if enforceOwnPatient(ctx, result.PatientID) != nil {
		return nil, status.Error(codes.NotFound, "assessment not found")
	}

	return &GetAssessmentResponse{Assessment: toAssessmentMsg(result)}, nil
}

// ListHistory handles a history listing request.
func (h *SentinelServiceHandler) ListHistory(ctx context.Context, req *ListHistoryRequest) (*ListHistoryResponse, error) {
	if err := requireRole(ctx, auth.RoleClinician, auth.RoleAuditor, auth.RolePatient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	clinicID, err := clinicIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid patient_id: %v", err)
	}

	if err := enforceOwnPatient(ctx, patientID); err != nil {
		return nil, err
	}

	results, err := h.listHistory.Execute(ctx, dto.ListHistoryRequest{
		ClinicID:  clinicID,
		PatientID: patientID,
		Limit:     int(req.Limit),
		Offset:    int(req.Offset),
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	assessments := make([]*AssessmentMsg, 0, len(results))
	for _, r := range results {
		assessments = append(assessments, toAssessmentMsg(r))
	}
	return &ListHistoryResponse{Assessments: assessments}, nil
}

// SaveProfile handles a profile upsert request.
func (h *SentinelServiceHandler) SaveProfile(ctx context.Context, req *SaveProfileRequest) (*SaveProfileResponse, error) {
	if err := requireRole(ctx, auth.RoleClinician, auth.RoleService); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	clinicID, err := clinicIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid patient_id: %v", err)
	}

	if req.Age <= 0 || req.Age > 130 {
		return nil, status.Errorf(codes.InvalidArgument, "age must be between 1 and 130, got %d", req.Age)
	}
	if req.HeightCm <= 0 {
		return nil, status.Error(codes.InvalidArgument, "height_cm must be positive")
	}
	if req.WeightKg <= 0 {
		return nil, status.Error(codes.InvalidArgument, "weight_kg must be positive")
	}

	result, err := h.saveProfile.Execute(ctx, dto.SaveProfileRequest{
		ClinicID:  clinicID,
		PatientID: patientID,
		Age:       int(req.Age),
		HeightCm:  req.HeightCm,
		WeightKg:  req.WeightKg,
	})
	if err != nil {
		h.logger.Error("failed to save profile",
			slog.String("patient_id", patientID.String()),
			slog.String("error", err.Error()),
		)
		return nil, mapUseCaseError(err)
	}

	return &SaveProfileResponse{Profile: toProfileMsg(result)}, nil
}

// GetProfile handles a profile retrieval request.
func (h *SentinelServiceHandler) GetProfile(ctx context.Context, req *GetProfileRequest) (*GetProfileResponse, error) {
	if err := requireRole(ctx, auth.RoleClinician, auth.RoleAuditor, auth.RolePatient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	clinicID, err := clinicIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid patient_id: %v", err)
	}

	if err := enforceOwnPatient(ctx, patientID); err != nil {
		return nil, err
	}

	result, err := h.getProfile.Execute(ctx, dto.GetProfileRequest{
		ClinicID:  clinicID,
		PatientID: patientID,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	return &GetProfileResponse{Profile: toProfileMsg(result)}, nil
}

// ExplainAssessment handles a request for a plain-language narrative.
func (h *SentinelServiceHandler) ExplainAssessment(ctx context.Context, req *ExplainAssessmentRequest) (*ExplainAssessmentResponse, error) {
	if err := requireRole(ctx, auth.RoleClinician, auth.RolePatient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	clinicID, err := clinicIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid patient_id: %v", err)
	}

	assessmentID, err := uuid.Parse(req.AssessmentID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid assessment_id: %v", err)
	}

	if err := enforceOwnPatient(ctx, patientID); err != nil {
		return nil, err
	}

	result, err := h.explainAssessment.Execute(ctx, dto.ExplainAssessmentRequest{
		ClinicID:     clinicID,
		PatientID:    patientID,
		AssessmentID: assessmentID,
	})
	if err != nil {
		return nil, mapUseCaseError(err)
	}

	return &ExplainAssessmentResponse{
		AssessmentID: result.AssessmentID.String(),
		Text:         result.Text,
		Fallback:     result.Fallback,
	}, nil
}

// WatchHistory streams the patient's current assessment set, re-sending the
// full snapshot whenever it changes.
func (h *SentinelServiceHandler) WatchHistory(req *WatchHistoryRequest, stream SentinelService_WatchHistoryServer) error {
	ctx := stream.Context()

	if err := requireRole(ctx, auth.RoleClinician, auth.RolePatient); err != nil {
		return err
	}

	if req == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}

	clinicID, err := clinicIDFromContext(ctx)
	if err != nil {
		return err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid patient_id: %v", err)
	}

	if err := enforceOwnPatient(ctx, patientID); err != nil {
		return err
	}

	h.logger.Info("history watch started",
		slog.String("clinic_id", clinicID.String()),
		slog.String("patient_id", patientID.String()),
	)

	var sendErr error
	err = h.historyStream.Subscribe(ctx, clinicID, patientID, func(entries []port.HistoryEntry) {
		if sendErr != nil {
			return
		}
		update := &HistoryUpdate{Entries: make([]*HistoryEntryMsg, 0, len(entries))}
		for _, e := range entries {
			update.Entries = append(update.Entries, &HistoryEntryMsg{
				AssessmentID: e.AssessmentID.String(),
				Probability:  e.Probability,
				RiskBand:     e.RiskBand,
				Mode:         e.Mode,
				RecordedAt:   e.RecordedAt,
			})
		}
		sendErr = stream.Send(update)
	})
	if sendErr != nil {
		return status.Errorf(codes.Unavailable, "stream send failed: %v", sendErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return status.Errorf(codes.Internal, "history subscription failed: %v", err)
	}

	h.logger.Info("history watch ended",
		slog.String("patient_id", patientID.String()),
	)
	return nil
}
