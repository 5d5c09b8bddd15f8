package usecase

import (
	"context"
	"fmt"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/domain/model"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
)

// SaveProfile is the use case for writing the one-time patient profile.
type SaveProfile struct {
	profiles port.ProfileRepository
}

// NewSaveProfile creates a new SaveProfile use case.
func NewSaveProfile(profiles port.ProfileRepository) *SaveProfile {
	return &SaveProfile{profiles: profiles}
}

// Execute validates and upserts the profile record.
func (uc *SaveProfile) Execute(ctx context.Context, req dto.SaveProfileRequest) (dto.ProfileResponse, error) {
	profile, err := model.NewPatientProfile(req.ClinicID, req.PatientID, req.Age, req.HeightCm, req.WeightKg)
	if err != nil {
		return dto.ProfileResponse{}, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := uc.profiles.Save(ctx, profile); err != nil {
		return dto.ProfileResponse{}, fmt.Errorf("failed to save profile: %w", err)
	}

	return dto.FromProfile(profile), nil
}
