package usecase

import (
	"context"
	"fmt"

	"github.com/sentinelhealth/sentinel/internal/application/dto"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
)

// GetProfile is the use case for reading a patient's profile.
type GetProfile struct {
	profiles port.ProfileRepository
}

// NewGetProfile creates a new GetProfile use case.
func NewGetProfile(profiles port.ProfileRepository) *GetProfile {
	return &GetProfile{profiles: profiles}
}

// Execute retrieves the profile for the patient within the caller's clinic.
func (uc *GetProfile) Execute(ctx context.Context, req dto.GetProfileRequest) (dto.ProfileResponse, error) {
	profile, err := uc.profiles.FindByPatientID(ctx, req.ClinicID, req.PatientID)
	if err != nil {
		return dto.ProfileResponse{}, fmt.Errorf("failed to find profile: %w", err)
	}

	return dto.FromProfile(profile), nil
}
