package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinelhealth/sentinel/internal/domain/model"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
)

// ProfileRepository implements port.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Save upserts the one-time profile record.
func (r *ProfileRepository) Save(ctx context.Context, profile *model.PatientProfile) error {
	query := `
		INSERT INTO patient_profiles (
			clinic_id, patient_id, age, height_cm, weight_kg, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (clinic_id, patient_id) DO UPDATE SET
			age = EXCLUDED.age,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		profile.ClinicID(),
		profile.PatientID(),
		profile.Age(),
		profile.HeightCm(),
		profile.WeightKg(),
		profile.CreatedAt(),
		profile.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// FindByPatientID retrieves a patient's profile.
func (r *ProfileRepository) FindByPatientID(ctx context.Context, clinicID, patientID uuid.UUID) (*model.PatientProfile, error) {
	query := `
		SELECT clinic_id, patient_id, age, height_cm, weight_kg, created_at, updated_at
		FROM patient_profiles
		WHERE clinic_id = $1 AND patient_id = $2
	`

	var (
		cID, pID             uuid.UUID
		age                  int
		heightCm, weightKg   float64
		createdAt, updatedAt time.Time
	)

	err := r.pool.QueryRow(ctx, query, clinicID, patientID).Scan(
		&cID, &pID, &age, &heightCm, &weightKg, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	return model.ReconstructPatientProfile(cID, pID, age, heightCm, weightKg, createdAt, updatedAt), nil
}
