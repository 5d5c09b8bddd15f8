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
	"github.com/sentinelhealth/sentinel/internal/domain/valueobject"
	pgutil "github.com/sentinelhealth/sentinel/pkg/postgres"
)

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// Save persists an assessment and its contribution terms in one transaction.
// Assessments are append-only audit entries, so inserts never conflict.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *model.Assessment) error {
	vitals := assessment.Vitals()
	symptoms := assessment.Symptoms()
	result := assessment.Result()

	query := `
		INSERT INTO assessments (
			id, clinic_id, patient_id,
			probability, base_value, lime_sensitivity,
			risk_band, mode,
			heart_rate, blood_pressure, oxygen, temperature, infection_marker,
			pain, breathless,
			recorded_at, version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			assessment.ID(),
			assessment.ClinicID(),
			assessment.PatientID(),
			result.Probability,
			result.BaseValue,
			result.LimeSensitivity,
			assessment.RiskBand().String(),
			assessment.Mode(),
			vitals.HeartRate,
			vitals.BloodPressure,
			vitals.Oxygen,
			vitals.Temperature,
			vitals.InfectionMarker,
			symptoms.Pain,
			symptoms.Breathless,
			assessment.RecordedAt(),
			assessment.Version(),
			assessment.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save assessment: %w", err)
		}

		// Position preserves the ranked attribution order.
		for i, c := range result.Contributions {
			_, err = tx.Exec(ctx,
				`INSERT INTO contributions (assessment_id, clinic_id, position, feature, phi) VALUES ($1, $2, $3, $4, $5)`,
				assessment.ID(), assessment.ClinicID(), i, c.Feature, c.Phi,
			)
			if err != nil {
				return fmt.Errorf("failed to save contribution: %w", err)
			}
		}

		return nil
	})
}

const assessmentColumns = `
	id, clinic_id, patient_id,
	probability, base_value, lime_sensitivity,
	risk_band, mode,
	heart_rate, blood_pressure, oxygen, temperature, infection_marker,
	pain, breathless,
	recorded_at, version, created_at
`

// FindByID retrieves an assessment by its unique identifier.
func (r *AssessmentRepository) FindByID(ctx context.Context, clinicID, id uuid.UUID) (*model.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE clinic_id = $1 AND id = $2`

	assessment, err := r.scanAssessment(ctx, r.pool.QueryRow(ctx, query, clinicID, id))
	if err != nil {
		return nil, err
	}

	return assessment, nil
}

// FindByPatientID retrieves a patient's assessments, newest first.
func (r *AssessmentRepository) FindByPatientID(ctx context.Context, clinicID, patientID uuid.UUID, limit, offset int) ([]*model.Assessment, error) {
	query := `SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE clinic_id = $1 AND patient_id = $2
		ORDER BY recorded_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, clinicID, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*model.Assessment
	for rows.Next() {
		assessment, err := r.scanAssessment(ctx, rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}

func (r *AssessmentRepository) scanAssessment(ctx context.Context, row pgx.Row) (*model.Assessment, error) {
	var (
		id              uuid.UUID
		clinicID        uuid.UUID
		patientID       uuid.UUID
		probability     float64
		baseValue       float64
		limeSensitivity float64
		riskBandStr     string
		mode            string
		vitals          valueobject.VitalsSnapshot
		symptoms        valueobject.SymptomSnapshot
		recordedAt      time.Time
		version         int
		createdAt       time.Time
	)

	err := row.Scan(
		&id, &clinicID, &patientID,
		&probability, &baseValue, &limeSensitivity,
		&riskBandStr, &mode,
		&vitals.HeartRate, &vitals.BloodPressure, &vitals.Oxygen, &vitals.Temperature, &vitals.InfectionMarker,
		&symptoms.Pain, &symptoms.Breathless,
		&recordedAt, &version, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	riskBand, err := valueobject.RiskBandFromString(riskBandStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk band: %w", err)
	}

	contributions, err := r.loadContributions(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}

	result := valueobject.InferenceResult{
		Probability:     probability,
		BaseValue:       baseValue,
		Contributions:   contributions,
		LimeSensitivity: limeSensitivity,
	}

	return model.ReconstructAssessment(
		id, clinicID, patientID,
		vitals, symptoms, result, riskBand, mode,
		recordedAt, version, createdAt,
	), nil
}

func (r *AssessmentRepository) loadContributions(ctx context.Context, clinicID, assessmentID uuid.UUID) ([]valueobject.Contribution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT feature, phi FROM contributions WHERE clinic_id = $1 AND assessment_id = $2 ORDER BY position`,
		clinicID, assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	defer rows.Close()

	var contributions []valueobject.Contribution
	for rows.Next() {
		var c valueobject.Contribution
		if err := rows.Scan(&c.Feature, &c.Phi); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}

	return contributions, nil
}
