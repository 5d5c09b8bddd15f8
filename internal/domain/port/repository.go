package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sentinelhealth/sentinel/internal/domain/model"
)

// Sentinel errors returned by repositories so callers can map them to
// transport-level status codes.
var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrProfileNotFound    = errors.New("profile not found")
)

// AssessmentRepository defines the persistence port for recorded assessments.
// Save is append-only: an assessment is an audit entry and is never updated.
type AssessmentRepository interface {
	// Save persists a recorded assessment with its contribution terms.
	Save(ctx context.Context, assessment *model.Assessment) error

	// FindByID retrieves an assessment by its unique identifier.
	FindByID(ctx context.Context, clinicID, id uuid.UUID) (*model.Assessment, error)

	// FindByPatientID retrieves a patient's assessments, newest first.
	FindByPatientID(ctx context.Context, clinicID, patientID uuid.UUID, limit, offset int) ([]*model.Assessment, error)
}

// ProfileRepository defines the persistence port for patient profiles.
type ProfileRepository interface {
	// Save upserts the one-time profile record.
	Save(ctx context.Context, profile *model.PatientProfile) error

	// FindByPatientID retrieves a patient's profile, or ErrProfileNotFound.
	FindByPatientID(ctx context.Context, clinicID, patientID uuid.UUID) (*model.PatientProfile, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...interface{}) error
}

// TextGenerator defines the port for the external text-generation
// collaborator used for best-effort assessment explanations.
type TextGenerator interface {
	// Generate sends a free-text prompt and returns the generated text.
	Generate(ctx context.Context, prompt string) (string, error)
}

// HistoryEntry is one element of the live history set delivered to
// subscribers. It is a read-model projection, not the aggregate.
type HistoryEntry struct {
	AssessmentID uuid.UUID
	ClinicID     uuid.UUID
	PatientID    uuid.UUID
	Probability  float64
	RiskBand     string
	Mode         string
	RecordedAt   int64 // unix milliseconds, the re-sort key
}

// HistoryStream delivers the current known set of a patient's audit entries
// on every change. The sequence is unbounded and non-restartable; it ends
// only when ctx is canceled.
type HistoryStream interface {
	// Subscribe invokes fn with a fresh snapshot (newest first, filtered to
	// the given patient) each time the set changes. Blocks until ctx ends.
	Subscribe(ctx context.Context, clinicID, patientID uuid.UUID, fn func(entries []HistoryEntry)) error
}
