package service

import "github.com/sentinelhealth/sentinel/internal/domain/valueobject"

// Engine defines the interface for risk inference strategies. RiskEngine is
// the deterministic rule-based implementation; a trained model client could
// implement the same interface once one exists.
type Engine interface {
	Compute(vitals valueobject.VitalsSnapshot, symptoms valueobject.SymptomSnapshot) valueobject.InferenceResult
}
