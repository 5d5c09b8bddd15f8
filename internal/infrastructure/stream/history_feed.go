package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sentinelhealth/sentinel/internal/domain/event"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
	"github.com/sentinelhealth/sentinel/pkg/kafka"
)

// HistoryFeed implements port.HistoryStream by consuming the assessment
// topic and maintaining the current known set of audit entries in memory.
// Each change fans a fresh snapshot out to every subscriber; slow
// subscribers coalesce intermediate updates rather than queueing them.
type HistoryFeed struct {
	logger *slog.Logger

	mu          sync.RWMutex
	entries     map[uuid.UUID]port.HistoryEntry
	subscribers map[int]chan struct{}
	nextSubID   int
}

// NewHistoryFeed creates an empty feed. Call Run to start consuming.
func NewHistoryFeed(logger *slog.Logger) *HistoryFeed {
	return &HistoryFeed{
		logger:      logger,
		entries:     make(map[uuid.UUID]port.HistoryEntry),
		subscribers: make(map[int]chan struct{}),
	}
}

// Run consumes the assessment topic until ctx is canceled.
func (f *HistoryFeed) Run(ctx context.Context, cfg kafka.Config, topic string) error {
	consumer := kafka.NewConsumer(cfg, topic, f.Handle, f.logger)
	defer consumer.Close() //nolint:errcheck

	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("history feed consumer: %w", err)
	}
	return nil
}

// Handle ingests one consumed message. Only recorded-assessment events
// mutate the set; other event types on the topic are ignored.
func (f *HistoryFeed) Handle(_ context.Context, msg kafka.Message) error {
	if msg.Headers["event_type"] != event.EventTypeAssessmentRecorded {
		return nil
	}

	var payload event.AssessmentRecordedPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return fmt.Errorf("failed to decode assessment event: %w", err)
	}

	entry := port.HistoryEntry{
		AssessmentID: payload.AssessmentID,
		ClinicID:     payload.ClinicID,
		PatientID:    payload.PatientID,
		Probability:  payload.Probability,
		RiskBand:     payload.RiskBand,
		Mode:         payload.Mode,
		RecordedAt:   payload.RecordedAt.UnixMilli(),
	}

	f.mu.Lock()
	f.entries[entry.AssessmentID] = entry
	f.mu.Unlock()

	f.notify()
	return nil
}

// Subscribe delivers the current snapshot immediately, then a fresh one on
// every change, filtered to the patient and sorted newest first. Blocks
// until ctx is canceled; the sequence is non-restartable.
func (f *HistoryFeed) Subscribe(ctx context.Context, clinicID, patientID uuid.UUID, fn func(entries []port.HistoryEntry)) error {
	wake := make(chan struct{}, 1)

	f.mu.Lock()
	id := f.nextSubID
	f.nextSubID++
	f.subscribers[id] = wake
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.subscribers, id)
		f.mu.Unlock()
	}()

	fn(f.snapshot(clinicID, patientID))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wake:
			fn(f.snapshot(clinicID, patientID))
		}
	}
}

func (f *HistoryFeed) snapshot(clinicID, patientID uuid.UUID) []port.HistoryEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries := make([]port.HistoryEntry, 0)
	for _, e := range f.entries {
		if e.ClinicID == clinicID && e.PatientID == patientID {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RecordedAt != entries[j].RecordedAt {
			return entries[i].RecordedAt > entries[j].RecordedAt
		}
		// Deterministic order for same-millisecond entries.
		return entries[i].AssessmentID.String() > entries[j].AssessmentID.String()
	})

	return entries
}

func (f *HistoryFeed) notify() {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, wake := range f.subscribers {
		select {
		case wake <- struct{}{}:
		default: // already pending, coalesce
		}
	}
}
