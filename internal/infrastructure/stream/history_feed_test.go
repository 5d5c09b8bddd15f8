package stream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelhealth/sentinel/internal/domain/event"
	"github.com/sentinelhealth/sentinel/internal/domain/port"
	"github.com/sentinelhealth/sentinel/pkg/kafka"
	"github.com/sentinelhealth/sentinel/pkg/testutil"
)

func testFeed() *HistoryFeed {
	return NewHistoryFeed(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func recordedMessage(t *testing.T, assessmentID, patientID uuid.UUID, recordedAt time.Time) kafka.Message {
	t.Helper()

	payload := event.AssessmentRecordedPayload{
		AssessmentID: assessmentID,
		ClinicID:     testutil.TestClinicID,
		PatientID:    patientID,
		Probability:  0.5,
		RiskBand:     "MEDIUM",
		Mode:         "live",
		RecordedAt:   recordedAt,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return kafka.Message{
		Key:   []byte(assessmentID.String()),
		Value: body,
		Headers: map[string]string{
			"event_id":   uuid.New().String(),
			"event_type": event.EventTypeAssessmentRecorded,
		},
	}
}

// subscribeOnce collects the initial snapshot and cancels the subscription.
func subscribeOnce(t *testing.T, feed *HistoryFeed, patientID uuid.UUID) []port.HistoryEntry {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []port.HistoryEntry
	err := feed.Subscribe(ctx, testutil.TestClinicID, patientID, func(entries []port.HistoryEntry) {
		got = entries
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
	return got
}

func TestHistoryFeedHandle(t *testing.T) {
	t.Run("ingests recorded assessments", func(t *testing.T) {
		feed := testFeed()
		now := time.Now().UTC()

		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, uuid.New(), testutil.TestPatientID1, now)))
		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, uuid.New(), testutil.TestPatientID1, now.Add(time.Second))))

		entries := subscribeOnce(t, feed, testutil.TestPatientID1)
		require.Len(t, entries, 2)
	})

	t.Run("ignores other event types", func(t *testing.T) {
		feed := testFeed()
		msg := recordedMessage(t, uuid.New(), testutil.TestPatientID1, time.Now())
		msg.Headers["event_type"] = event.EventTypeHighRiskDetected

		require.NoError(t, feed.Handle(context.Background(), msg))
		assert.Empty(t, subscribeOnce(t, feed, testutil.TestPatientID1))
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		feed := testFeed()
		msg := kafka.Message{
			Value:   []byte("not json"),
			Headers: map[string]string{"event_type": event.EventTypeAssessmentRecorded},
		}
		require.Error(t, feed.Handle(context.Background(), msg))
	})

	t.Run("same assessment id overwrites instead of duplicating", func(t *testing.T) {
		feed := testFeed()
		id := uuid.New()
		now := time.Now().UTC()

		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, id, testutil.TestPatientID1, now)))
		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, id, testutil.TestPatientID1, now)))

		assert.Len(t, subscribeOnce(t, feed, testutil.TestPatientID1), 1)
	})
}

func TestHistoryFeedSnapshot(t *testing.T) {
	t.Run("filters to the requested patient", func(t *testing.T) {
		feed := testFeed()
		now := time.Now().UTC()

		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, uuid.New(), testutil.TestPatientID1, now)))
		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, uuid.New(), testutil.TestPatientID2, now)))

		entries := subscribeOnce(t, feed, testutil.TestPatientID1)
		require.Len(t, entries, 1)
		assert.Equal(t, testutil.TestPatientID1, entries[0].PatientID)
	})

	t.Run("orders newest first", func(t *testing.T) {
		feed := testFeed()
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		oldest := uuid.New()
		middle := uuid.New()
		newest := uuid.New()
		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, middle, testutil.TestPatientID1, base.Add(time.Minute))))
		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, newest, testutil.TestPatientID1, base.Add(2*time.Minute))))
		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, oldest, testutil.TestPatientID1, base)))

		entries := subscribeOnce(t, feed, testutil.TestPatientID1)
		require.Len(t, entries, 3)
		assert.Equal(t, newest, entries[0].AssessmentID)
		assert.Equal(t, middle, entries[1].AssessmentID)
		assert.Equal(t, oldest, entries[2].AssessmentID)
	})
}

func TestHistoryFeedSubscribe(t *testing.T) {
	t.Run("re-delivers the full set on change", func(t *testing.T) {
		feed := testFeed()
		now := time.Now().UTC()
		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, uuid.New(), testutil.TestPatientID1, now)))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		snapshots := make(chan int, 4)
		done := make(chan error, 1)
		go func() {
			done <- feed.Subscribe(ctx, testutil.TestClinicID, testutil.TestPatientID1, func(entries []port.HistoryEntry) {
				snapshots <- len(entries)
			})
		}()

		// Initial snapshot.
		select {
		case n := <-snapshots:
			assert.Equal(t, 1, n)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for initial snapshot")
		}

		require.NoError(t, feed.Handle(context.Background(), recordedMessage(t, uuid.New(), testutil.TestPatientID1, now.Add(time.Second))))

		select {
		case n := <-snapshots:
			assert.Equal(t, 2, n)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for updated snapshot")
		}

		cancel()
		require.ErrorIs(t, <-done, context.Canceled)
	})
}
