package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-workforce/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	event := kafka.OutboxEvent{
		ID:            "evt-1",
		RequestID:     "rid-1",
		AggregateType: "request",
		AggregateID:   "leave:12",
		EventType:     "request.status_notification",
		Topic:         "erp.request.notification.v1",
		Key:           "70",
		Payload:       []byte(`{"title":"Leave Request Approved"}`),
		Status:        kafka.OutboxStatusPending,
	}

	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID,
			event.EventType, event.Topic, event.Key, event.Payload, event.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalid(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = kafka.NewOutboxRepository(db).Create(context.Background(), kafka.OutboxEvent{ID: "x", Topic: "t"})
	assert.EqualError(t, err, "outbox payload is required")
}

func TestOutboxRepository_ClaimPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	older := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "message_key", "payload", "status", "retry_count", "created_at",
	}).
		AddRow("evt-2", "rid", "request", "tool:4", "request.status_notification",
			"erp.request.notification.v1", "", []byte(`{}`), kafka.OutboxStatusFailed, 3, older.Add(time.Minute)).
		AddRow("evt-1", "rid", "request", "leave:1", "request.status_notification",
			"erp.request.notification.v1", "70", []byte(`{}`), kafka.OutboxStatusPending, 0, older)

	mock.ExpectQuery("UPDATE outbox_events o").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50, float64(30)).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ClaimPending(context.Background(), 50, kafka.ClaimLease)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "70", events[0].Key)
	assert.Equal(t, "tool:4", events[1].AggregateID)
	assert.Equal(t, 3, events[1].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	t.Run("reschedules with backoff", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE outbox_events").
			WithArgs("evt-1", kafka.OutboxStatusFailed, 3, "broker unavailable", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = kafka.NewOutboxRepository(db).MarkFailed(context.Background(), kafka.OutboxEvent{ID: "evt-1", RetryCount: 2}, "broker unavailable")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("last attempt parks the event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("UPDATE outbox_events").
			WithArgs("evt-1", kafka.OutboxStatusDead, kafka.MaxOutboxRetries, "broker unavailable", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		event := kafka.OutboxEvent{ID: "evt-1", RetryCount: kafka.MaxOutboxRetries - 1}
		err = kafka.NewOutboxRepository(db).MarkFailed(context.Background(), event, "broker unavailable")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRetryDelay(t *testing.T) {
	assert.Equal(t, 5*time.Second, kafka.RetryDelay(0))
	assert.Equal(t, 5*time.Second, kafka.RetryDelay(1))
	assert.Equal(t, 10*time.Second, kafka.RetryDelay(2))
	assert.Equal(t, 40*time.Second, kafka.RetryDelay(4))
	assert.Equal(t, 10*time.Minute, kafka.RetryDelay(9))
}
