package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	// OutboxStatusDead marks an event that used up its retries. It stays in
	// the table for inspection and is never relayed again.
	OutboxStatusDead = "dead"
)

const (
	// MaxOutboxRetries stops redelivery of an event that keeps failing.
	MaxOutboxRetries = 10
	// ClaimLease hides claimed rows from other relays while one publishes them.
	ClaimLease = 30 * time.Second

	retryBase = 5 * time.Second
	retryCap  = 10 * time.Minute
)

// RetryDelay is the wait before the next attempt after the given number of
// failed attempts: doubling from 5s and capped at 10m.
func RetryDelay(failures int) time.Duration {
	if failures < 1 {
		return retryBase
	}
	d := retryBase
	for i := 1; i < failures; i++ {
		d *= 2
		if d >= retryCap {
			return retryCap
		}
	}
	return d
}

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Key           string
	Payload       []byte
	Status        string
	RetryCount    int
	CreatedAt     time.Time
}

const maxErrorMessage = 500

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock
type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	// ClaimPending leases up to limit due events to the caller. A claimed
	// event is invisible to other relays until the lease runs out.
	ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, event OutboxEvent, reason string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	query := `
INSERT INTO outbox_events (
	id, request_id, aggregate_type, aggregate_id, event_type, topic, message_key, payload, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		event.ID, event.RequestID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Key, event.Payload, event.Status,
	)
	return err
}

func (r *outboxRepository) ClaimPending(ctx context.Context, limit int, lease time.Duration) ([]OutboxEvent, error) {
	// SKIP LOCKED lets several relays claim disjoint batches concurrently.
	query := `
WITH due AS (
	SELECT id
	FROM outbox_events
	WHERE status IN ($1, $2)
		AND COALESCE(next_retry_at, created_at) <= NOW()
	ORDER BY created_at ASC
	LIMIT $3
	FOR UPDATE SKIP LOCKED
)
UPDATE outbox_events o
SET next_retry_at = NOW() + make_interval(secs => $4)
FROM due
WHERE o.id = due.id
RETURNING
	o.id,
	COALESCE(o.request_id, ''),
	o.aggregate_type,
	o.aggregate_id,
	o.event_type,
	o.topic,
	COALESCE(o.message_key, ''),
	o.payload,
	o.status,
	o.retry_count,
	o.created_at
`
	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, OutboxStatusFailed, limit, lease.Seconds())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID,
			&e.RequestID,
			&e.AggregateType,
			&e.AggregateID,
			&e.EventType,
			&e.Topic,
			&e.Key,
			&e.Payload,
			&e.Status,
			&e.RetryCount,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// RETURNING does not keep the CTE order.
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	query := `
UPDATE outbox_events
SET status = $2, processed_at = NOW(), error_message = NULL, next_retry_at = NULL, updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusSent)
	return err
}

// MarkFailed records a failed publish of a claimed event. The event is
// rescheduled after RetryDelay, or parked as dead once it has failed
// MaxOutboxRetries times.
func (r *outboxRepository) MarkFailed(ctx context.Context, event OutboxEvent, reason string) error {
	failures := event.RetryCount + 1
	status := OutboxStatusFailed
	var nextRetry any = time.Now().UTC().Add(RetryDelay(failures))
	if failures >= MaxOutboxRetries {
		status = OutboxStatusDead
		nextRetry = nil
	}
	if utf8.RuneCountInString(reason) > maxErrorMessage {
		reason = string([]rune(reason)[:maxErrorMessage])
	}

	query := `
UPDATE outbox_events
SET status = $2, retry_count = $3, error_message = $4, next_retry_at = $5, updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, event.ID, status, failures, reason, nextRetry)
	return err
}

func (r *outboxRepository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
