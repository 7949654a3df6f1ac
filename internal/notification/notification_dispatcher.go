// Package notification tells employees about status changes on their
// requests. Delivery is best effort: callers never roll back a transition
// because a notification failed.
package notification

import (
	"context"
	"time"

	"go-workforce/internal/observability"
	"go-workforce/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DispatchResult struct {
	Channel     string    `json:"channel"`
	MessageID   string    `json:"message_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// Channel delivers a rendered payload.
type Channel interface {
	Name() string
	Send(ctx context.Context, p Payload) error
}

type Dispatcher struct {
	channel Channel
	now     func() time.Time
	logger  *zap.Logger
}

func NewDispatcher(channel Channel, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &Dispatcher{channel: channel, now: time.Now, logger: l}
}

func (d *Dispatcher) NotifyStatus(ctx context.Context, change StatusChange) (DispatchResult, error) {
	log := contextutil.GetLogger(ctx, d.logger)

	now := d.now()
	payload := BuildPayload(change, uuid.NewString(), now)
	if err := d.channel.Send(ctx, payload); err != nil {
		observability.RecordNotification(d.channel.Name(), "failed")
		log.Warn("status notification failed",
			zap.String("channel", d.channel.Name()),
			zap.String("family", string(change.Family)),
			zap.Int64("request_id", change.RequestID),
			zap.Error(err),
		)
		return DispatchResult{}, err
	}

	observability.RecordNotification(d.channel.Name(), "sent")
	log.Info("status notification dispatched",
		zap.String("channel", d.channel.Name()),
		zap.String("notification_id", payload.ID),
		zap.String("family", string(change.Family)),
		zap.Int64("request_id", change.RequestID),
		zap.String("status", change.NewStatus),
		zap.Int64("recipient", change.EmployeeID),
	)
	return DispatchResult{
		Channel:     d.channel.Name(),
		MessageID:   payload.ID,
		DeliveredAt: now,
	}, nil
}
