package consumer

import (
	"context"
	"encoding/json"

	"go-workforce/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeRequestNotifications delivers queued request notifications until ctx
// is cancelled. A message is committed only after delivery succeeds, except
// for payloads that cannot be decoded.
func ConsumeRequestNotifications(
	ctx context.Context,
	reader MessageReader,
	channel notification.Channel,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.request_notification")
	log.Info("request notification consumer started", zap.String("channel", channel.Name()))

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("request notification consumer stopped")
				return
			}
			log.Error("fetch request notification failed", zap.Error(err))
			continue
		}

		handleRequestNotification(ctx, reader, channel, msg, log)
	}
}

func handleRequestNotification(
	ctx context.Context,
	reader MessageReader,
	channel notification.Channel,
	msg kafkago.Message,
	log *zap.Logger,
) {
	var payload notification.Payload
	if err := json.Unmarshal(msg.Value, &payload); err != nil || payload.RecipientEmployeeID == 0 {
		log.Error("decode request notification failed",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := channel.Send(ctx, payload); err != nil {
		log.Error("deliver request notification failed",
			zap.String("notification_id", payload.ID),
			zap.Int64("recipient", payload.RecipientEmployeeID),
			zap.Error(err),
		)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit request notification failed", zap.Error(err))
		return
	}

	log.Info("request notification delivered",
		zap.String("notification_id", payload.ID),
		zap.String("family", payload.Family),
		zap.Int64("request_id", payload.RequestID),
		zap.Int64("recipient", payload.RecipientEmployeeID),
	)
}
