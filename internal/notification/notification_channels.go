package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
)

const (
	ChannelOutbox = "outbox"
	ChannelRedis  = "redis"

	inboxSize = 50
)

// OutboxChannel queues payloads in the outbox table; the worker relays them
// to Kafka and the consumer delivers them through a RedisChannel.
type OutboxChannel struct {
	repo  kafka.OutboxRepository
	topic string
}

func NewOutboxChannel(repo kafka.OutboxRepository, topic string) *OutboxChannel {
	if topic == "" {
		topic = events.RequestNotificationTopic
	}
	return &OutboxChannel{repo: repo, topic: topic}
}

func (c *OutboxChannel) Name() string { return ChannelOutbox }

func (c *OutboxChannel) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.repo.Create(ctx, kafka.OutboxEvent{
		ID:            p.ID,
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: events.AggregateRequest,
		AggregateID:   fmt.Sprintf("%s:%d", p.Family, p.RequestID),
		EventType:     events.EventRequestStatusNotification,
		Topic:         c.topic,
		Key:           strconv.FormatInt(p.RecipientEmployeeID, 10),
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

// RedisChannel keeps a short per-employee inbox and publishes each payload
// for connected clients.
type RedisChannel struct {
	rdb *redis.Client
}

func NewRedisChannel(rdb *redis.Client) *RedisChannel {
	return &RedisChannel{rdb: rdb}
}

func (c *RedisChannel) Name() string { return ChannelRedis }

func PubSubChannel(employeeID int64) string {
	return "notifications:employee:" + strconv.FormatInt(employeeID, 10)
}

func InboxKey(employeeID int64) string {
	return "notifications:inbox:" + strconv.FormatInt(employeeID, 10)
}

func (c *RedisChannel) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	key := InboxKey(p.RecipientEmployeeID)
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, body)
		pipe.LTrim(ctx, key, 0, inboxSize-1)
		pipe.Publish(ctx, PubSubChannel(p.RecipientEmployeeID), body)
		return nil
	})
	return err
}

// Inbox returns the most recent payloads for an employee, newest first.
func (c *RedisChannel) Inbox(ctx context.Context, employeeID int64, limit int) ([]Payload, error) {
	if limit <= 0 || limit > inboxSize {
		limit = inboxSize
	}
	raw, err := c.rdb.LRange(ctx, InboxKey(employeeID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Payload, 0, len(raw))
	for _, item := range raw {
		var p Payload
		if err := json.Unmarshal([]byte(item), &p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
