package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-workforce/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafkago.Message
	committed []int64
	drained   chan struct{}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	select {
	case r.drained <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type recordingChannel struct {
	mu   sync.Mutex
	sent []notification.Payload
	fail map[string]bool
}

func (c *recordingChannel) Name() string { return "recording" }

func (c *recordingChannel) Send(_ context.Context, p notification.Payload) error {
	if c.fail[p.ID] {
		return errors.New("redis unavailable")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, p)
	return nil
}

func encode(t *testing.T, p notification.Payload) []byte {
	t.Helper()
	b, err := json.Marshal(p)
	require.NoError(t, err)
	return b
}

func TestConsumeRequestNotifications(t *testing.T) {
	reader := &fakeReader{
		drained: make(chan struct{}, 1),
		messages: []kafkago.Message{
			{Offset: 1, Value: encode(t, notification.Payload{ID: "a", RecipientEmployeeID: 70, Family: "leave", RequestID: 1})},
			{Offset: 2, Value: []byte("{not json")},
			{Offset: 3, Value: encode(t, notification.Payload{ID: "b", RecipientEmployeeID: 71, Family: "tool", RequestID: 2})},
			{Offset: 4, Value: encode(t, notification.Payload{ID: "c", RecipientEmployeeID: 72, Family: "payment", RequestID: 3})},
		},
	}
	channel := &recordingChannel{fail: map[string]bool{"b": true}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ConsumeRequestNotifications(ctx, reader, channel, zap.NewNop())
		close(done)
	}()

	select {
	case <-reader.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not drain messages")
	}
	cancel()
	<-done

	require.Len(t, channel.sent, 2)
	assert.Equal(t, "a", channel.sent[0].ID)
	assert.Equal(t, "c", channel.sent[1].ID)
	// undeliverable offset 3 stays uncommitted for redelivery
	assert.Equal(t, []int64{1, 2, 4}, reader.committed)
}
