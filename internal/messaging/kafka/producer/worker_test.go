package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-workforce/internal/messaging/kafka"
	kafkaMock "go-workforce/internal/messaging/kafka/mock"
	"go-workforce/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	written []kafkago.Message
	failOn  string
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failOn {
			return errors.New("broker unavailable")
		}
		w.written = append(w.written, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{failOn: "99"}
	ctx := context.Background()

	failing := kafka.OutboxEvent{ID: "b", Topic: "t", Key: "99", AggregateID: "leave:2", EventType: "e", Payload: []byte(`{}`), RetryCount: 2}
	repo.EXPECT().ClaimPending(ctx, 50, kafka.ClaimLease).Return([]kafka.OutboxEvent{
		{ID: "a", Topic: "t", Key: "70", AggregateID: "leave:1", EventType: "e", Payload: []byte(`{}`)},
		failing,
		{ID: "c", Topic: "t", AggregateID: "tool:3", EventType: "e", Payload: []byte(`{}`)},
	}, nil)
	repo.EXPECT().MarkSent(ctx, "a").Return(nil)
	repo.EXPECT().MarkFailed(ctx, failing, "broker unavailable").Return(nil)
	repo.EXPECT().MarkSent(ctx, "c").Return(nil)

	sent, err := producer.ProcessPendingEvents(ctx, repo, writer, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, writer.written, 2)
	assert.Equal(t, "70", string(writer.written[0].Key))
	// falls back to the aggregate id when no key was stored
	assert.Equal(t, "tool:3", string(writer.written[1].Key))
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ClaimPending(gomock.Any(), 50, kafka.ClaimLease).Return(nil, errors.New("db down"))

	_, err := producer.ProcessPendingEvents(context.Background(), repo, &fakeWriter{}, zap.NewNop())
	assert.Error(t, err)
}
