package config_test

import (
	"testing"
	"time"

	"go-workforce/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5, cfg.Database.MaxRetries)
	assert.Equal(t, "outbox", cfg.Notification.Channel)
	assert.Equal(t, "erp.request.notification.v1", cfg.Kafka.NotificationTopic)
	assert.False(t, cfg.Approval.RequireRejectRemarks)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("KAFKA_BROKER", "kafka:9092")
	t.Setenv("NOTIFICATION_CHANNEL", "redis")
	t.Setenv("REQUIRE_REJECT_REMARKS", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "kafka:9092", cfg.Kafka.Broker)
	assert.Equal(t, "redis", cfg.Notification.Channel)
	assert.True(t, cfg.Approval.RequireRejectRemarks)
}
