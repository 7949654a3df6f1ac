package contextutil_test

import (
	"context"
	"testing"
	"time"

	"go-workforce/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetLogger_FallsBack(t *testing.T) {
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	def := zap.NewNop().Named("default")
	assert.Same(t, def, contextutil.GetLogger(context.Background(), def))

	scoped := zap.NewNop().Named("scoped")
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, def))
}

func TestDetach(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	parent = contextutil.WithRequestID(parent, "REQ-1")
	parent = contextutil.WithPrincipalID(parent, 42)

	ctx := contextutil.Detach(parent)
	cancel()

	assert.NoError(t, ctx.Err())
	assert.Equal(t, "REQ-1", contextutil.GetRequestID(ctx))
	assert.Equal(t, int64(42), contextutil.GetPrincipalID(ctx))
	md := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, "REQ-1", md.RequestID)
}
