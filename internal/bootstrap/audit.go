package bootstrap

import "context"

const (
	ActionServerShutdown = "SERVER_SHUTDOWN"
	ActionWorkerShutdown = "WORKER_SHUTDOWN"
)

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
