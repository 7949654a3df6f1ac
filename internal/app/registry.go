package app

import (
	"database/sql"
	"net/http"

	"go-workforce/internal/approval"
	"go-workforce/internal/attachment"
	"go-workforce/internal/config"
	"go-workforce/internal/dashboard"
	"go-workforce/internal/employee"
	"go-workforce/internal/leave"
	"go-workforce/internal/material"
	"go-workforce/internal/medical"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/middleware"
	"go-workforce/internal/notification"
	"go-workforce/internal/observability"
	"go-workforce/internal/payment"
	"go-workforce/internal/project"
	"go-workforce/internal/rbac"
	"go-workforce/internal/shared/counter"
	"go-workforce/internal/team"
	"go-workforce/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type modules struct {
	sqlDB   *sql.DB
	gormDB  *gorm.DB
	rdb     *redis.Client
	objects *minio.Client
}

func registerModules(router *gin.Engine, cfg *config.Config, m modules) error {
	logger := zap.L()

	// --- Repositories ---
	counterRepo := counter.NewRepository(m.gormDB)
	employeeRepo := employee.NewRepository(m.gormDB)
	projectRepo := project.NewRepository(m.gormDB)
	teamRepo := team.NewRepository(m.gormDB)
	rbacRepo := rbac.NewRepository(m.gormDB)
	leaveRepo := leave.NewRepository(m.gormDB)
	paymentRepo := payment.NewRepository(m.gormDB)
	medicalRepo := medical.NewRepository(m.gormDB)
	materialRepo := material.NewRepository(m.gormDB)
	outboxRepo := kafka.NewOutboxRepository(m.sqlDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(rbacRepo, enforcer, logger)
	if err != nil {
		return err
	}

	// --- Directory & Membership ---
	projectService := project.NewService(m.sqlDB, projectRepo, employeeRepo, m.rdb, logger)
	employeeService := employee.NewService(m.sqlDB, employeeRepo, projectService, logger)
	resolver := team.NewResolver(teamRepo, logger)

	// --- Notifications & Engine ---
	redisChannel := notification.NewRedisChannel(m.rdb)
	dispatcher := notification.NewDispatcher(
		notificationChannel(cfg, outboxRepo, redisChannel),
		logger,
	)
	engine := approval.NewEngine(resolver, dispatcher, approval.Config{
		RequireRejectRemarks: cfg.Approval.RequireRejectRemarks,
		NotifyTimeout:        cfg.Notification.Timeout,
	}, logger)

	var store attachment.Store
	if m.objects != nil {
		store = attachment.NewMinioStore(m.objects, cfg.MinIO.Bucket, logger)
	}

	// --- Request Families ---
	leaveService := leave.NewService(m.sqlDB, leaveRepo, counterRepo, employeeService, engine, logger)
	paymentService := payment.NewService(m.sqlDB, paymentRepo, counterRepo, employeeService, engine, logger)
	medicalService := medical.NewService(m.sqlDB, medicalRepo, counterRepo, store, employeeService, engine, logger)
	materialService := material.NewService(m.sqlDB, materialRepo, counterRepo, projectService, employeeService, engine, logger)

	dashboardService := dashboard.NewService(
		employeeService,
		resolver,
		employeeService,
		projectService,
		[]dashboard.Source{
			dashboard.LeaveSource(leaveService),
			dashboard.PaymentSource(paymentService),
			dashboard.MedicalSource(medicalService),
			dashboard.MaterialSource(materialService, workflow.FamilyMaterial),
			dashboard.MaterialSource(materialService, workflow.FamilyTool),
		},
		logger,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	projectHandler := project.NewHandler(projectService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	paymentHandler := payment.NewHandler(paymentService, logger)
	medicalHandler := medical.NewHandler(medicalService, logger)
	materialHandler := material.NewHandler(materialService, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	notificationHandler := notification.NewHandler(employeeService, redisChannel, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), observability.GinMiddleware())
	router.GET("/metrics", observability.Handler())
	router.GET("/healthz", healthz(m.sqlDB, m.rdb))

	api := router.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWT.Secret),
		middleware.ContextLogger(logger),
	)
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		project.RegisterRoutes(api, projectHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
		leave.RegisterRoutes(api, leaveHandler, m.rdb)
		payment.RegisterRoutes(api, paymentHandler, m.rdb)
		medical.RegisterRoutes(api, medicalHandler, m.rdb)
		material.RegisterRoutes(api, materialHandler, m.rdb)
		dashboard.RegisterRoutes(api, dashboardHandler)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}

// notificationChannel picks where status changes go: the outbox, relayed by
// the worker, or straight to Redis.
func notificationChannel(cfg *config.Config, outbox kafka.OutboxRepository, redisChannel *notification.RedisChannel) notification.Channel {
	if cfg.Notification.Channel == notification.ChannelRedis {
		return redisChannel
	}
	return notification.NewOutboxChannel(outbox, cfg.Kafka.NotificationTopic)
}

func healthz(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := gin.H{"database": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}
