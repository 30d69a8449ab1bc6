package http

import (
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labwise/labwise/internal/domain/ports"
	"github.com/labwise/labwise/internal/logger"
)

// Services bundles the domain services the HTTP surface exposes
type Services struct {
	Equipment    ports.EquipmentService
	Maintenance  ports.MaintenanceService
	Settings     ports.SettingsService
	Notification ports.NotificationService
	ActivityLog  ports.ActivityLogRepository
}

// ginLogger returns a gin.HandlerFunc (middleware) that logs requests using the structured logger
func ginLogger() gin.HandlerFunc {
	logger := logger.New("gin-http", "info")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		method := c.Request.Method
		clientIP := c.ClientIP()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		fields := []interface{}{
			"status", statusCode,
			"method", method,
			"path", path,
			"ip", clientIP,
			"latency_ms", latency.Milliseconds(),
		}

		if query != "" {
			fields = append(fields, "query", query)
		}

		if errorMessage != "" {
			fields = append(fields, "error", errorMessage)
		}

		if statusCode >= 500 {
			logger.Errorw("HTTP request error", fields...)
		} else if statusCode >= 400 {
			logger.Warnw("HTTP request warning", fields...)
		} else {
			logger.Infow("HTTP request", fields...)
		}
	}
}

// ginRecovery returns a gin.HandlerFunc (middleware) that recovers from panics
func ginRecovery() gin.HandlerFunc {
	logger := logger.New("gin-recovery", "info")

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				logger.Errorw("Panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"ip", c.ClientIP(),
					"stack", string(stack),
				)

				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(services Services) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Recovery must run before logging
	router.Use(ginRecovery())
	router.Use(ginLogger())

	handler := NewHandler(services)
	gateway := NewGatewayHandler(services)

	// Staff API
	api := router.Group("/api/v1")
	{
		api.POST("/equipment", handler.CreateEquipment)
		api.GET("/equipment", handler.ListEquipment)
		api.GET("/equipment/:id", handler.GetEquipment)
		api.PUT("/equipment/:id", handler.UpdateEquipment)
		api.GET("/equipment/:id/tasks", handler.ListTasks)
		api.POST("/equipment/:id/tasks", handler.ScheduleTask)
		api.PUT("/tasks/:taskId/status", handler.TransitionTask)

		api.GET("/settings", handler.ListSettings)
		api.PUT("/settings/:id", handler.UpdateSetting)
		api.POST("/settings", handler.CreateCustomSetting)

		api.GET("/notifications", handler.ListNotifications)
		api.GET("/activity", handler.ListActivity)
		api.POST("/notifications/sweep", handler.RunSweep)
	}

	// Field check-in gateway, authenticated by the per-equipment token alone
	field := router.Group("/m/:token")
	{
		field.GET("", gateway.GetEquipment)
		field.POST("/tasks", gateway.ScheduleTask)
		field.PUT("/tasks/:taskId/status", gateway.TransitionTask)
	}

	// Health check
	router.GET("/health", handler.HealthCheck)

	return router
}
