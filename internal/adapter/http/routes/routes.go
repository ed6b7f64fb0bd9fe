package routes

import (
	"time"

	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
	"todoapi/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterConfig struct {
	TodoHandler *handler.TodoHandler
	Metrics     *telemetry.AppMetrics
	Logger      *logger.LokiLogger
	Config      *config.AppConfig
}

func SetupRouter(rc RouterConfig) *gin.Engine {
	if rc.Config == nil {
		rc.Config = config.GetDefaultConfig()
	}

	if rc.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(rc.Config.ServiceName))
	router.Use(middleware.CurrentMiddleware())

	if rc.Logger != nil {
		router.Use(middleware.LoggingMiddleware(rc.Logger))
	}

	if rc.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(rc.Metrics))
	}

	router.Use(corsMiddleware(rc.Config.HTTP.CORSAllowedOrigins))

	router.GET("/", rc.TodoHandler.Root)

	setupTodoRoutes(router.Group("/api"), rc.TodoHandler)

	return router
}

func setupTodoRoutes(api *gin.RouterGroup, todoHandler *handler.TodoHandler) {
	todos := api.Group("/todos")
	{
		todos.GET("", todoHandler.ListTodos)
		todos.POST("", todoHandler.CreateTodo)
		todos.GET("/:id", todoHandler.GetTodo)
		todos.PATCH("/:id", todoHandler.UpdateTodo)
		todos.DELETE("/:id", todoHandler.DeleteTodo)
		todos.POST("/:id/duplicate", todoHandler.DuplicateTodo)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}

	return cors.New(corsConfig)
}
