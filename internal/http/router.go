package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/cmi5-backend/internal/http/handlers"
	httpMW "github.com/yungbote/cmi5-backend/internal/http/middleware"
	"github.com/yungbote/cmi5-backend/internal/observability"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string
	// ServeMetrics mounts /metrics on the API router, for deployments
	// without a dedicated metrics listener.
	ServeMetrics bool

	UserHandler      *httpH.UserHandler
	CourseHandler    *httpH.CourseHandler
	StatementHandler *httpH.StatementHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	httpH.RegisterValidators()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "cmi5-backend"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.ServeMetrics && cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Users
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Create)
			api.GET("/users", cfg.UserHandler.List)
			api.GET("/users/email/:email", cfg.UserHandler.GetByEmail)
			api.GET("/users/:id", cfg.UserHandler.Get)
			api.DELETE("/users/:id", cfg.UserHandler.Delete)
		}

		// Courses
		if cfg.CourseHandler != nil {
			api.POST("/courses", cfg.CourseHandler.Create)
			api.GET("/courses/all", cfg.CourseHandler.List)
			api.POST("/courses/enrollment", cfg.CourseHandler.Enroll)
			api.GET("/courses/:id", cfg.CourseHandler.Get)
			api.DELETE("/courses/:id", cfg.CourseHandler.Delete)
		}

		// Statements
		if cfg.StatementHandler != nil {
			api.POST("/statement", cfg.StatementHandler.Submit)
			api.GET("/statement/all", cfg.StatementHandler.List)
			api.GET("/statement/:courseId/:userId", cfg.StatementHandler.Get)
		}
	}

	return r
}
