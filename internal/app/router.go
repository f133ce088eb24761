package app

import (
	apphttp "github.com/yungbote/cmi5-backend/internal/http"
	"github.com/yungbote/cmi5-backend/internal/observability"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
)

func wireServer(cfg Config, log *logger.Logger, metrics *observability.Metrics, handlers Handlers) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      cfg.Otel.ServiceName,
		CORSOrigins:      cfg.CORSOrigins,
		ServeMetrics:     cfg.MetricsAddr == "",
		UserHandler:      handlers.User,
		CourseHandler:    handlers.Course,
		StatementHandler: handlers.Statement,
		HealthHandler:    handlers.Health,
	})
}
