package bootstrap

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/eleven-am/align-backend/internal/coach"
	"github.com/eleven-am/align-backend/internal/detector"
	"github.com/eleven-am/align-backend/internal/health"
	"github.com/eleven-am/align-backend/internal/synthesis"
)

const version = "1.0.0"

func ProvideHealthHandler(
	redisClient *redis.Client,
	det *detector.Client,
	synth *synthesis.Client,
	manager *coach.Manager,
) *health.Handler {
	return health.NewHandler(redisClient, det, synth, manager, version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementConnections()
			defer h.DecrementConnections()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
