package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"

	"github.com/eleven-am/align-backend/docs"
	"github.com/eleven-am/align-backend/internal/auth"
	"github.com/eleven-am/align-backend/internal/coach"
	"github.com/eleven-am/align-backend/internal/gateway"
	"github.com/eleven-am/align-backend/internal/session"
)

func ProvideAuthHandler(service *auth.Service, validate *validator.Validate, logger *slog.Logger) *auth.Handler {
	return auth.NewHandler(service, validate, logger.With("handler", "auth"))
}

func ProvideMetricsHandler(store *session.Store, logger *slog.Logger) *session.Handler {
	return session.NewHandler(store, logger.With("handler", "metrics"))
}

func ProvideGatewayHandler(
	cfg *Config,
	manager *coach.Manager,
	authService *auth.Service,
	tokens *gateway.RoomTokenService,
	logger *slog.Logger,
) *gateway.Handler {
	return gateway.NewHandler(gateway.HandlerConfig{
		Manager:    manager,
		Auth:       authService,
		RoomTokens: tokens,
		RateLimit: gateway.ConnectLimiterConfig{
			PerMinute: cfg.ConnectPerMinute,
			Burst:     cfg.ConnectBurst,
		},
		Logger: logger,
	})
}

type HandlerParams struct {
	fx.In

	AuthHandler    *auth.Handler
	MetricsHandler *session.Handler
	CoachHandler   *gateway.Handler
	AuthService    *auth.Service
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")

	params.AuthHandler.RegisterRoutes(api.Group("/auth"))

	authMW := auth.MiddlewareFunc(params.AuthService)
	params.CoachHandler.RegisterRoutes(api.Group("/coach"), authMW)

	metricsGroup := api.Group("/metrics")
	metricsGroup.Use(authMW)
	params.MetricsHandler.RegisterRoutes(metricsGroup)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())
	e.GET("/asyncapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", docs.AsyncAPISpec)
	})
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideAuthHandler,
		ProvideMetricsHandler,
		ProvideGatewayHandler,
	),
	fx.Invoke(RegisterRoutes),
)
