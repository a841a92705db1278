package bootstrap

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/eleven-am/align-backend/internal/auth"
	"github.com/eleven-am/align-backend/internal/coach"
	"github.com/eleven-am/align-backend/internal/detector"
	"github.com/eleven-am/align-backend/internal/gateway"
	"github.com/eleven-am/align-backend/internal/session"
	"github.com/eleven-am/align-backend/internal/synthesis"
)

func ProvideSessionStore(redisClient *redis.Client) *session.Store {
	return session.NewStore(redisClient)
}

func ProvideAuthService(cfg *Config) *auth.Service {
	return auth.NewService(cfg.JWTSecret, cfg.SessionTTL)
}

func ProvideRoomTokenService(cfg *Config) *gateway.RoomTokenService {
	return gateway.NewRoomTokenService(cfg.LiveKitAPIKey, cfg.LiveKitAPISecret, cfg.LiveKitURL)
}

func ProvideCoachManager(
	lc fx.Lifecycle,
	cfg *Config,
	det *detector.Client,
	synth *synthesis.Client,
	store *session.Store,
	validate *validator.Validate,
	logger *slog.Logger,
) *coach.Manager {
	// An unconfigured synthesizer downgrades speech events to text-only
	// instead of failing every utterance.
	var voice synthesis.Synthesizer
	if synth.Configured() {
		voice = synth
	}

	manager := coach.NewManager(coach.ManagerConfig{
		Detector:   det,
		Synth:      voice,
		Store:      store,
		Validate:   validate,
		MaxPerUser: cfg.MaxSessionsPerUser,
		Log:        logger,
	})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			manager.Close()
			return nil
		},
	})

	return manager
}

var CoachModule = fx.Options(
	fx.Provide(
		ProvideSessionStore,
		ProvideAuthService,
		ProvideRoomTokenService,
		ProvideCoachManager,
	),
)
