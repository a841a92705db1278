package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/eleven-am/align-backend/internal/detector"
	"github.com/eleven-am/align-backend/internal/synthesis"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideRedisClient(lc fx.Lifecycle, cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func ProvideDetectorClient(lc fx.Lifecycle, cfg *Config, logger *slog.Logger) *detector.Client {
	client := detector.NewClient(detector.Config{
		BaseURL:  cfg.DetectorURL,
		GRPCAddr: cfg.DetectorGRPCAddr,
	}, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

func ProvideSynthesisClient(cfg *Config, logger *slog.Logger) *synthesis.Client {
	return synthesis.NewClient(synthesis.Config{
		APIKey:     cfg.ElevenLabsAPIKey,
		VoiceID:    cfg.ElevenLabsVoiceID,
		ModelID:    cfg.ElevenLabsModelID,
		Stability:  cfg.VoiceStability,
		Similarity: cfg.VoiceSimilarity,
	}, logger)
}

func ProvideValidator() *validator.Validate {
	return validator.New()
}

var LoggerModule = fx.Options(
	fx.Provide(ProvideLogger),
)

var InfrastructureModule = fx.Options(
	fx.Provide(
		ProvideRedisClient,
		ProvideDetectorClient,
		ProvideSynthesisClient,
		ProvideValidator,
	),
)
