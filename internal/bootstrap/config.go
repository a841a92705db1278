package bootstrap

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	JWTSecret  string
	SessionTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DetectorURL      string
	DetectorGRPCAddr string

	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	ElevenLabsModelID string
	VoiceStability    float64
	VoiceSimilarity   float64

	LiveKitAPIKey    string
	LiveKitAPISecret string
	LiveKitURL       string

	ConnectPerMinute   int
	ConnectBurst       int
	MaxSessionsPerUser int
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		JWTSecret:  getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		DetectorURL:      getEnv("DETECTOR_URL", "http://localhost:9090"),
		DetectorGRPCAddr: getEnv("DETECTOR_GRPC_ADDR", ""),

		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoiceID: getEnv("ELEVENLABS_VOICE_ID", ""),
		ElevenLabsModelID: getEnv("ELEVENLABS_MODEL_ID", ""),
		VoiceStability:    getEnvFloat("VOICE_STABILITY", 0.5),
		VoiceSimilarity:   getEnvFloat("VOICE_SIMILARITY", 0.8),

		LiveKitAPIKey:    getEnv("LIVEKIT_API_KEY", ""),
		LiveKitAPISecret: getEnv("LIVEKIT_API_SECRET", ""),
		LiveKitURL:       getEnv("LIVEKIT_URL", ""),

		ConnectPerMinute:   getEnvInt("CONNECT_PER_MINUTE", 5),
		ConnectBurst:       getEnvInt("CONNECT_BURST", 5),
		MaxSessionsPerUser: getEnvInt("MAX_SESSIONS_PER_USER", 2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
