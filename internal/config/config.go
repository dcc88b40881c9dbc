package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the GreenMason backend.
type Config struct {
	Port      int
	Version   string
	Database  DatabaseConfig
	Gemini    GeminiConfig
	Voice     VoiceConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	// URI is the MongoDB connection string. Empty means "use the
	// in-memory store" (zero-config local dev).
	URI  string
	Name string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type VoiceConfig struct {
	APIKey  string
	VoiceID string
	ModelID string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("GREENMASON_PORT", 8000),
		Version: envStr("GREENMASON_VERSION", "1.0.0"),
		Database: DatabaseConfig{
			URI:  envStr("MONGODB_URI", ""),
			Name: envStr("MONGODB_DATABASE", "greenmason"),
		},
		Gemini: GeminiConfig{
			APIKey: envStr("GEMINI_API_KEY", ""),
			Model:  envStr("GEMINI_MODEL", "gemini-2.0-flash-001"),
		},
		Voice: VoiceConfig{
			APIKey:  envStr("ELEVENLABS_API_KEY", ""),
			VoiceID: envStr("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
			ModelID: envStr("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "greenmason-backend"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
