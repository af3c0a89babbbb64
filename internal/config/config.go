package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port         string
	Env          string
	MaxBodyBytes int64
	WriteTimeout time.Duration

	// Gemini AI
	GeminiAPIKey        string
	ServerKeyRoute      bool
	GeminiValidateModel string
	GeminiGenerateModel string
	GeminiProbeMessage  string
	GeminiEndpoint      string
	GeminiTemperature   *float32
	GeminiTimeout       time.Duration
	StrictRoles         bool

	// Frontend
	FrontendURL    string
	AllowedOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	frontendURL := getEnvOrDefault("FRONTEND_URL", "http://localhost:5173")

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		MaxBodyBytes:        int64(getEnvAsIntOrDefault("MAX_BODY_BYTES", 10<<20)),
		WriteTimeout:        time.Duration(getEnvAsIntOrDefault("HTTP_WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		ServerKeyRoute:      getEnvAsBoolOrDefault("SERVER_KEY_ROUTE", false),
		GeminiValidateModel: getEnvOrDefault("GEMINI_VALIDATE_MODEL", "gemini-2.5-flash-lite"),
		GeminiGenerateModel: getEnvOrDefault("GEMINI_GENERATE_MODEL", "gemini-2.5-flash"),
		GeminiProbeMessage:  getEnvOrDefault("GEMINI_PROBE_MESSAGE", "test"),
		GeminiEndpoint:      getEnvOrDefault("GEMINI_ENDPOINT", ""),
		GeminiTemperature:   getEnvAsFloatPtr("GEMINI_TEMPERATURE"),
		GeminiTimeout:       time.Duration(getEnvAsIntOrDefault("GEMINI_TIMEOUT_SECONDS", 120)) * time.Second,
		StrictRoles:         getEnvAsBoolOrDefault("STRICT_ROLES", false),
		FrontendURL:         frontendURL,
		AllowedOrigins:      getEnvAsListOrDefault("CORS_ALLOWED_ORIGINS", []string{frontendURL}),
	}

	// The env-credential route has no per-request fallback, so a missing
	// key must stop the process before it listens.
	if cfg.ServerKeyRoute {
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	} else {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvAsListOrDefault splits a comma separated value, dropping blanks.
func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func getEnvAsFloatPtr(key string) *float32 {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	f, err := strconv.ParseFloat(val, 32)
	if err != nil {
		return nil
	}
	f32 := float32(f)
	return &f32
}
