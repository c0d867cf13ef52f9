package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool

	JWTSecret string
	TokenTTL  time.Duration

	Timezone    string
	CORSOrigins string

	CronSecret       string
	MaintenanceAt    string
	SchedulerEnabled bool

	LLMURL    string
	LLMKey    string
	LLMModels []string

	LogLevel string
}

var defaultLLMModels = "google/gemini-2.0-flash-exp:free,deepseek/deepseek-r1-distill-llama-70b:free,mistralai/mistral-7b-instruct:free"

// Load reads the dotenv files (default .env) into the environment, then builds the config from it.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	cfg := Config{
		Port:             getenv("PORT", "8000"),
		DBHost:           getenv("DB_HOST", "localhost"),
		DBPort:           getenv("DB_PORT", "5432"),
		DBUser:           getenv("DB_USER", "postgres"),
		DBPassword:       getenv("DB_PASSWORD", ""),
		DBName:           getenv("DB_NAME", "kairos"),
		DBSSLMode:        getenv("DB_SSLMODE", "disable"),
		AutoMigrate:      getenvBool("DB_AUTO_MIGRATE", true),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         time.Duration(getenvInt("TOKEN_TTL_HOURS", 24*365)) * time.Hour,
		Timezone:         getenv("APP_TIMEZONE", "Europe/Madrid"),
		CORSOrigins:      getenv("CORS_ORIGINS", "http://localhost:5173, http://localhost:3000"),
		CronSecret:       os.Getenv("CRON_SECRET"),
		MaintenanceAt:    getenv("MAINTENANCE_AT", "04:00"),
		SchedulerEnabled: getenvBool("SCHEDULER_ENABLED", true),
		LLMURL:           getenv("LLM_API_URL", "https://openrouter.ai/api/v1/chat/completions"),
		LLMKey:           os.Getenv("LLM_API_KEY"),
		LLMModels:        splitList(getenv("LLM_MODELS", defaultLLMModels)),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Level maps LOG_LEVEL onto fiber's logger levels.
func (c Config) Level() log.Level {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
