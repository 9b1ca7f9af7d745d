package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBDSN      string

	JWTSecret  string
	ServerPort string

	AIAPIKey  string
	AIBaseURL string
	AIModel   string
	AITimeout time.Duration

	LateDiscountRate  float64
	LatePenaltyPoints float64

	TaskRetention time.Duration
	PurgeSchedule string

	RollbarToken       string
	LogFormat          string
	RateLimitPerMinute int
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("ENV", "dev")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "aulavirtual")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("JWT_SECRET", "secret")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_TIMEOUT", 60*time.Second)
	v.SetDefault("LATE_DISCOUNT_RATE", 0.2)
	v.SetDefault("LATE_PENALTY_POINTS", 1.0)
	v.SetDefault("TASK_RETENTION", 30*24*time.Hour)
	v.SetDefault("PURGE_SCHEDULE", "@daily")
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.AutomaticEnv()

	cfg := &Config{
		Env:                v.GetString("ENV"),
		DBDriver:           v.GetString("DB_DRIVER"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSLMODE"),
		DBDSN:              v.GetString("DB_DSN"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		ServerPort:         v.GetString("SERVER_PORT"),
		AIAPIKey:           v.GetString("AI_API_KEY"),
		AIBaseURL:          v.GetString("AI_BASE_URL"),
		AIModel:            v.GetString("AI_MODEL"),
		AITimeout:          v.GetDuration("AI_TIMEOUT"),
		LateDiscountRate:   v.GetFloat64("LATE_DISCOUNT_RATE"),
		LatePenaltyPoints:  v.GetFloat64("LATE_PENALTY_POINTS"),
		TaskRetention:      v.GetDuration("TASK_RETENTION"),
		PurgeSchedule:      v.GetString("PURGE_SCHEDULE"),
		RollbarToken:       v.GetString("ROLLBAR_TOKEN"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.LateDiscountRate < 0 || cfg.LateDiscountRate > 1 {
		return nil, errors.Errorf("LATE_DISCOUNT_RATE must be within [0,1], got %v", cfg.LateDiscountRate)
	}
	if cfg.JWTSecret == "secret" {
		log.Println("Warning: using default JWT_SECRET. Update it in your environment.")
	}

	return cfg, nil
}

// DSN builds the connection string for the configured driver. DB_DSN wins when set.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == "sqlite" {
		return c.DBName + ".db"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
