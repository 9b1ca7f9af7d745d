package utils

import (
	"io"
	"log"
	"os"

	"aulavirtual/backend/config"

	"github.com/rollbar/rollbar-go"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	// Формат логов (text/json)
	Format string
	// Выходной поток, по умолчанию os.Stdout
	Output io.Writer
	// Цвета для консоли
	EnableColors bool
}

// InitLogger инициализирует и возвращает логгер
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	prefix := "[aulavirtual] "
	if cfg.Format == "json" {
		return log.New(cfg.Output, prefix, log.LstdFlags|log.LUTC|log.Lmsgprefix)
	}
	if cfg.EnableColors {
		prefix = "\033[36m" + prefix + "\033[0m"
	}
	return log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
}

// NewLogger строит логгер из конфигурации приложения. Цвета только в dev.
func NewLogger(cfg *config.Config) *log.Logger {
	return InitLogger(LoggerConfig{Format: cfg.LogFormat, EnableColors: cfg.Env == "dev"})
}

// InitRollbar включает отправку ошибок 500 в Rollbar, если задан ROLLBAR_TOKEN.
func InitRollbar(cfg *config.Config) bool {
	if cfg.RollbarToken == "" {
		rollbar.SetEnabled(false)
		return false
	}
	rollbar.SetToken(cfg.RollbarToken)
	rollbar.SetEnvironment(cfg.Env)
	rollbar.SetCodeVersion("aulavirtual")
	rollbar.SetEnabled(true)
	return true
}
