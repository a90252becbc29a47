// Package config загружает конфигурацию сервиса из переменных окружения.
// Порядок источников: переменные окружения, затем файл .env (если есть),
// затем значения по умолчанию из тегов.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Поддерживаемые хранилища результата
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config содержит конфигурацию сервиса
type Config struct {
	ServerAddr  string `envconfig:"SERVER_ADDR" default:":8080" validate:"required"`
	DatasetPath string `envconfig:"DATASET_PATH" default:"battery_data_failure.csv" validate:"required"`
	WorkerCount int    `envconfig:"WORKER_COUNT" default:"4" validate:"min=1"`
	RefineMode  bool   `envconfig:"REFINE_MODE" default:"false"`

	Store StoreConfig
	Log   LogConfig

	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
}

// StoreConfig параметры хранилища результата оценки
type StoreConfig struct {
	Backend       string        `envconfig:"STORE_BACKEND" default:"file" validate:"oneof=file redis"`
	ResultPath    string        `envconfig:"RESULT_PATH" default:"trigger_temp_results.json" validate:"required_if=Backend file"`
	WatchResult   bool          `envconfig:"WATCH_RESULT" default:"true"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0" validate:"min=0"`
	RedisKey      string        `envconfig:"REDIS_KEY" default:"runaway:result"`
	SnapshotTTL   time.Duration `envconfig:"SNAPSHOT_TTL" default:"30s"`
}

// LogConfig параметры логирования
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Development bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// ErrorType категория ошибки конфигурации
type ErrorType string

const (
	ErrParsing    ErrorType = "parsing"
	ErrValidation ErrorType = "validation"
)

// Error ошибка загрузки конфигурации
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load загружает и проверяет конфигурацию
func Load() (*Config, error) {
	// .env не обязателен и не перекрывает уже заданные переменные
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{Type: ErrParsing, Message: "failed to process environment", Err: err}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &Error{Type: ErrValidation, Message: "configuration validation failed", Err: err}
	}
	return &cfg, nil
}
