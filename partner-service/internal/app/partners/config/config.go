package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"partnerhub/partner-service/internal/app/partners/repository"

	gormlogger "gorm.io/gorm/logger"
)

// Config содержит все настройки Partner Service
// Ядро каталога переменные окружения не читает, конфигурацию собирает только cmd
type Config struct {
	LogLevel string
	Database DatabaseConfig
	Import   ImportConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
}

// DatabaseConfig - настройки реляционного хранилища
// По умолчанию SQLite в файле, PostgreSQL - опционально
type DatabaseConfig struct {
	Driver   string // sqlite или postgres
	Path     string // Путь к файлу SQLite
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных
	SSLMode  string // Режим SSL (disable/require/verify-full)
	LogLevel string // Уровень логов gorm: silent/error/warn/info
}

// ImportConfig - расположение источников импорта
type ImportConfig struct {
	Dir         string // Каталог с пятью файлами импорта
	ColumnsFile string // YAML с переопределением заголовков колонок (опционально)
}

// MetricsConfig - куда выгружать метрики после команды
// Оба пути пустые - метрики остаются в памяти процесса
type MetricsConfig struct {
	File    string // textfile для node_exporter
	PushURL string // адрес Pushgateway
	Job     string // имя job в Pushgateway
}

// RedisConfig - настройки Redis для кеширования справочников
// Пустой REDIS_HOST отключает кеш
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	driver := strings.ToLower(getEnv("DB_DRIVER", repository.DriverSQLite))
	if driver != repository.DriverSQLite && driver != repository.DriverPostgres {
		return nil, fmt.Errorf("invalid DB_DRIVER value %q: expected sqlite or postgres", driver)
	}

	dbLogLevel := strings.ToLower(getEnv("DB_LOG_LEVEL", "silent"))
	if _, ok := gormLogLevels[dbLogLevel]; !ok {
		return nil, fmt.Errorf("invalid DB_LOG_LEVEL value %q", dbLogLevel)
	}

	// Парсим Redis DB как число
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL value: %w", err)
	}
	if cacheTTL <= 0 {
		return nil, fmt.Errorf("invalid CACHE_TTL value %s: must be positive", cacheTTL)
	}

	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Driver:   driver,
			Path:     getEnv("DB_PATH", "partners.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "partners"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			LogLevel: dbLogLevel,
		},
		Import: ImportConfig{
			Dir:         getEnv("IMPORT_DIR", "import_data"),
			ColumnsFile: getEnv("IMPORT_COLUMNS_FILE", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      cacheTTL,
		},
		Metrics: MetricsConfig{
			File:    getEnv("METRICS_FILE", ""),
			PushURL: getEnv("METRICS_PUSH_URL", ""),
			Job:     getEnv("METRICS_JOB", "partner-service"),
		},
	}, nil
}

var gormLogLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
}

// DSN возвращает строку подключения для выбранного драйвера
func (c *DatabaseConfig) DSN() string {
	if c.Driver == repository.DriverSQLite {
		return repository.SQLiteDSN(c.Path)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GormLogLevel возвращает уровень логирования gorm
func (c *DatabaseConfig) GormLogLevel() gormlogger.LogLevel {
	if level, ok := gormLogLevels[c.LogLevel]; ok {
		return level
	}
	return gormlogger.Silent
}

// Enabled сообщает, настроен ли Redis
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
