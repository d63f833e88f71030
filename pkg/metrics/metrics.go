package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Command Метрики
// =============================================================================

// CommandsTotal - выполненные CLI-команды
// status: ok, error
var CommandsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "commands_total",
		Help: "Total number of executed commands",
	},
	[]string{"service", "command", "status"},
)

// CommandDuration - время выполнения команды
var CommandDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "command_duration_seconds",
		Help:    "Duration of commands in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"service", "command"},
)

// CommandsInFlight - команды в процессе выполнения
var CommandsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "commands_in_flight",
		Help: "Number of commands currently being executed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения запросов репозиториев
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Import Метрики
// =============================================================================

// ImportRows - обработанные строки импорта
// outcome: imported, skipped
var ImportRows = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Total number of import rows by stage and outcome",
	},
	[]string{"stage", "outcome"},
)

// ImportStageDuration - время выполнения этапа импорта
var ImportStageDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "import_stage_duration_seconds",
		Help:    "Duration of import stages in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	},
	[]string{"stage"},
)

// ImportStageResults - завершённые этапы импорта
// status: committed, aborted
var ImportStageResults = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "import_stage_results_total",
		Help: "Total number of finished import stages by status",
	},
	[]string{"stage", "status"},
)

// =============================================================================
// Business Метрики
// =============================================================================

// Calculations - вызовы расчётных функций
// calculator: discount, material; status: ok, error
var Calculations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "calculations_total",
		Help: "Total number of business calculations",
	},
	[]string{"calculator", "status"},
)

// DiscountTier - распределение выданных скидок по ступеням
var DiscountTier = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "partner_discount_tier_total",
		Help: "Number of discount calculations per resulting percent",
	},
	[]string{"percent"},
)
