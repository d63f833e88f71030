package metrics

import (
	"strconv"
	"time"
)

type DbTimer struct {
	service   string
	operation string
	table     string
	start     time.Time
}

func NewDbTimer(service, operation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: operation,
		table:     table,
		start:     time.Now(),
	}
}

// ObserveDuration фиксирует длительность запроса и, при ошибке, увеличивает счётчик ошибок
func (t *DbTimer) ObserveDuration(err error) {
	DbQueryDuration.WithLabelValues(t.service, t.operation, t.table).Observe(time.Since(t.start).Seconds())
	if err != nil {
		DbErrors.WithLabelValues(t.service, t.operation).Inc()
	}
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service, op string) {
	RedisErrors.WithLabelValues(service, op).Inc()
}

func RecordImportRow(stage string, imported bool) {
	outcome := "imported"
	if !imported {
		outcome = "skipped"
	}
	ImportRows.WithLabelValues(stage, outcome).Inc()
}

func RecordImportStage(stage string, committed bool, duration time.Duration) {
	status := "committed"
	if !committed {
		status = "aborted"
	}
	ImportStageResults.WithLabelValues(stage, status).Inc()
	ImportStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func RecordCalculation(calculator string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	Calculations.WithLabelValues(calculator, status).Inc()
}

func RecordDiscount(percent int) {
	DiscountTier.WithLabelValues(strconv.Itoa(percent)).Inc()
}
