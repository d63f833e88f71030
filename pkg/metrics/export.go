package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// =============================================================================
// Экспорт
// =============================================================================

// CLI-процесс живёт недолго, поэтому метрики не отдаются по /metrics,
// а выгружаются при завершении команды: в textfile для node_exporter
// и/или в Pushgateway

// WriteTextfile записывает метрики gatherer в файл в текстовом формате Prometheus
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Push отправляет метрики gatherer в Pushgateway под именем job
func Push(ctx context.Context, url, job string, gatherer prometheus.Gatherer) error {
	if err := push.New(url, job).Gatherer(gatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
