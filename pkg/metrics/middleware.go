package metrics

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// =============================================================================
// CLI Middleware
// =============================================================================

// CommandMiddleware возвращает обёртку действия CLI-команды,
// которая собирает метрики commands_total и command_duration_seconds
func CommandMiddleware(serviceName string, next cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		start := time.Now()

		CommandsInFlight.WithLabelValues(serviceName).Inc()
		defer CommandsInFlight.WithLabelValues(serviceName).Dec()

		err := next(ctx, c)

		status := "ok"
		if err != nil {
			status = "error"
		}
		name := normalizeCommand(c.Name)

		CommandsTotal.WithLabelValues(serviceName, name, status).Inc()
		CommandDuration.WithLabelValues(serviceName, name).Observe(time.Since(start).Seconds())

		return err
	}
}

// =============================================================================
// Helpers
// =============================================================================

// normalizeCommand ограничивает длину имени команды в метках
func normalizeCommand(name string) string {
	if len(name) > 50 {
		name = name[:50]
	}
	return name
}
