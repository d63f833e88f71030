package logger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

// CommandLoggerMiddleware оборачивает действие CLI-команды логированием
// Каждый запуск получает request_id, который попадает и в контекст логгера
func CommandLoggerMiddleware(next cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		start := time.Now()
		requestID := uuid.NewString()

		err := next(ctx, c)

		duration := time.Since(start)
		event := Info()
		if err != nil {
			event = Error().Err(err)
		}

		event.
			Str("request_id", requestID).
			Str("command", c.FullName()).
			Float64("duration_ms", float64(duration.Milliseconds())).
			Msg("Command finished")

		return err
	}
}
