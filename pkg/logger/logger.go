package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

// Init настраивает глобальный логгер сервиса с выводом в stdout
func Init(serviceName string, level string) {
	InitWithWriter(serviceName, level, os.Stdout)
}

// InitWithWriter настраивает логгер с произвольным writer (используется в тестах)
func InitWithWriter(serviceName string, level string, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

func With() zerolog.Context {
	return log.With()
}

// WithFields возвращает дочерний логгер с набором постоянных полей
func WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := log.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}
