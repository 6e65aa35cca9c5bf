package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config - настройки логов компонентов клиента.
// stdout принадлежит терминальному рендереру, поэтому логи по умолчанию идут в stderr
// или в файл (LOG_OUTPUT=/path/to/client.log), чтобы не ломать вывод игры.
type Config struct {
	Level      string `env:"LOG_LEVEL" env-default:"info" validate:"omitempty,oneof=debug info warn error"`
	Encoding   string `env:"LOG_ENCODING" env-default:"console" validate:"omitempty,oneof=json console"`
	OutputPath string `env:"LOG_OUTPUT" env-default:"stderr"`
}

// New собирает zap.Logger для компонентов клиента. Некорректный уровень
// заменяется на info, неизвестная кодировка на json.
func New(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding(cfg.Encoding),
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{outputPath(cfg.OutputPath)},
		ErrorOutputPaths:  []string{"stderr"},
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func parseLevel(raw string) zapcore.Level {
	if raw == "" {
		return zapcore.InfoLevel
	}
	level, err := zapcore.ParseLevel(strings.ToLower(raw))
	if err != nil {
		// Логгер еще не создан, пишем в stderr
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'. Error: %v\n", raw, err)
		return zapcore.InfoLevel
	}
	return level
}

func encoding(raw string) string {
	if enc := strings.ToLower(raw); enc == "console" || enc == "json" {
		return enc
	}
	return "json"
}

// outputPath не дает логам попасть в stdout, где рисуется игра.
func outputPath(raw string) string {
	switch raw {
	case "", "stdout":
		return "stderr"
	default:
		return raw
	}
}
