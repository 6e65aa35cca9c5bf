package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"novel-adventure/internal/domain"
)

// ErrorSink принимает сбои удаленных вызовов, пойманные контроллером хода.
// Report вызывается из цикла контроллера и не должен блокироваться надолго.
type ErrorSink interface {
	Report(ctx context.Context, err error)
}

// ErrorSinkFunc позволяет использовать функцию как ErrorSink.
type ErrorSinkFunc func(ctx context.Context, err error)

func (f ErrorSinkFunc) Report(ctx context.Context, err error) { f(ctx, err) }

// MultiSink передает ошибку всем вложенным приемникам по порядку.
type MultiSink []ErrorSink

func (m MultiSink) Report(ctx context.Context, err error) {
	for _, sink := range m {
		if sink != nil {
			sink.Report(ctx, err)
		}
	}
}

// LogSink пишет ошибки в zap.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink создает LogSink. nil логгер заменяется на zap.NewNop().
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("ErrorSink")}
}

func (s *LogSink) Report(_ context.Context, err error) {
	var narrativeErr *domain.NarrativeServiceError
	var sceneErr *domain.SceneServiceError

	switch {
	case errors.As(err, &narrativeErr):
		// Ход прерван, игрок может повторить ввод
		s.logger.Error("Narrative request failed, turn abandoned",
			zap.Int("status", narrativeErr.StatusCode), zap.Error(err))
	case errors.As(err, &sceneErr):
		s.logger.Warn("Scene request failed, keeping previous scene",
			zap.Int("status", sceneErr.StatusCode), zap.Error(err))
	default:
		s.logger.Error("Unexpected turn error", zap.Error(err))
	}
}
