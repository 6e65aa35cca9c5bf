package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибки удаленных сервисов
	ErrNarrativeService = errors.New("narrative service error")
	ErrSceneService     = errors.New("scene service error")

	// Игнорируемые действия игрока (состояние не меняется)
	ErrEmptyInput     = errors.New("input is empty")
	ErrTurnInProgress = errors.New("turn is already in progress")
	ErrUnknownChoice  = errors.New("unknown choice")

	ErrControllerStopped = errors.New("turn controller is not running")
)

// NarrativeServiceError - сбой сети или не-2xx ответ сервиса повествования.
// StatusCode равен 0, если ответ не был получен.
type NarrativeServiceError struct {
	StatusCode int
	Err        error
}

func (e *NarrativeServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("narrative service returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("narrative service request failed: %v", e.Err)
}

func (e *NarrativeServiceError) Unwrap() error { return e.Err }

func (e *NarrativeServiceError) Is(target error) bool { return target == ErrNarrativeService }

// SceneServiceError - то же самое для сервиса изображений.
type SceneServiceError struct {
	StatusCode int
	Err        error
}

func (e *SceneServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("scene service returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("scene service request failed: %v", e.Err)
}

func (e *SceneServiceError) Unwrap() error { return e.Err }

func (e *SceneServiceError) Is(target error) bool { return target == ErrSceneService }
