package client

import (
	"context"

	"novel-adventure/internal/domain"
)

// NarrativeService определяет интерфейс сервиса повествования.
type NarrativeService interface {
	// Narrate отправляет сырой ввод игрока и возвращает продолжение истории.
	// Ошибки всегда имеют тип *domain.NarrativeServiceError.
	Narrate(ctx context.Context, input string) (*domain.NarrativeResult, error)
}

// SceneService определяет интерфейс сервиса генерации изображений сцены.
type SceneService interface {
	// Illustrate отправляет текст повествования как промпт и возвращает ссылку на изображение.
	// Ошибки всегда имеют тип *domain.SceneServiceError.
	Illustrate(ctx context.Context, prompt string) (*domain.SceneResult, error)
}

// narrativeRequest - тело запроса хода.
type narrativeRequest struct {
	Input string `json:"input"`
}

// narrativeResponse - ответ хода. Указатели отличают отсутствующее поле от нулевого значения.
type narrativeResponse struct {
	Narrative    *string  `json:"narrative"`
	Choices      []string `json:"choices"`
	HealthChange *int     `json:"healthChange"`
}

// sceneRequest - тело запроса генерации сцены.
type sceneRequest struct {
	Prompt string `json:"prompt"`
}

type sceneResponse struct {
	ImageURL *string `json:"imageUrl"`
}
