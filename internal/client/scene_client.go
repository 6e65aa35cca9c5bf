package client

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"novel-adventure/internal/domain"
)

type sceneClient struct {
	endpoint string
	poster   *jsonPoster
	logger   *zap.Logger
}

// NewSceneClient создает клиент сервиса изображений.
func NewSceneClient(baseURL, path string, httpClient *http.Client, logger *zap.Logger) (SceneService, error) {
	endpoint, err := resolveEndpoint(baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("scene service: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("SceneClient")

	return &sceneClient{
		endpoint: endpoint,
		poster:   &jsonPoster{httpClient: httpClient, logger: logger},
		logger:   logger,
	}, nil
}

// Illustrate реализует SceneService. Отсутствующий imageUrl не ошибка:
// возвращается пустой ImageURL, и заглушку подставляет контроллер хода.
func (c *sceneClient) Illustrate(ctx context.Context, prompt string) (*domain.SceneResult, error) {
	var resp sceneResponse
	status, err := c.poster.postJSON(ctx, c.endpoint, sceneRequest{Prompt: prompt}, &resp)
	if err != nil {
		return nil, &domain.SceneServiceError{StatusCode: status, Err: err}
	}

	result := &domain.SceneResult{}
	if resp.ImageURL != nil {
		result.ImageURL = *resp.ImageURL
	} else {
		c.logger.Debug("Scene response without imageUrl")
	}
	return result, nil
}
