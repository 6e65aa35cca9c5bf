package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"novel-adventure/internal/domain"
)

var errMissingNarrative = errors.New("response has no narrative field")

type narrativeClient struct {
	endpoint string
	poster   *jsonPoster
	logger   *zap.Logger
}

// NewNarrativeClient создает клиент сервиса повествования.
// endpoint = baseURL + path, например http://localhost:5000/api/game.
func NewNarrativeClient(baseURL, path string, httpClient *http.Client, logger *zap.Logger) (NarrativeService, error) {
	endpoint, err := resolveEndpoint(baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("narrative service: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("NarrativeClient")

	return &narrativeClient{
		endpoint: endpoint,
		poster:   &jsonPoster{httpClient: httpClient, logger: logger},
		logger:   logger,
	}, nil
}

// Narrate реализует NarrativeService.
func (c *narrativeClient) Narrate(ctx context.Context, input string) (*domain.NarrativeResult, error) {
	var resp narrativeResponse
	status, err := c.poster.postJSON(ctx, c.endpoint, narrativeRequest{Input: input}, &resp)
	if err != nil {
		return nil, &domain.NarrativeServiceError{StatusCode: status, Err: err}
	}
	if resp.Narrative == nil {
		c.logger.Warn("Narrative response without narrative field", zap.Int("status", status))
		return nil, &domain.NarrativeServiceError{StatusCode: status, Err: errMissingNarrative}
	}

	result := &domain.NarrativeResult{
		Narrative: *resp.Narrative,
		Choices:   resp.Choices,
	}
	if result.Choices == nil {
		result.Choices = []string{}
	}
	if resp.HealthChange != nil {
		result.HealthChange = *resp.HealthChange
	}

	c.logger.Info("Narrative received",
		zap.Int("length", len(result.Narrative)),
		zap.Int("choices", len(result.Choices)),
		zap.Int("health_change", result.HealthChange),
	)
	return result, nil
}
