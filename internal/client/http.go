package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxResponseBody ограничивает размер читаемого ответа.
const maxResponseBody = 1 << 20

// jsonPoster выполняет POST с JSON телом и разбирает JSON ответ.
type jsonPoster struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// resolveEndpoint проверяет базовый URL и присоединяет к нему путь.
func resolveEndpoint(baseURL, path string) (string, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	endpoint, err := url.JoinPath(baseURL, path)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint path %q: %w", path, err)
	}
	return endpoint, nil
}

// postJSON возвращает код ответа (0, если ответ не получен) и ошибку.
// Любой статус вне 2xx считается ошибкой.
func (p *jsonPoster) postJSON(ctx context.Context, endpoint string, payload, out any) (int, error) {
	requestID := uuid.NewString()
	log := p.logger.With(zap.String("url", endpoint), zap.String("request_id", requestID))

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		log.Error("Failed to marshal request body", zap.Error(err))
		return 0, fmt.Errorf("internal error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		log.Error("Failed to create HTTP request", zap.Error(err))
		return 0, fmt.Errorf("internal error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	log.Debug("Sending request")
	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Warn("HTTP request failed", zap.Duration("latency", time.Since(started)), zap.Error(err))
		return 0, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("latency", time.Since(started)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Warn("Received non-OK status", zap.ByteString("body", respBody))
		return resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}
	if readErr != nil {
		log.Error("Failed to read response body", zap.Error(readErr))
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", readErr)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		log.Error("Failed to unmarshal response", zap.ByteString("body", respBody), zap.Error(err))
		return resp.StatusCode, fmt.Errorf("invalid response format: %w", err)
	}

	log.Debug("Request completed")
	return resp.StatusCode, nil
}
