package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	deliveryhttp "novel-adventure/internal/delivery/http"
	"novel-adventure/internal/domain"
	"novel-adventure/internal/mocks"
	"novel-adventure/internal/service"
)

var _ deliveryhttp.SessionController = (*service.TurnController)(nil)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, ws http.Handler) (*gin.Engine, *mocks.MockSessionController) {
	t.Helper()
	controller := mocks.NewMockSessionController(t)
	handler := deliveryhttp.NewHandler(controller, ws, nil)
	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{}, handler, nil)
	return router, controller
}

func perform(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp deliveryhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHandler_Health(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := perform(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHandler_GetSession(t *testing.T) {
	router, controller := newTestRouter(t, nil)
	snapshot := domain.NewSessionState(domain.SessionDefaults{}).Snapshot()
	controller.On("Snapshot").Return(snapshot).Once()

	w := perform(router, http.MethodGet, "/api/session", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, snapshot.SessionID, got.SessionID)
	assert.Equal(t, domain.InitialHealth, got.Health)
	assert.Equal(t, domain.DefaultInitialNarrative, got.Narrative)
	assert.Equal(t, domain.TurnStatusIdle, got.TurnStatus)
}

func TestHandler_SetInput(t *testing.T) {
	router, controller := newTestRouter(t, nil)
	controller.On("SetInput", mock.Anything, "  open the door ").Return(nil).Once()

	w := perform(router, http.MethodPut, "/api/session/input", `{"text":"  open the door "}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(router, http.MethodPut, "/api/session/input", `{"other":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Submit(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"started", nil, http.StatusAccepted},
		{"empty input", domain.ErrEmptyInput, http.StatusBadRequest},
		{"turn in progress", domain.ErrTurnInProgress, http.StatusConflict},
		{"stopped", domain.ErrControllerStopped, http.StatusServiceUnavailable},
		{"canceled", context.Canceled, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, controller := newTestRouter(t, nil)
			controller.On("Submit", mock.Anything).Return(tt.err).Once()
			if tt.err == nil {
				controller.On("Snapshot").Return(domain.Snapshot{TurnStatus: domain.TurnStatusAwaitingNarrative}).Once()
			}

			w := perform(router, http.MethodPost, "/api/session/submit", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), decodeError(t, w))
			}
		})
	}
}

func TestHandler_Choose(t *testing.T) {
	router, controller := newTestRouter(t, nil)
	controller.On("Choose", mock.Anything, 1).Return(nil).Once()
	controller.On("Choose", mock.Anything, 7).Return(domain.ErrUnknownChoice).Once()
	controller.On("Choose", mock.Anything, 0).Return(domain.ErrTurnInProgress).Once()
	controller.On("Snapshot").Return(domain.Snapshot{TurnStatus: domain.TurnStatusAwaitingNarrative}).Once()

	assert.Equal(t, http.StatusAccepted, perform(router, http.MethodPost, "/api/session/choices/1", "").Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodPost, "/api/session/choices/7", "").Code)
	assert.Equal(t, http.StatusConflict, perform(router, http.MethodPost, "/api/session/choices/0", "").Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodPost, "/api/session/choices/first", "").Code)
}

func TestHandler_Reset(t *testing.T) {
	router, controller := newTestRouter(t, nil)
	controller.On("Reset", mock.Anything).Return(nil).Once()
	controller.On("Reset", mock.Anything).Return(domain.ErrTurnInProgress).Once()

	assert.Equal(t, http.StatusNoContent, perform(router, http.MethodPost, "/api/session/reset", "").Code)
	assert.Equal(t, http.StatusConflict, perform(router, http.MethodPost, "/api/session/reset", "").Code)
}

func TestHandler_WebSocketRoute(t *testing.T) {
	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router, _ := newTestRouter(t, ws)

	assert.Equal(t, http.StatusTeapot, perform(router, http.MethodGet, "/ws", "").Code)

	withoutWS, _ := newTestRouter(t, nil)
	assert.Equal(t, http.StatusNotFound, perform(withoutWS, http.MethodGet, "/ws", "").Code)
}

func TestRouter_CORS(t *testing.T) {
	controller := mocks.NewMockSessionController(t)
	handler := deliveryhttp.NewHandler(controller, nil, nil)
	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, handler, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/session/submit", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
