package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"novel-adventure/internal/domain"
)

// SessionController - действия над сессией, доступные из view API.
// Реализуется service.TurnController.
type SessionController interface {
	Snapshot() domain.Snapshot
	SetInput(ctx context.Context, text string) error
	Submit(ctx context.Context) error
	Choose(ctx context.Context, index int) error
	Reset(ctx context.Context) error
}

// ErrorResponse - тело ответа об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}

type setInputRequest struct {
	Text *string `json:"text" binding:"required"`
}

// Handler представляет HTTP обработчик view API
type Handler struct {
	controller SessionController
	ws         http.Handler
	logger     *zap.Logger
}

// NewHandler создает новый экземпляр обработчика. ws может быть nil,
// тогда маршрут /ws не регистрируется.
func NewHandler(controller SessionController, ws http.Handler, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		controller: controller,
		ws:         ws,
		logger:     logger.Named("ViewHandler"),
	}
}

// RegisterRoutes регистрирует маршруты view API
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.health)
	router.HEAD("/health", h.health)

	session := router.Group("/api/session")
	{
		session.GET("", h.getSession)
		session.PUT("/input", h.setInput)
		session.POST("/submit", h.submit)
		session.POST("/choices/:index", h.choose)
		session.POST("/reset", h.reset)
	}

	if h.ws != nil {
		router.GET("/ws", gin.WrapH(h.ws))
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Snapshot())
}

func (h *Handler) setInput(c *gin.Context) {
	var req setInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid input request", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "request body must contain \"text\""})
		return
	}
	if err := h.controller.SetInput(c.Request.Context(), *req.Text); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) submit(c *gin.Context) {
	if err := h.controller.Submit(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.controller.Snapshot())
}

func (h *Handler) choose(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "choice index must be an integer"})
		return
	}
	if err := h.controller.Choose(c.Request.Context(), index); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.controller.Snapshot())
}

func (h *Handler) reset(c *gin.Context) {
	if err := h.controller.Reset(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleError переводит ошибки контроллера в HTTP статусы.
func (h *Handler) handleError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownChoice):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTurnInProgress):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrControllerStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	default:
		h.logger.Error("Unhandled controller error", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}
