package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"novel-adventure/internal/delivery/http/middleware"
)

// RouterConfig - настройки роутера view API.
type RouterConfig struct {
	// AllowedOrigins - разрешенные CORS origins. Пустой список разрешает все.
	AllowedOrigins []string
	// MetricsSubsystem - префикс HTTP метрик. Пустая строка отключает /metrics.
	MetricsSubsystem string
}

// NewRouter собирает gin.Engine: логирование, recovery, CORS, маршруты и метрики.
func NewRouter(cfg RouterConfig, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLogger(logger.Named("HTTP")))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	handler.RegisterRoutes(router)

	// Prometheus middleware применяется после регистрации маршрутов
	if cfg.MetricsSubsystem != "" {
		p := ginprometheus.NewPrometheus(cfg.MetricsSubsystem)
		p.Use(router)
	}

	return router
}
