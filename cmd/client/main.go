package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	"novel-adventure/internal/client"
	"novel-adventure/internal/config"
	deliveryhttp "novel-adventure/internal/delivery/http"
	"novel-adventure/internal/delivery/websocket"
	"novel-adventure/internal/domain"
	"novel-adventure/internal/metrics"
	"novel-adventure/internal/render"
	"novel-adventure/internal/service"
	"novel-adventure/pkg/logger"
)

func main() {
	viewAddr := flag.String("view", "", "Address of the local view API, overrides VIEW_ADDR")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors in the terminal")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *viewAddr != "" {
		cfg.View.Addr = *viewAddr
	}

	// Инициализация логгеров
	initLogger(cfg)
	zapLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize zap logger")
	}
	defer func() { _ = zapLogger.Sync() }()

	// Клиенты удаленных сервисов
	httpClient := &http.Client{Timeout: cfg.Services.HTTPClientTimeout}
	narrator, err := client.NewNarrativeClient(cfg.Services.BaseURL, cfg.Services.NarrativePath, httpClient, zapLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create narrative client")
	}
	illustrator, err := client.NewSceneClient(cfg.Services.BaseURL, cfg.Services.ScenePath, httpClient, zapLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scene client")
	}

	// Наблюдатели и приемники ошибок
	terminal := render.NewTerminal(os.Stdout, !*noColor)
	sink := service.MultiSink{service.NewLogSink(zapLogger), terminal}

	var hub *websocket.Hub
	if cfg.ViewEnabled() {
		hub = websocket.NewHub(cfg.View.AllowedOrigins, zapLogger)
		sink = append(sink, hub)
	}

	state := domain.NewSessionState(cfg.SessionDefaults())
	controller, err := service.NewTurnController(state, narrator, illustrator, sink,
		service.NewMetrics(prometheus.DefaultRegisterer), zapLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create turn controller")
	}
	controller.Subscribe(terminal)
	if hub != nil {
		controller.Subscribe(hub)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancelRun := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := controller.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("turn controller stopped")
		}
	}()

	var server *http.Server
	if hub != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Run(runCtx)
		}()
		server = startViewServer(cfg, controller, hub, zapLogger)
	}

	var pusher *metrics.Pusher
	if cfg.PushEnabled() {
		pusher, err = metrics.NewPusher(cfg.Metrics.PushGatewayURL, cfg.Metrics.JobName, prometheus.DefaultGatherer, zapLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create metrics pusher")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			pusher.Start(runCtx, cfg.Metrics.PushInterval)
		}()
	}

	log.Info().Str("session_id", state.ID.String()).Msg("adventure started")
	if err := play(ctx, controller, terminal, os.Stdin); err != nil {
		log.Error().Err(err).Msg("input loop stopped")
	}

	gracefulShutdown(server, pusher)
	cancelRun()
	wg.Wait()
	log.Info().Msg("client exiting")
}

// initLogger настраивает глобальный zerolog логгер для старта и остановки процесса.
// stdout занят терминалом игры, поэтому вывод идет в stderr.
func initLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	// В режиме разработки используем более читаемый вывод
	if !cfg.IsProduction() {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	logLevel := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(cfg.Logger.Level); err == nil && lvl != zerolog.NoLevel {
		logLevel = lvl
	}
	zerolog.SetGlobalLevel(logLevel)
}

// startViewServer поднимает локальный view API.
func startViewServer(cfg *config.Config, controller deliveryhttp.SessionController, hub *websocket.Hub, zapLogger *zap.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	if !cfg.IsProduction() {
		gin.SetMode(gin.DebugMode)
	}

	handler := deliveryhttp.NewHandler(controller, hub.Handler(), zapLogger)
	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		AllowedOrigins:   cfg.View.AllowedOrigins,
		MetricsSubsystem: "novel_client_view",
	}, handler, zapLogger)

	server := &http.Server{
		Addr:              cfg.View.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.View.Addr).Msg("starting view API")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("view API stopped")
		}
	}()
	return server
}

// gracefulShutdown останавливает view API и убирает метрики из Pushgateway.
func gracefulShutdown(server *http.Server, pusher *metrics.Pusher) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if server != nil {
		log.Info().Msg("shutting down view API...")
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("view API shutdown failed")
		}
	}

	if pusher != nil {
		_ = pusher.Push(ctx)
		if err := pusher.Cleanup(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to clean up pushed metrics")
		}
	}
}
