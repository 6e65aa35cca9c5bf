package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

// Pusher периодически отправляет метрики клиента в Pushgateway.
// Клиент живет недолго и не слушает порт, поэтому метрики пушатся, а не скрейпятся.
type Pusher struct {
	pusher   *push.Pusher
	instance string
	logger   *zap.Logger
}

// NewPusher создает Pusher для job с группировкой по instance (hostname-pid).
func NewPusher(pushgatewayURL, job string, gatherer prometheus.Gatherer, logger *zap.Logger) (*Pusher, error) {
	if pushgatewayURL == "" {
		return nil, errors.New("pushgateway url cannot be empty")
	}
	if job == "" {
		return nil, errors.New("job name cannot be empty")
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
		logger.Warn("Could not get hostname", zap.Error(err))
	}
	instanceID := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &Pusher{
		pusher:   push.New(pushgatewayURL, job).Gatherer(gatherer).Grouping("instance", instanceID),
		instance: instanceID,
		logger: logger.Named("MetricsPusher").With(
			zap.String("job", job), zap.String("instance", instanceID)),
	}, nil
}

// Instance возвращает значение группировочной метки instance.
func (p *Pusher) Instance() string {
	return p.instance
}

// Push отправляет текущие метрики.
func (p *Pusher) Push(ctx context.Context) error {
	if err := p.pusher.PushContext(ctx); err != nil {
		p.logger.Warn("Error pushing metrics to Pushgateway", zap.Error(err))
		return err
	}
	p.logger.Debug("Metrics pushed")
	return nil
}

// Start пушит метрики каждые interval до отмены ctx.
func (p *Pusher) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logger.Info("Started periodic pusher", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Push(ctx)
		}
	}
}

// Cleanup удаляет группу метрик этого экземпляра из Pushgateway.
func (p *Pusher) Cleanup(ctx context.Context) error {
	if err := p.pusher.DeleteContext(ctx); err != nil {
		p.logger.Warn("Failed to delete metrics from Pushgateway", zap.Error(err))
		return err
	}
	p.logger.Info("Metrics deleted from Pushgateway")
	return nil
}
