package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	retryBaseDelay = 200 * time.Millisecond
	retryMaxDelay  = 5 * time.Second
)

// ErrStopped - воркер остановлен во время ожидания
var ErrStopped = errors.New("worker stopped")

// BaseWorker содержит общую логику для всех воркеров: остановку, имя consumer и повторы
type BaseWorker struct {
	name          string
	logger        *zap.Logger
	stopChan      chan struct{}
	stopped       bool
	mu            sync.Mutex
	consumerGroup string
	consumerName  string
	maxRetries    int
}

// NewBaseWorker создает новый BaseWorker. Имя consumer - hostname-pid.
func NewBaseWorker(name, consumerGroup string, maxRetries int, logger *zap.Logger) *BaseWorker {
	hostname, _ := os.Hostname()
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &BaseWorker{
		name:          name,
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
		consumerGroup: consumerGroup,
		consumerName:  fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		maxRetries:    maxRetries,
	}
}

// Name возвращает имя воркера
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop останавливает воркер
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.stopped = true

	return nil
}

// IsStopped проверяет, остановлен ли воркер
func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// StopChan возвращает канал остановки
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// ConsumerGroup возвращает имя consumer group
func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// ConsumerName возвращает имя consumer внутри группы
func (w *BaseWorker) ConsumerName() string {
	return w.consumerName
}

// Logger возвращает логгер
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// Sleep ждет d; false - воркер остановлен или ctx отменен
func (w *BaseWorker) Sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-w.stopChan:
		return false
	case <-ctx.Done():
		return false
	}
}

// Retry вызывает fn до maxRetries раз с экспоненциальной паузой.
// Ошибки, помеченные Permanent, возвращаются сразу.
func (w *BaseWorker) Retry(ctx context.Context, op string, fn func() error) error {
	delay := retryBaseDelay

	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err = fn()
		if err == nil || IsPermanent(err) {
			return err
		}
		if attempt == w.maxRetries {
			break
		}

		w.logger.Warn("Operation failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		if !w.Sleep(ctx, delay) {
			return ErrStopped
		}
		delay = min(delay*2, retryMaxDelay)
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, w.maxRetries, err)
}
