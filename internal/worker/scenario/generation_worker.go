package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/domain"
	"github.com/track-synthesizer/internal/domain/repository"
	"github.com/track-synthesizer/internal/pkg/errors"
	"github.com/track-synthesizer/internal/usecase/dto"
	"github.com/track-synthesizer/internal/worker"
)

const errorPause = time.Second

// Generator - генерация сценария по запросу, реализуется usecase.ScenarioUseCase
type Generator interface {
	Generate(ctx context.Context, req dto.GenerateScenarioRequest) (*dto.ScenarioResponse, error)
}

// GenerationWorker читает запросы из stream:scenario:generate и публикует результат в stream:scenario:done
type GenerationWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	generator  Generator
	batchSize  int64
}

// NewGenerationWorker создает новый GenerationWorker
func NewGenerationWorker(
	streamRepo repository.StreamRepository,
	generator Generator,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	logger *zap.Logger,
) *GenerationWorker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &GenerationWorker{
		BaseWorker: worker.NewBaseWorker("scenario-generation", consumerGroup, maxRetries, logger),
		streamRepo: streamRepo,
		generator:  generator,
		batchSize:  int64(batchSize),
	}
}

// Start запускает воркер
func (w *GenerationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting scenario generation worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int64("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamScenarioGenerate, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			// ConsumeBatch блокируется до таймаута чтения стрима
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.Sleep(ctx, errorPause)
			}
		}
	}
}

// ProcessBatch читает и обрабатывает одну пачку запросов. Возвращает число прочитанных сообщений.
func (w *GenerationWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamScenarioGenerate,
		w.ConsumerGroup(),
		w.ConsumerName(),
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	w.Logger().Debug("Processing batch", zap.Int("message_count", len(messages)))

	acked := make([]string, 0, len(messages))
	for _, msg := range messages {
		if w.IsStopped() {
			break
		}
		// при неудачной публикации сообщение остается в pending
		if w.handle(ctx, msg) {
			acked = append(acked, msg.ID)
		}
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamScenarioGenerate, w.ConsumerGroup(), acked...); err != nil {
		return len(messages), err
	}
	return len(messages), nil
}

// handle обрабатывает одно сообщение; true - сообщение можно подтвердить
func (w *GenerationWorker) handle(ctx context.Context, msg domain.StreamMessage) bool {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var event domain.ScenarioRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse message, skipping", zap.Error(err))
		// без request_id ответ некуда адресовать
		return true
	}
	logger = logger.With(zap.String("request_id", event.RequestID.String()))

	done := domain.ScenarioDoneEvent{RequestID: event.RequestID}

	var req dto.GenerateScenarioRequest
	if err := json.Unmarshal(event.Request, &req); err != nil {
		done.Error = fmt.Sprintf("invalid request: %v", err)
	} else {
		var resp *dto.ScenarioResponse
		err := w.Retry(ctx, "generate scenario", func() error {
			var genErr error
			resp, genErr = w.generator.Generate(ctx, req)
			if appErr, ok := errors.As(genErr); ok && appErr.StatusCode < 500 {
				return worker.Permanent(genErr)
			}
			return genErr
		})
		if err == worker.ErrStopped {
			return false
		}
		if err != nil {
			logger.Warn("Scenario generation failed", zap.Error(err))
			done.Error = err.Error()
		} else {
			done.Summary = resp.Summary
		}
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamScenarioDone, done); err != nil {
		logger.Error("Failed to publish done event", zap.Error(err))
		return false
	}

	logger.Info("Scenario request processed", zap.Bool("ok", done.Error == ""))
	return true
}
