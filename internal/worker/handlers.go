package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shaiso/Stevedore/internal/domain"
	"github.com/shaiso/Stevedore/internal/mq"
	"github.com/shaiso/Stevedore/internal/telemetry"
)

// handleDelivery обрабатывает одно сообщение из очереди приказов.
//
// Pipeline: декодирование → резолв → выполнение → публикация результата.
// Недекодируемое сообщение выбрасывается (возврат nil — для consumer'а
// это успех): это осознанная граница потери данных, малформленный
// приказ не станет валидным от повторной доставки.
func (w *Worker) handleDelivery(ctx context.Context, delivery *mq.Delivery) error {
	telemetry.OrdersConsumed.Inc()

	order, err := domain.ParseOrder(delivery.Body())
	if err != nil {
		w.logger.Error("could not parse order, dropping",
			"error", err,
			"body", string(delivery.Body()),
		)
		telemetry.OrdersDropped.Inc()
		return nil
	}

	logger := telemetry.WithLogKey(telemetry.WithProject(w.logger, order.Project), order.LogKey)
	logger.Info("executing order", "command", order.Command)

	// Shutdown не прерывает принятый приказ: команда дорабатывает
	// до конца и результат публикуется, только потом worker выходит
	ctx = context.WithoutCancel(ctx)

	result := w.processOrder(ctx, logger, order)

	msg := mq.ResultMessage{
		Version:    mq.ResultVersion,
		LogKey:     order.LogKey,
		ReturnCode: result.ReturnCode,
		Output:     result.Output,
	}

	if err := w.publisher.PublishResult(ctx, order.LogQueue, msg); err != nil {
		telemetry.PublishFailures.Inc()
		logger.Error("failed to publish result",
			"queue", order.LogQueue,
			"error", err,
		)
		// В режиме on_publish consumer вернёт приказ в очередь
		return err
	}

	telemetry.ResultsPublished.Inc()
	return nil
}

// processOrder разрешает и выполняет приказ.
//
// Ошибки резолва не поднимаются выше: они превращаются в результат
// с кодом 1 и пояснением, executor при этом не вызывается. Вызывающему
// не нужно различать "резолв не удался" и "команда выполнилась
// с ошибкой" — оба случая приходят единым ExecutionResult.
func (w *Worker) processOrder(ctx context.Context, logger *slog.Logger, order *domain.Order) domain.ExecutionResult {
	resolution, err := w.resolver.Resolve(order.Project, order.Command)
	if err != nil {
		telemetry.ResolutionFailures.WithLabelValues(resolutionFailureKind(err)).Inc()

		// Нечитаемый procfile — проблема инфраструктуры, остальное —
		// ошибки в самом приказе
		if errors.Is(err, ErrManifestUnreadable) {
			logger.Error("order resolution failed", "command", order.Command, "error", err)
		} else {
			logger.Warn("order resolution failed", "command", order.Command, "error", err)
		}

		return domain.Failure(err.Error())
	}

	start := time.Now()
	result := w.executor.Execute(ctx, resolution.Invocation, resolution.Dir)
	telemetry.ExecutionDuration.Observe(time.Since(start).Seconds())

	outcome := "failed"
	if result.OK() {
		outcome = "ok"
	}
	telemetry.ExecutionsTotal.WithLabelValues(outcome).Inc()

	logger.Info("finished running command",
		"command", order.Command,
		"return_code", result.ReturnCode,
	)

	return result
}

// resolutionFailureKind возвращает имя класса ошибки резолва для метрик.
func resolutionFailureKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownProject):
		return "unknown_project"
	case errors.Is(err, ErrManifestUnreadable):
		return "manifest_unreadable"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	default:
		return "other"
	}
}
