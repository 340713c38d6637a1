package mq

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AckMode — политика подтверждения доставки.
type AckMode string

const (
	// AckAuto — auto-ack: сообщение считается потреблённым в момент
	// доставки. At-most-once: падение посреди обработки теряет
	// приказ навсегда. Поведение оригинального протокола.
	AckAuto AckMode = "auto"

	// AckOnPublish — ручной ack после успешной публикации результата.
	// At-least-once: ошибка публикации возвращает приказ в очередь.
	AckOnPublish AckMode = "on_publish"
)

// Valid проверяет, что режим подтверждения известен.
func (m AckMode) Valid() bool {
	return m == AckAuto || m == AckOnPublish
}

// Delivery — одно доставленное сообщение.
type Delivery struct {
	// Raw — сырое AMQP сообщение.
	Raw amqp.Delivery
}

// Body возвращает тело сообщения.
func (d *Delivery) Body() []byte {
	return d.Raw.Body
}

// Handler обрабатывает одно сообщение.
//
// Возврат ошибки означает "обработка не удалась, сообщение нужно
// вернуть в очередь" (в режиме AckOnPublish). Сообщения, которые
// обработать невозможно в принципе (нечитаемый приказ), handler
// выбрасывает сам и возвращает nil.
type Handler func(ctx context.Context, d *Delivery) error

// Consumer потребляет приказы из одной очереди RabbitMQ.
//
// Потребление строго последовательное: prefetch 1, следующий приказ
// не доставляется, пока обработка текущего не завершена. Параллелизм —
// это несколько независимых worker-процессов на одной очереди
// (competing consumers), балансировку выполняет сам брокер.
type Consumer struct {
	conn    *Connection
	logger  *slog.Logger
	queue   string
	handler Handler
	ackMode AckMode

	cancelFunc context.CancelFunc
}

// ConsumerConfig — конфигурация Consumer.
type ConsumerConfig struct {
	// Queue — имя очереди приказов.
	Queue string

	// Handler — обработчик сообщений.
	Handler Handler

	// AckMode — политика подтверждения (default: AckOnPublish).
	AckMode AckMode
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	ackMode := cfg.AckMode
	if !ackMode.Valid() {
		ackMode = AckOnPublish
	}

	return &Consumer{
		conn:    conn,
		logger:  logger,
		queue:   cfg.Queue,
		handler: cfg.Handler,
		ackMode: ackMode,
	}
}

// Start запускает потребление. Блокирует до отмены контекста.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel

	return c.consume(ctx)
}

// consume — основной цикл потребления с восстановлением после разрыва.
func (c *Consumer) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		deliveries, err := c.setupConsume()
		if err != nil {
			c.logger.Error("failed to setup consume", "queue", c.queue, "error", err)
			// Ждём переподключения
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.conn.ReconnectNotify():
				c.logger.Info("reconnected, restarting consumer", "queue", c.queue)
				continue
			}
		}

		c.logger.Info("awaiting orders", "queue", c.queue)

		if err := c.processDeliveries(ctx, deliveries); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("deliveries channel closed, reconnecting", "queue", c.queue)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.conn.ReconnectNotify():
				continue
			}
		}
	}
}

// setupConsume настраивает канал и начинает потребление.
func (c *Consumer) setupConsume() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, fmt.Errorf("no channel available")
	}

	// Один приказ за раз: intake блокируется, пока команда выполняется
	if err := ch.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(
		c.queue,                // queue
		"",                     // consumer tag (auto-generated)
		c.ackMode == AckAuto,   // auto-ack
		false,                  // exclusive
		false,                  // no-local
		false,                  // no-wait
		nil,                    // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return deliveries, nil
}

// processDeliveries обрабатывает сообщения из канала доставки.
func (c *Consumer) processDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}

			c.handleDelivery(ctx, raw)
		}
	}
}

// handleDelivery обрабатывает одно сообщение и подтверждает доставку
// согласно политике ack.
func (c *Consumer) handleDelivery(ctx context.Context, raw amqp.Delivery) {
	err := c.handler(ctx, &Delivery{Raw: raw})

	if c.ackMode == AckAuto {
		// Брокер уже считает сообщение потреблённым; ошибка
		// обработчика здесь только логируется.
		if err != nil {
			c.logger.Error("handler failed", "queue", c.queue, "error", err)
		}
		return
	}

	if err != nil {
		c.logger.Error("handler failed, requeueing", "queue", c.queue, "error", err)
		if nackErr := raw.Nack(false, true); nackErr != nil {
			c.logger.Error("failed to nack", "queue", c.queue, "error", nackErr)
		}
		return
	}

	if ackErr := raw.Ack(false); ackErr != nil {
		c.logger.Error("failed to ack", "queue", c.queue, "error", ackErr)
	}
}

// Stop останавливает consumer. Текущий приказ дорабатывает до конца.
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
}
