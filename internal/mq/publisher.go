package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ResultVersion — версия формата результата.
const ResultVersion = "1.0"

// ResultMessage — отчёт об исходе приказа.
//
// Публикуется ровно один раз на каждый успешно декодированный приказ,
// независимо от того, выполнилась команда или нет. Очередь назначения
// берётся из самого приказа (log_queue).
type ResultMessage struct {
	// Version — версия формата сообщения.
	Version string `json:"version"`

	// LogKey — ключ корреляции из приказа, без изменений.
	LogKey string `json:"log_key"`

	// ReturnCode — код возврата команды (1 — "не удалось выполнить").
	ReturnCode int `json:"return_code"`

	// Output — объединённый stdout+stderr либо описание ошибки.
	Output string `json:"output"`
}

// Publisher публикует результаты выполнения приказов.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// PublishResult объявляет очередь результатов (durable, идемпотентно)
// и публикует в неё ResultMessage через default exchange.
//
// Очередь результатов называет сам приказ, поэтому объявление
// выполняется на каждую публикацию — для брокера повторное объявление
// с теми же параметрами является no-op.
func (p *Publisher) PublishResult(ctx context.Context, queue string, msg ResultMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareDurableQueue(ch, queue); err != nil {
			return err
		}

		err := ch.PublishWithContext(
			ctx,
			"",    // default exchange: routing key == queue name
			queue, // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // результат переживёт рестарт RabbitMQ
				MessageId:    uuid.New().String(),
				Timestamp:    time.Now(),
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s: %w", queue, err)
		}

		p.logger.Debug("published result",
			"queue", queue,
			"log_key", msg.LogKey,
			"return_code", msg.ReturnCode,
		)

		return nil
	})
}

// PublishOrder публикует тело приказа в очередь приказов.
//
// Используется CLI для отправки smoke-test приказов; worker только
// потребляет.
func (p *Publisher) PublishOrder(ctx context.Context, queue string, body []byte) error {
	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareDurableQueue(ch, queue); err != nil {
			return err
		}

		err := ch.PublishWithContext(
			ctx,
			"",
			queue,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    uuid.New().String(),
				Timestamp:    time.Now(),
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s: %w", queue, err)
		}

		p.logger.Debug("published order", "queue", queue)

		return nil
	})
}
