package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Топология намеренно минимальная: приказы и результаты ходят через
// default exchange, где routing key совпадает с именем очереди.
// Exchanges и bindings не нужны.
//
// Очередь приказов фиксирована конфигурацией и объявляется на старте;
// очереди результатов называет captain в каждом приказе, они
// объявляются лениво при первой публикации (см. Publisher).

// SetupTopology объявляет durable-очередь приказов.
func SetupTopology(ctx context.Context, conn *Connection, orderQueue string) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		return declareDurableQueue(ch, orderQueue)
	})
}

// declareDurableQueue объявляет durable-очередь. Повторное объявление
// с теми же параметрами идемпотентно.
func declareDurableQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}

	return nil
}
