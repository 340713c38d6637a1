// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление очереди приказов
//   - publisher.go  — публикация результатов (и приказов из CLI)
//   - consumer.go   — последовательное потребление приказов
//
// Поток сообщений:
//   - очередь приказов (фиксированная, из конфигурации) → worker
//   - worker → очередь результатов, названная в приказе (log_queue)
//
// Всё через default exchange; политика ack (auto / on_publish)
// задаётся конфигурацией, см. AckMode.
package mq
