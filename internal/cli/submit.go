package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/Stevedore/internal/domain"
	"github.com/shaiso/Stevedore/internal/mq"
)

// NewSubmitCmd создаёт команду `stevedore submit`.
//
// Публикует приказ в очередь приказов и при --wait потребляет
// один результат из log_queue.
func NewSubmitCmd(amqpURL func() string, outputFn func() *Output) *cobra.Command {
	var (
		project  string
		command  string
		logKey   string
		logQueue string
		queue    string
		wait     bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an order to the worker queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if logKey == "" {
				logKey = uuid.New().String()
			}
			if logQueue == "" {
				logQueue = "logs." + project
			}

			order := domain.Order{
				Project:  project,
				Command:  command,
				LogKey:   logKey,
				LogQueue: logQueue,
			}

			body, err := json.Marshal(order)
			if err != nil {
				return fmt.Errorf("marshal order: %w", err)
			}

			// CLI-шум не нужен: логгер соединения молчит
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			conn, err := mq.NewConnection(amqpURL(), logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx := cmd.Context()

			publisher := mq.NewPublisher(conn, logger)
			if err := publisher.PublishOrder(ctx, queue, body); err != nil {
				return err
			}

			fmt.Printf("order submitted: %s (result queue: %s)\n", order.String(), logQueue)

			if !wait {
				return nil
			}

			result, err := awaitResult(ctx, conn, logQueue, timeout)
			if err != nil {
				return err
			}

			return outputFn().PrintResult(result)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project identifier (required)")
	cmd.Flags().StringVar(&command, "command", "", "Command name from the project procfile (required)")
	cmd.Flags().StringVar(&logKey, "log-key", "", "Correlation key (default: random uuid)")
	cmd.Flags().StringVar(&logQueue, "log-queue", "", "Result queue name (default: logs.<project>)")
	cmd.Flags().StringVar(&queue, "queue", "stevedore.orders", "Order queue name")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the result and print it")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "How long to wait for the result with --wait")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("command")

	return cmd
}

// awaitResult потребляет один результат из очереди результатов.
func awaitResult(ctx context.Context, conn *mq.Connection, queue string, timeout time.Duration) (*mq.ResultMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := conn.Channel()
	if ch == nil {
		return nil, fmt.Errorf("no channel available")
	}

	deliveries, err := ch.Consume(
		queue,
		"",    // consumer tag
		true,  // auto-ack: результат одноразовый
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("timed out waiting for result on %s", queue)
	case raw, ok := <-deliveries:
		if !ok {
			return nil, fmt.Errorf("deliveries channel closed")
		}

		var msg mq.ResultMessage
		if err := json.Unmarshal(raw.Body, &msg); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		return &msg, nil
	}
}
