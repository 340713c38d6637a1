package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shaiso/Stevedore/internal/mq"
)

// Worker выполняет приказы из очереди.
//
// Worker — stateless компонент системы, который:
//   - Потребляет приказы из очереди RabbitMQ строго по одному
//   - Разрешает команду по procfile проекта (свежее чтение на каждый приказ)
//   - Выполняет командную строку как дочерний процесс
//   - Публикует результат в очередь, названную в приказе
//
// Workers масштабируются горизонтально — несколько экземпляров
// потребляют из одной очереди приказов, балансирует брокер.
type Worker struct {
	resolver *Resolver
	executor Executor

	// MQ
	publisher *mq.Publisher
	conn      *mq.Connection
	consumer  *mq.Consumer

	queue   string
	ackMode mq.AckMode

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	// Projects — таблица проект → путь на диске.
	Projects map[string]string

	// Queue — имя очереди приказов.
	Queue string

	// AckMode — политика подтверждения доставки.
	AckMode mq.AckMode

	// MQ
	Publisher *mq.Publisher
	Conn      *mq.Connection

	// Executor (опционально; если nil — используется ShellExecutor)
	Executor Executor

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	executor := cfg.Executor
	if executor == nil {
		executor = &ShellExecutor{}
	}

	return &Worker{
		resolver:  NewResolver(cfg.Projects, logger),
		executor:  executor,
		publisher: cfg.Publisher,
		conn:      cfg.Conn,
		queue:     cfg.Queue,
		ackMode:   cfg.AckMode,
		logger:    logger,
	}
}

// Start запускает потребление приказов.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"queue", w.queue,
		"ack_mode", w.ackMode,
	)

	w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:   w.queue,
		Handler: w.handleDelivery,
		AckMode: w.ackMode,
	})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("order consumer error", "error", err)
		}
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker. Приказ, выполняющийся в данный момент,
// дорабатывает до конца.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	if w.consumer != nil {
		w.consumer.Stop()
	}

	w.wg.Wait()

	w.logger.Info("worker standing down")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}
