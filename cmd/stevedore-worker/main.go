// Stevedore Worker — выполняет приказы captain'а.
//
// Worker:
//   - Получает приказы из RabbitMQ (строго по одному)
//   - Резолвит команду по procfile проекта
//   - Выполняет её как дочерний процесс
//   - Публикует результат в очередь, названную в приказе
//
// Workers масштабируются горизонтально.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Stevedore/internal/config"
	"github.com/shaiso/Stevedore/internal/mq"
	"github.com/shaiso/Stevedore/internal/telemetry"
	"github.com/shaiso/Stevedore/internal/worker"
)

func main() {
	configFlag := flag.String("config", "", "path to the settings file")
	flag.Parse()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting stevedore-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Настройки: один явный объект, никаких глобальных
	configPath, err := config.DiscoverPath(*configFlag)
	if err != nil {
		logger.Error("failed to locate config", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Info("config loaded", "path", configPath, "projects", len(cfg.Projects))

	// RabbitMQ. Без брокера worker'у нечего делать — в отличие
	// от сервисов с polling-fallback, здесь соединение обязательно.
	mqConn, err := mq.NewConnection(cfg.AMQPURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()

	// Объявляем очередь приказов
	if err := mq.SetupTopology(ctx, mqConn, cfg.Queue); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	publisher := mq.NewPublisher(mqConn, logger)

	// Создаём worker
	w := worker.New(worker.Config{
		Projects:  cfg.Projects,
		Queue:     cfg.Queue,
		AckMode:   cfg.AckMode,
		Publisher: publisher,
		Conn:      mqConn,
		Logger:    logger,
	})

	// Запускаем worker
	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !mqConn.IsConnected() {
			http.Error(w, "amqp disconnected", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения; текущий приказ дорабатывает до конца
	<-ctx.Done()

	w.Stop()
	logger.Info("stevedore-worker standing down")
}
