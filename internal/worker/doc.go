// Package worker выполняет приказы на запуск команд.
//
// # Обзор
//
// Worker — stateless компонент системы Stevedore, который выполняет
// приказы (orders), отправленные captain'ом через RabbitMQ. Worker
// отвечает за:
//
//   - Потребление приказов из очереди (строго по одному, prefetch 1)
//   - Резолв команды: таблица projects → procfile проекта → командная строка
//   - Выполнение команды как дочернего процесса (sh -c, cwd проекта)
//   - Публикацию результата в очередь, названную в приказе (log_queue)
//
// Workers масштабируются горизонтально — несколько экземпляров
// потребляют из одной очереди приказов (competing consumers).
//
// # Ключевые компоненты
//
// ## Worker
//
// Основная структура, управляющая жизненным циклом.
// Создаётся через New(cfg Config) и запускается методом Start(ctx).
//
//	w := worker.New(worker.Config{
//	    Projects:  cfg.Projects,
//	    Queue:     cfg.Queue,
//	    AckMode:   cfg.AckMode,
//	    Publisher: publisher,
//	    Conn:      mqConn,
//	    Logger:    logger,
//	})
//
//	if err := w.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Stop()
//
// ## Resolver
//
// Находит командную строку по паре (проект, команда). Procfile
// читается с диска на каждый приказ — кэша нет намеренно, правки
// procfile действуют немедленно.
//
// ## Executor
//
// Интерфейс выполнения командной строки:
//
//	type Executor interface {
//	    Execute(ctx context.Context, invocation, dir string) domain.ExecutionResult
//	}
//
// Реализация — ShellExecutor (sh -c, stderr слит в stdout, блокирует
// до завершения процесса).
//
// # Обработка приказа
//
//  1. Декодирование тела сообщения в Order (4 обязательных поля)
//  2. Недекодируемый приказ → лог + drop, результат не публикуется
//  3. Резолв: UnknownProject / ManifestUnreadable / UnknownCommand →
//     результат с кодом 1 и пояснением, executor не вызывается
//  4. Выполнение, результат — реальный код возврата + объединённый вывод
//  5. Публикация ResultMessage в log_queue (очередь объявляется durable
//     идемпотентно)
//
// # Ошибки
//
// Все ожидаемые отказы (плохой проект/команда/procfile, процесс
// не запустился) нормализуются в успешно опубликованный результат
// с кодом 1 — отправитель всегда получает ответ. Без ответа остаются
// только недекодируемые приказы (drop) и отказ транспорта (фатально
// либо redelivery, в зависимости от ack-политики).
package worker
