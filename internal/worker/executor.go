package worker

import (
	"context"

	"github.com/shaiso/Stevedore/internal/domain"
)

// Executor — интерфейс выполнения одной командной строки.
//
// Реализация: ShellExecutor. Интерфейс оставлен узким, чтобы
// pipeline можно было тестировать без запуска настоящих процессов.
//
// Execute блокирует до завершения процесса — worker обрабатывает
// строго один приказ за раз. Все ожидаемые сбои (процесс не
// запустился, убит сигналом) нормализуются в ExecutionResult
// с кодом 1; error Execute не возвращает.
type Executor interface {
	Execute(ctx context.Context, invocation, dir string) domain.ExecutionResult
}
