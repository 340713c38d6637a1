package worker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shaiso/Stevedore/internal/domain"
)

// defaultShell — оболочка для запуска invocation.
const defaultShell = "/bin/sh"

// ShellExecutor запускает invocation как дочерний процесс через `sh -c`
// в рабочем каталоге проекта.
//
// stderr сливается в stdout, поэтому результат содержит оба потока
// в порядке появления. Плейсхолдеры в invocation (вида %(PORT)d)
// не раскрываются — оболочка получает строку как есть.
//
// Сбои запуска (оболочка не найдена, каталог не существует, нет прав)
// конвертируются в результат с кодом 1 и описанием причины —
// это ожидаемый класс отказов, не повод ронять worker.
type ShellExecutor struct {
	// Shell — путь к оболочке (default: /bin/sh).
	Shell string
}

// Execute выполняет invocation и блокирует до завершения процесса.
func (e *ShellExecutor) Execute(ctx context.Context, invocation, dir string) domain.ExecutionResult {
	shell := e.Shell
	if shell == "" {
		shell = defaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", invocation)
	cmd.Dir = dir

	// CombinedOutput сливает stderr в stdout в порядке записи
	output, err := cmd.CombinedOutput()
	if err == nil {
		return domain.ExecutionResult{ReturnCode: 0, Output: string(output)}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Процесс убит сигналом — настоящего кода возврата нет.
			// Захваченный вывод сохраняем, причину дописываем
			// отдельной строкой
			captured := string(output)
			if captured != "" && !strings.HasSuffix(captured, "\n") {
				captured += "\n"
			}
			return domain.ExecutionResult{
				ReturnCode: 1,
				Output:     captured + exitErr.Error(),
			}
		}
		// Команда выполнилась и вернула ненулевой код — это не ошибка
		// executor'а, а её честный результат
		return domain.ExecutionResult{ReturnCode: code, Output: string(output)}
	}

	// Процесс не удалось даже запустить
	return domain.Failure(fmt.Sprintf("error executing command: %v", err))
}
