package worker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shaiso/Stevedore/internal/procfile"
)

// manifestRelPath — фиксированный путь к procfile внутри проекта.
// Не настраивается per-project: это контракт между worker'ом
// и репозиториями проектов.
const manifestRelPath = "bin/commands.procfile"

// Resolution — разрешённый приказ: командная строка и рабочий каталог.
type Resolution struct {
	// Invocation — командная строка из procfile.
	Invocation string

	// Dir — корень проекта; executor запускает команду в нём.
	Dir string
}

// Resolver находит командную строку по паре (проект, команда).
//
// Procfile читается с диска заново на каждый вызов — кэша нет
// намеренно: правка procfile действует со следующего приказа
// без рестарта worker'а.
type Resolver struct {
	projects map[string]string
	logger   *slog.Logger
}

// NewResolver создаёт Resolver над таблицей проект → путь.
func NewResolver(projects map[string]string, logger *slog.Logger) *Resolver {
	return &Resolver{
		projects: projects,
		logger:   logger,
	}
}

// Resolve возвращает командную строку и каталог проекта.
//
// Ошибки различимы через errors.Is: ErrUnknownProject,
// ErrManifestUnreadable (с обёрнутой I/O ошибкой), ErrUnknownCommand.
// Текст ошибки самодостаточен — он уходит получателю как output
// результата с кодом 1.
func (r *Resolver) Resolve(project, command string) (*Resolution, error) {
	projectPath, ok := r.projects[project]
	if !ok {
		return nil, fmt.Errorf("%w: no project `%s` found", ErrUnknownProject, project)
	}

	manifestPath := filepath.Join(projectPath, manifestRelPath)
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: error loading procfile for project `%s`: %v",
			ErrManifestUnreadable, project, err)
	}

	manifest := procfile.Parse(content)
	if len(manifest.Skipped) > 0 {
		r.logger.Warn("procfile has malformed lines, skipping them",
			"project", project,
			"path", manifestPath,
			"lines", manifest.Skipped,
		)
	}

	invocation, ok := manifest.Lookup(command)
	if !ok {
		return nil, fmt.Errorf("%w: no command `%s` found in %s",
			ErrUnknownCommand, command, manifestPath)
	}

	return &Resolution{Invocation: invocation, Dir: projectPath}, nil
}
