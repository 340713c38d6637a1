package worker

import "errors"

// Ошибки воркера.
var (
	// ErrUnknownProject — проект отсутствует в таблице projects.
	ErrUnknownProject = errors.New("unknown project")

	// ErrManifestUnreadable — procfile проекта не удалось открыть или прочитать.
	ErrManifestUnreadable = errors.New("manifest unreadable")

	// ErrUnknownCommand — команда отсутствует в procfile проекта.
	ErrUnknownCommand = errors.New("unknown command")
)
