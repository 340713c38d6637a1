// Package procfile разбирает декларативный манифест команд проекта.
//
// Манифест лежит в репозитории проекта по фиксированному пути
// bin/commands.procfile и отображает имя команды на shell-строку:
//
//	deploy: ./bin/deploy.sh --env production
//	test: make test
//	# комментарии и пустые строки игнорируются
//
// Парсер lenient: некорректные строки пропускаются (их номера
// доступны через Procfile.Skipped), ошибки формата никогда
// не валят разбор целиком.
//
// Пакет — лист, без зависимостей и без побочных эффектов:
// чтение файла с диска — забота вызывающего.
package procfile
