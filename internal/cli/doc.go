// Package cli реализует команды инструмента stevedore.
//
// Команды:
//
//	submit    Отправить приказ в очередь (и опционально дождаться результата)
//	commands  Разобрать procfile локально и показать доступные команды
//
// CLI — ops-инструмент для smoke-тестов worker'а; боевые приказы
// отправляет captain.
package cli
