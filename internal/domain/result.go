package domain

// ExecutionResult — исход выполнения одного приказа.
//
// Создаётся один раз на приказ, сразу сериализуется в результат
// и выбрасывается. Ошибки резолва (неизвестный проект, нечитаемый
// procfile, неизвестная команда) и ошибки запуска процесса
// нормализуются в ReturnCode=1 с пояснением в Output — получатель
// всегда видит единый формат, без различия "не смогли запустить"
// и "запустили, но команда упала".
type ExecutionResult struct {
	// ReturnCode — код возврата. 0 — успех, 1 зарезервирован
	// под "не удалось даже выполнить", остальное — что вернул
	// сам процесс.
	ReturnCode int `json:"return_code"`

	// Output — stdout и stderr процесса, слитые в один поток
	// в порядке появления. Для ошибок резолва — человекочитаемое
	// описание причины.
	Output string `json:"output"`
}

// Failure возвращает результат "не удалось выполнить" с пояснением.
func Failure(msg string) ExecutionResult {
	return ExecutionResult{ReturnCode: 1, Output: msg}
}

// OK возвращает true, если команда завершилась успешно.
func (r ExecutionResult) OK() bool {
	return r.ReturnCode == 0
}
