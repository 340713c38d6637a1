package domain

import (
	"encoding/json"
	"fmt"
)

// Order — приказ на выполнение одной команды.
//
// Order приходит от captain'а через очередь приказов и описывает:
// - какой проект затронут
// - какую команду из его procfile выполнить
// - куда и под каким ключом отправить результат
//
// Order immutable: декодируется один раз из тела сообщения
// и дальше передаётся по pipeline без изменений.
type Order struct {
	// Project — идентификатор проекта (ключ в таблице projects).
	Project string `json:"project"`

	// Command — имя команды из procfile проекта.
	Command string `json:"command"`

	// LogKey — непрозрачный ключ корреляции. Возвращается
	// в результате без изменений.
	LogKey string `json:"log_key"`

	// LogQueue — имя очереди, в которую публикуется результат.
	LogQueue string `json:"log_queue"`
}

// requiredFields — обязательные поля приказа в порядке проверки.
var requiredFields = []struct {
	name  string
	value func(*Order) string
}{
	{"project", func(o *Order) string { return o.Project }},
	{"command", func(o *Order) string { return o.Command }},
	{"log_key", func(o *Order) string { return o.LogKey }},
	{"log_queue", func(o *Order) string { return o.LogQueue }},
}

// ParseOrder декодирует тело сообщения в Order.
//
// Все четыре поля обязательны и непустые. Невалидный приказ
// никогда не доходит до executor'а: вызывающий логирует ошибку
// и выбрасывает сообщение (ошибка не ретраится).
func ParseOrder(body []byte) (*Order, error) {
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}

	for _, f := range requiredFields {
		if f.value(&order) == "" {
			return nil, fmt.Errorf("order is missing required field %q", f.name)
		}
	}

	return &order, nil
}

// String возвращает краткое представление приказа для логов.
func (o *Order) String() string {
	return fmt.Sprintf("%s/%s (log_key=%s)", o.Project, o.Command, o.LogKey)
}
