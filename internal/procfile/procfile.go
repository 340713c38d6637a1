package procfile

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// entryPattern — одна запись procfile: `name: invocation`.
// Имя — буквы, цифры, '_' и '-'; всё после двоеточия — командная строка
// как есть (включая плейсхолдеры вида %(PORT)d, они не раскрываются).
var entryPattern = regexp.MustCompile(`^([A-Za-z0-9_-]+):\s*(.+)$`)

// Procfile — распарсенный манифест команд проекта.
//
// Формат: одна запись на строку, `name: invocation`. Пустые строки
// и строки-комментарии (начинающиеся с '#') игнорируются.
//
// Парсер lenient: строки, не подходящие под формат, пропускаются,
// а их номера запоминаются в Skipped — вызывающий решает, логировать
// предупреждение или нет. Parse никогда не падает целиком.
// При дубликате имени побеждает последняя запись.
type Procfile struct {
	commands map[string]string

	// Skipped — номера строк (с 1), не распознанных парсером.
	Skipped []int
}

// Parse разбирает содержимое procfile.
func Parse(content []byte) *Procfile {
	p := &Procfile{commands: make(map[string]string)}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Пустые строки и комментарии — не записи
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			p.Skipped = append(p.Skipped, lineNo)
			continue
		}

		p.commands[m[1]] = strings.TrimSpace(m[2])
	}

	return p
}

// Lookup возвращает командную строку по имени команды.
func (p *Procfile) Lookup(name string) (string, bool) {
	invocation, ok := p.commands[name]
	return invocation, ok
}

// Commands возвращает копию отображения имя → командная строка.
func (p *Procfile) Commands() map[string]string {
	out := make(map[string]string, len(p.commands))
	for name, invocation := range p.commands {
		out[name] = invocation
	}
	return out
}

// Len возвращает количество распознанных записей.
func (p *Procfile) Len() int {
	return len(p.commands)
}
