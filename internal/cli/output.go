package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shaiso/Stevedore/internal/mq"
)

// Output печатает результаты команд в человекочитаемом или JSON виде.
type Output struct {
	json bool
}

// NewOutput создаёт Output.
func NewOutput(jsonOutput bool) *Output {
	return &Output{json: jsonOutput}
}

// PrintResult печатает результат выполнения приказа.
func (o *Output) PrintResult(msg *mq.ResultMessage) error {
	if o.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(msg)
	}

	fmt.Printf("log_key:     %s\n", msg.LogKey)
	fmt.Printf("return_code: %d\n", msg.ReturnCode)
	fmt.Printf("output:\n%s", msg.Output)
	if msg.Output != "" && msg.Output[len(msg.Output)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

// PrintCommands печатает таблицу имя → командная строка.
func (o *Output) PrintCommands(commands map[string]string) error {
	if o.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(commands)
	}

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s: %s\n", name, commands[name])
	}
	return nil
}
