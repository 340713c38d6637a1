package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shaiso/Stevedore/internal/procfile"
)

// NewCommandsCmd создаёт команду `stevedore commands`.
//
// Разбирает procfile локально — удобно проверить манифест
// до отправки приказов. Аргумент — корень проекта (тогда берётся
// bin/commands.procfile) либо путь к самому procfile.
func NewCommandsCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "commands <project-dir | procfile>",
		Short: "List commands resolvable from a procfile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if info.IsDir() {
				path = filepath.Join(path, "bin", "commands.procfile")
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read procfile: %w", err)
			}

			manifest := procfile.Parse(content)
			for _, line := range manifest.Skipped {
				fmt.Fprintf(os.Stderr, "warning: %s:%d: malformed line skipped\n", path, line)
			}

			return outputFn().PrintCommands(manifest.Commands())
		},
	}
}
