package promptress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

const stdinPath = "-"

// SourceProvider reads configuration text from a file, or from stdin when
// the path is "-".
type SourceProvider struct {
	stdin io.Reader
}

func NewSourceProvider() *SourceProvider {
	return &SourceProvider{stdin: os.Stdin}
}

func (sp *SourceProvider) GetContent(path string) ([]byte, error) {
	if path != stdinPath {
		return os.ReadFile(path)
	}
	if f, ok := sp.stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			return nil, fmt.Errorf("refusing to read config from a terminal; pipe it in")
		}
	}
	return io.ReadAll(sp.stdin)
}

// ExportLine is the shell statement that installs a compiled config.
func ExportLine(compiled []byte) string {
	quoted := strings.ReplaceAll(string(compiled), "'", `'\''`)
	return fmt.Sprintf("export %s='%s'", EnvConfig, quoted)
}

// CopyExport places the export statement for compiled on the clipboard.
func CopyExport(compiled []byte) error {
	if err := clipboard.WriteAll(ExportLine(compiled)); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
