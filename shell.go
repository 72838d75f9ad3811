package promptress

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedShell = errors.New("unsupported shell")

// The \x01 and \x02 markers the renderer emits are readline's, so only bash
// understands the output as-is. PS1 only names the variable holding the
// rendered line, so the line itself is never subject to prompt expansion.
const bashInit = `_promptress_prompt() {
    _promptress_ps1="$(PROMPTRESS_EXIT_CODE=$? {{bin}})"
    PS1='${_promptress_ps1}'
}
if [ -z "${{env}}" ]; then
    if [ -f {{config}} ]; then
        export {{env}}="$({{bin}} compile {{config}})"
    else
        export {{env}}="$({{bin}} defaults | {{bin}} compile -)"
    fi
fi
PROMPT_COMMAND="_promptress_prompt${PROMPT_COMMAND:+;$PROMPT_COMMAND}"
`

// InitScript returns the snippet that hooks bin into shell, compiling
// configPath into the environment once per shell session. Without a config
// file the built-in defaults are compiled instead.
func InitScript(shell, bin, configPath string) (string, error) {
	switch shell {
	case "bash":
		r := strings.NewReplacer(
			"{{bin}}", shellQuote(bin),
			"{{env}}", EnvConfig,
			"{{config}}", shellQuote(configPath),
		)
		return r.Replace(bashInit), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedShell, shell)
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
