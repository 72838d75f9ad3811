package promptress

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitScript_Bash(t *testing.T) {
	script, err := InitScript("bash", "/usr/local/bin/promptress", "/home/u/.config/promptress/config.toml")
	require.NoError(t, err)

	assert.Contains(t, script, `_promptress_ps1="$(PROMPTRESS_EXIT_CODE=$? '/usr/local/bin/promptress')"`)
	assert.Contains(t, script, `if [ -z "$PROMPTRESS_CONFIG" ]; then`)
	assert.Contains(t, script, `if [ -f '/home/u/.config/promptress/config.toml' ]; then`)
	assert.Contains(t, script, `export PROMPTRESS_CONFIG="$('/usr/local/bin/promptress' compile '/home/u/.config/promptress/config.toml')"`)
	assert.Contains(t, script, `PROMPT_COMMAND="_promptress_prompt${PROMPT_COMMAND:+;$PROMPT_COMMAND}"`)
	assert.NotContains(t, script, "{{")
}

func TestInitScript_Unsupported(t *testing.T) {
	_, err := InitScript("fish", "promptress", "config.toml")
	assert.ErrorIs(t, err, ErrUnsupportedShell)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, shellQuote("plain"))
	assert.Equal(t, `'/My Files/it'\''s'`, shellQuote("/My Files/it's"))
}

func TestInitScript_PromptIsNotExpanded(t *testing.T) {
	script, err := InitScript("bash", "promptress", "config.toml")
	require.NoError(t, err)
	assert.Contains(t, script, `_promptress_ps1="$(PROMPTRESS_EXIT_CODE=$? 'promptress')"`)
	assert.Contains(t, script, `PS1='${_promptress_ps1}'`)
	assert.NotContains(t, script, `PS1="$(`)
}

func TestInitScript_FallsBackToDefaults(t *testing.T) {
	script, err := InitScript("bash", "promptress", "config.toml")
	require.NoError(t, err)
	assert.Contains(t, script, `export PROMPTRESS_CONFIG="$('promptress' defaults | 'promptress' compile -)"`)
}

// skipBash is the exit status a hook script uses when bash is too old for
// ${PS1@P}.
const skipBash = 77

type hookRun struct {
	stdout string
	stderr string
}

// runHook evaluates the bash init script, with this test binary standing in
// for promptress, and then runs script. configPath may not exist.
func runHook(t *testing.T, configPath, script string, vars ...string) hookRun {
	t.Helper()
	bash, err := exec.LookPath("bash")
	if err != nil {
		t.Skip("bash not installed")
	}
	bin, err := os.Executable()
	require.NoError(t, err)
	hook, err := InitScript("bash", bin, configPath)
	require.NoError(t, err)

	var environ []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PROMPTRESS_") || strings.HasPrefix(kv, "PROMPT_COMMAND=") {
			continue
		}
		environ = append(environ, kv)
	}
	environ = append(environ, cliEnv+"=1", "HOOK="+hook)
	environ = append(environ, vars...)

	preamble := `if ((BASH_VERSINFO[0] < 4 || (BASH_VERSINFO[0] == 4 && BASH_VERSINFO[1] < 4))); then exit 77; fi
eval "$HOOK"
`
	cmd := exec.Command(bash, "--norc", "--noprofile", "-c", preamble+script)
	cmd.Env = environ
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == skipBash {
		t.Skip("bash older than 4.4")
	}
	require.NoError(t, err, "stderr: %s", stderr.String())
	return hookRun{stdout: stdout.String(), stderr: stderr.String()}
}

func TestBashHook_DirectoryNameIsNotExecuted(t *testing.T) {
	root := t.TempDir()
	hostile := filepath.Join(root, "$(touch P)")
	require.NoError(t, os.Mkdir(hostile, 0o755))
	missing := filepath.Join(root, "none", "config.toml")

	run := runHook(t, missing, `cd -- "$TARGET" || exit 9
_promptress_prompt
eval 'drawn=${PS1@P}'
printf '%s' "$drawn"
`, "TARGET="+hostile)

	assert.NoFileExists(t, filepath.Join(hostile, "P"))
	assert.NoFileExists(t, filepath.Join(root, "P"))
	assert.Contains(t, plain(run.stdout), "$(touch P)")
	assert.NotContains(t, run.stderr, "command not found")
}

func TestBashHook_NoConfigFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "promptress", "config.toml")

	run := runHook(t, missing, `_promptress_prompt
printf '%s\n' "$PROMPTRESS_CONFIG"
printf '%s' "$_promptress_ps1"
`)

	config, prompt, _ := strings.Cut(run.stdout, "\n")
	got, err := ConfigFromEnv(env(map[string]string{EnvConfig: config}))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), got)
	assert.NotEmpty(t, prompt)
	assert.NotContains(t, run.stderr, ErrNoConfig.Error())
}

func TestBashHook_CompilesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0o644))

	run := runHook(t, path, `printf '%s' "$PROMPTRESS_CONFIG"`)

	got, err := ConfigFromEnv(env(map[string]string{EnvConfig: run.stdout}))
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), got)
}
