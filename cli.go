package promptress

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type CLIConfig struct {
	Verbose    bool
	Completion string
	Copy       bool
	Format     string
	Path       string
	ExitCode   string
	Force      bool
}

var (
	cfg    = &CLIConfig{}
	logger = zap.NewNop()
)

// UsageError marks bad invocations; they exit with status 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// ExitStatus maps an error from Execute to a process exit status.
func ExitStatus(err error) int {
	var usage *UsageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return &UsageError{Err: fmt.Errorf("usage: %s", cmd.UseLine())}
		}
		return nil
	}
}

var rootCmd = &cobra.Command{
	Use:   "promptress [FILE]",
	Short: "Render a powerline style shell prompt.",
	Long: `Render a powerline style shell prompt.

Without FILE, render the prompt using the compiled configuration in
PROMPTRESS_CONFIG. With FILE, compile the file configuration to JSON.

Example: export PROMPTRESS_CONFIG="$(promptress ~/.config/promptress/config.toml)"`,
	Args:          maxArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, debug := os.LookupEnv(EnvDebug)
		l, err := newLogger(cfg.Verbose || debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Completion != "" {
			return handleCompletion(cmd)
		}
		if len(args) == 1 {
			return runCompile(cmd, args[0])
		}
		return runRender(cmd)
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile [FILE|-]",
	Short: "Compile a TOML, YAML or JSON config into PROMPTRESS_CONFIG JSON",
	Args:  maxArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runCompile(cmd, path)
	},
}

var initCmd = &cobra.Command{
	Use:       "init SHELL",
	Short:     "Print the shell hook that renders the prompt",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash"},
	RunE: func(cmd *cobra.Command, args []string) error {
		bin, err := os.Executable()
		if err != nil {
			bin = "promptress"
		}
		configPath, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		script, err := InitScript(args[0], bin, configPath)
		if err != nil {
			return &UsageError{Err: err}
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), script)
		return err
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the prompt for any directory and explain its parts",
	Args:  maxArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd)
	},
}

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Show the 256 color indices usable in the config",
	Args:  maxArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), FormatPalette())
		return err
	},
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults [FILE]",
	Short: "Print the built-in configuration as TOML, or write it to FILE",
	Args:  maxArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := NewFileManager()
		if len(args) == 0 {
			data, err := m.EncodeTOML(DefaultConfig())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := m.WriteConfig(args[0], DefaultConfig(), cfg.Force); err != nil {
			return err
		}
		logger.Info("wrote default config", zap.String("path", args[0]))
		return nil
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.CallerKey = ""
	config.DisableStacktrace = true
	config.Sampling = nil
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func runRender(cmd *cobra.Command) error {
	conf, err := ConfigFromEnv(os.LookupEnv)
	if err != nil {
		return err
	}
	app := NewApp(conf)
	app.SetLogger(logger)
	err = app.Render(cmd.OutOrStdout())
	var detailed *DetailedError
	if errors.As(err, &detailed) {
		logger.Debug("render panicked", zap.ByteString("stack", detailed.Stack))
	}
	return err
}

func runCompile(cmd *cobra.Command, path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	content, err := NewSourceProvider().GetContent(path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	format := FormatFromPath(path)
	if cfg.Format != "" {
		format = Format(cfg.Format)
	}
	compiled, err := Compile(content, format)
	if err != nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if cfg.Copy {
		if err := CopyExport(compiled); err != nil {
			return err
		}
		logger.Info("copied export statement to clipboard", zap.String("config", path))
	}
	_, err = cmd.OutOrStdout().Write(compiled)
	return err
}

// previewConfig prefers the exported config, then the default config file,
// then the built-in defaults.
func previewConfig() (*Config, error) {
	conf, err := ConfigFromEnv(os.LookupEnv)
	if err == nil || !errors.Is(err, ErrNoConfig) {
		return conf, err
	}
	path, err := DefaultConfigPath()
	if err == nil && exists(path) {
		return LoadConfigFile(path)
	}
	return DefaultConfig(), nil
}

func runPreview(cmd *cobra.Command) error {
	conf, err := previewConfig()
	if err != nil {
		return err
	}
	resolver, err := NewPathResolver(os.LookupEnv)
	if err != nil {
		return err
	}
	dir := resolver.Resolve(cfg.Path)

	app := NewApp(conf)
	app.SetLogger(logger)
	app.SetEnv(func(key string) (string, bool) {
		if key == EnvExitCode {
			return cfg.ExitCode, true
		}
		return os.LookupEnv(key)
	})

	var buf bytes.Buffer
	if err := app.RenderDir(&buf, dir); err != nil {
		return err
	}
	report := FormatPreview(Preview{
		Dir:     dir,
		Display: ResolveAliases(dir, conf.WorkDir.Aliases),
		Prompt:  buf.String(),
		Parts:   app.WorkDirParts(dir),
	})
	_, err = fmt.Fprint(cmd.OutOrStdout(), report)
	return err
}

func handleCompletion(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	switch cfg.Completion {
	case "bash":
		return cmd.Root().GenBashCompletion(out)
	case "zsh":
		return cmd.Root().GenZshCompletion(out)
	case "fish":
		return cmd.Root().GenFishCompletion(out, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(out)
	default:
		return &UsageError{Err: fmt.Errorf("unsupported shell for completion: %s", cfg.Completion)}
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
	rootCmd.Flags().StringVar(&cfg.Completion, "completion", "", "Generate completion script")

	compileCmd.Flags().BoolVarP(&cfg.Copy, "copy", "c", false, "Copy an export statement to the clipboard")
	compileCmd.Flags().StringVarP(&cfg.Format, "format", "f", "", "Input format (toml, yaml, json); default from extension")

	previewCmd.Flags().StringVarP(&cfg.Path, "path", "p", "", "Directory to render (default: working directory)")
	previewCmd.Flags().StringVarP(&cfg.ExitCode, "exit-code", "e", "0", "Exit code shown in the first chip")

	defaultsCmd.Flags().BoolVar(&cfg.Force, "force", false, "Overwrite FILE if it exists")

	rootCmd.AddCommand(compileCmd, initCmd, previewCmd, paletteCmd, defaultsCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

func Execute() error {
	return rootCmd.Execute()
}
