package promptress

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"go.uber.org/zap"
)

const (
	exitCodeUnknown = "?"
	exitCodeSuccess = "0"
	dollarUser      = "$"
	dollarRoot      = "#"
)

type App struct {
	cfg       *Config
	vcs       VCS
	log       *zap.Logger
	lookupEnv func(string) (string, bool)
	euid      func() int
}

type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string { return e.Err.Error() }
func (e *DetailedError) Unwrap() error { return e.Err }

func NewApp(cfg *Config) *App {
	return &App{
		cfg:       cfg,
		vcs:       NewGitCLI(),
		log:       zap.NewNop(),
		lookupEnv: os.LookupEnv,
		euid:      os.Geteuid,
	}
}

func (a *App) SetLogger(log *zap.Logger) { a.log = log }
func (a *App) SetVCS(vcs VCS) { a.vcs = vcs }
func (a *App) SetEnv(lookupEnv func(string) (string, bool)) { a.lookupEnv = lookupEnv }
func (a *App) SetEUID(euid func() int) { a.euid = euid }

// Render writes the prompt for the shell's working directory. Nothing is
// written unless the whole line rendered.
func (a *App) Render(w io.Writer) error {
	resolver, err := NewPathResolver(a.lookupEnv)
	if err != nil {
		return err
	}
	return a.RenderDir(w, resolver.WorkingDir())
}

// RenderDir writes the prompt as if the shell were in dir.
func (a *App) RenderDir(w io.Writer, dir string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	var buf bytes.Buffer
	r := NewRenderer(&buf)
	a.exitCode(r)
	a.workDir(r, dir)
	RenderGit(r, a.cfg, a.statusReader(), dir)
	a.dollar(r)
	if err := r.Finish(); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func (a *App) statusReader() *StatusReader {
	return NewStatusReader(a.vcs, a.log)
}

func (a *App) exitCode(r *Renderer) {
	conf := &a.cfg.ExitCode
	code, ok := a.lookupEnv(EnvExitCode)
	if !ok {
		code = exitCodeUnknown
	}
	if code == exitCodeSuccess {
		r.BeginSegment(conf.SuccessBG)
		r.ApplyStyle(conf.SuccessSty)
	} else {
		r.BeginSegment(conf.FailureBG)
		r.ApplyStyle(conf.FailureSty)
	}
	r.Text(code)
}

// WorkDirParts segments dir the way the prompt displays it.
func (a *App) WorkDirParts(dir string) []Part {
	wd := &a.cfg.WorkDir
	display := ResolveAliases(dir, wd.Aliases)
	var status StatusFunc
	if wd.Git {
		reader := a.statusReader()
		status = func(path string) (RepoStatus, bool) {
			return reader.Status(path, wd.GitFullStatus)
		}
	}
	parts := Segment(display, dir, a.cfg, status)
	a.log.Debug("work dir segmented",
		zap.String("dir", dir),
		zap.String("display", display),
		zap.Stringers("parts", parts))
	return parts
}

func (a *App) workDir(r *Renderer, dir string) {
	RenderWorkDir(r, a.WorkDirParts(dir), a.cfg)
}

func (a *App) dollar(r *Renderer) {
	conf := &a.cfg.Dollar
	r.BeginSegment(conf.BG)
	if a.euid() == 0 {
		r.ApplyStyle(conf.RootSty)
		r.Text(dollarRoot)
	} else {
		r.ApplyStyle(conf.UserSty)
		r.Text(dollarUser)
	}
}
