package promptress

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotRepository means there is no repository at the queried path. Callers
// treat it as an answer, not a failure.
var ErrNotRepository = errors.New("not a git repository")

// VCS locates repositories.
type VCS interface {
	// Open succeeds only when path is itself a repository root.
	Open(path string) (Repository, error)
	// Discover finds the repository enclosing path.
	Discover(path string) (Repository, error)
}

// Repository answers the handful of questions the prompt asks.
type Repository interface {
	CurrentBranch() (Branch, error)
	// Upstream returns the tracking branch of branch, if one is configured.
	Upstream(branch string) (string, bool)
	AheadBehind(local, upstream string) (ahead, behind uint32, err error)
	Changes(includeUntracked bool) ([]Change, error)
}

// GitCLI implements VCS on top of the git executable.
type GitCLI struct {
	Bin string
}

func NewGitCLI() *GitCLI {
	return &GitCLI{Bin: "git"}
}

func (g *GitCLI) Open(path string) (Repository, error) {
	if exists(filepath.Join(path, ".git")) {
		return &gitRepo{bin: g.Bin, dir: path}, nil
	}
	if isBareRepo(path) {
		return &gitRepo{bin: g.Bin, dir: path, bare: true}, nil
	}
	return nil, ErrNotRepository
}

func (g *GitCLI) Discover(path string) (Repository, error) {
	out, err := runGit(g.Bin, path, "rev-parse", "--show-toplevel")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, ErrNotRepository
		}
		return nil, err
	}
	return &gitRepo{bin: g.Bin, dir: strings.TrimSpace(out)}, nil
}

func isBareRepo(path string) bool {
	return exists(filepath.Join(path, "HEAD")) &&
		isDir(filepath.Join(path, "objects")) &&
		isDir(filepath.Join(path, "refs"))
}

type gitRepo struct {
	bin  string
	dir  string
	bare bool
}

// gitError reports git's stderr in place of the bare exit status.
type gitError struct {
	args   []string
	stderr string
	err    error
}

func (e *gitError) Error() string {
	msg := strings.TrimSpace(e.stderr)
	if msg == "" {
		msg = e.err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.args, " "), msg)
}

func (e *gitError) Unwrap() error { return e.err }

func runGit(bin, dir string, args ...string) (string, error) {
	cmd := exec.Command(bin, append([]string{"-C", dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", &gitError{args: args, stderr: stderr.String(), err: err}
	}
	return string(out), nil
}

func (r *gitRepo) git(args ...string) (string, error) {
	return runGit(r.bin, r.dir, args...)
}

func (r *gitRepo) CurrentBranch() (Branch, error) {
	out, err := r.git("rev-parse", "--abbrev-ref", "HEAD")
	if err == nil {
		return Branch{Name: strings.TrimSpace(out)}, nil
	}
	// HEAD may name a branch that has no commits yet.
	if ref, symErr := r.git("symbolic-ref", "-q", "--short", "HEAD"); symErr == nil {
		return Branch{Name: strings.TrimSpace(ref), Unborn: true}, nil
	}
	return Branch{}, err
}

func (r *gitRepo) Upstream(branch string) (string, bool) {
	out, err := r.git("rev-parse", "--abbrev-ref", "--symbolic-full-name", branch+"@{upstream}")
	if err != nil {
		return "", false
	}
	name := strings.TrimSpace(out)
	return name, name != ""
}

func (r *gitRepo) AheadBehind(local, upstream string) (uint32, uint32, error) {
	out, err := r.git("rev-list", "--left-right", "--count", local+"..."+upstream)
	if err != nil {
		return 0, 0, err
	}
	return parseAheadBehind(out)
}

func parseAheadBehind(out string) (uint32, uint32, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	ahead, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parse ahead count: %w", err)
	}
	behind, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("parse behind count: %w", err)
	}
	return uint32(ahead), uint32(behind), nil
}

func (r *gitRepo) Changes(includeUntracked bool) ([]Change, error) {
	if r.bare {
		return nil, fmt.Errorf("git status: %s is a bare repository", r.dir)
	}
	untracked := "--untracked-files=no"
	if includeUntracked {
		untracked = "--untracked-files=normal"
	}
	out, err := r.git("status", "--porcelain=v2", "-z", "--ignore-submodules=dirty", untracked)
	if err != nil {
		return nil, err
	}
	return parsePorcelainV2(out), nil
}

// parsePorcelainV2 reads NUL separated `git status --porcelain=v2 -z` output.
//
//	1 XY sub mH mI mW hH hI path
//	2 XY sub mH mI mW hH hI Xscore path NUL origPath
//	u XY sub m1 m2 m3 mW h1 h2 h3 path
//	? path
func parsePorcelainV2(out string) []Change {
	var changes []Change
	entries := strings.Split(out, "\x00")
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		if len(e) < 2 || e[1] != ' ' {
			continue
		}
		switch e[0] {
		case '1', '2':
			fields := strings.SplitN(e, " ", fieldCount(e[0]))
			if len(fields) < fieldCount(e[0]) || len(fields[1]) != 2 {
				continue
			}
			xy := fields[1]
			changes = append(changes, Change{
				Path:     fields[len(fields)-1],
				Staged:   xy[0] != '.',
				Unstaged: xy[1] != '.',
			})
			if e[0] == '2' {
				i++ // skip origPath
			}
		case 'u':
			fields := strings.SplitN(e, " ", 11)
			changes = append(changes, Change{Path: fields[len(fields)-1], Conflicted: true})
		case '?':
			changes = append(changes, Change{Path: e[2:], Untracked: true})
		}
	}
	return changes
}

func fieldCount(kind byte) int {
	if kind == '2' {
		return 10
	}
	return 9
}
