package promptress

import (
	"errors"

	"go.uber.org/zap"
)

const (
	branchUnborn  = "--"
	branchUnknown = "?"
)

// StatusReader folds VCS answers into RepoStatus values. Repository errors
// are logged and degrade the result; they never abort the prompt.
type StatusReader struct {
	vcs VCS
	log *zap.Logger
}

func NewStatusReader(vcs VCS, log *zap.Logger) *StatusReader {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusReader{vcs: vcs, log: log}
}

// Status reports on the repository rooted exactly at path.
func (s *StatusReader) Status(path string, full bool) (RepoStatus, bool) {
	repo, err := s.vcs.Open(path)
	if err != nil {
		s.logOpenError(path, err)
		return RepoStatus{}, false
	}
	return s.collect(path, repo, full), true
}

// DiscoverStatus reports on the repository enclosing path.
func (s *StatusReader) DiscoverStatus(path string, full bool) (RepoStatus, bool) {
	repo, err := s.vcs.Discover(path)
	if err != nil {
		s.logOpenError(path, err)
		return RepoStatus{}, false
	}
	return s.collect(path, repo, full), true
}

func (s *StatusReader) logOpenError(path string, err error) {
	if errors.Is(err, ErrNotRepository) {
		return
	}
	s.log.Warn("git: cannot open repository", zap.String("path", path), zap.Error(err))
}

func (s *StatusReader) collect(path string, repo Repository, full bool) RepoStatus {
	var st RepoStatus
	branch, err := repo.CurrentBranch()
	switch {
	case err != nil:
		s.log.Warn("git: cannot read HEAD", zap.String("path", path), zap.Error(err))
		st.Branch = branchUnknown
	case branch.Unborn || branch.Name == "":
		st.Branch = branchUnborn
	default:
		st.Branch = branch.Name
	}
	if !full {
		return st
	}

	if err == nil && !branch.Unborn && branch.Name != "" {
		if upstream, ok := repo.Upstream(branch.Name); ok {
			ahead, behind, abErr := repo.AheadBehind(branch.Name, upstream)
			if abErr != nil {
				s.log.Warn("git: cannot count commits", zap.String("path", path), zap.String("upstream", upstream), zap.Error(abErr))
			} else {
				st.Ahead, st.Behind = ahead, behind
			}
		}
	}

	changes, err := repo.Changes(true)
	if err != nil {
		s.log.Debug("git: status unavailable", zap.String("path", path), zap.Error(err))
		return st
	}
	countChanges(&st, changes)
	return st
}

// countChanges puts each entry in at most one of untracked, index and
// worktree, in that order of precedence. Conflicts are counted on top.
func countChanges(st *RepoStatus, changes []Change) {
	for _, c := range changes {
		if c.Conflicted {
			st.Conflicts++
		}
		switch {
		case c.Untracked:
			st.Untracked++
		case c.Staged:
			st.Index++
		case c.Unstaged:
			st.Worktree++
		}
	}
}
