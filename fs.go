package promptress

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const rootDir = "/"

// splitPath breaks p into components. A leading "/" is its own component,
// empty and interior "." components are dropped and ".." is kept literally.
func splitPath(p string) []string {
	var comps []string
	if strings.HasPrefix(p, rootDir) {
		comps = append(comps, rootDir)
	}
	for i, c := range strings.Split(p, "/") {
		if c == "" {
			continue
		}
		if c == "." && (i > 0 || len(comps) > 0) {
			continue
		}
		comps = append(comps, c)
	}
	return comps
}

func joinPath(comps []string) string {
	if len(comps) == 0 {
		return ""
	}
	if comps[0] == rootDir {
		return rootDir + strings.Join(comps[1:], "/")
	}
	return strings.Join(comps, "/")
}

// trimPrefixComponents returns the components of path left over after
// prefix, or false when prefix does not cover whole components of path.
func trimPrefixComponents(path, prefix []string) ([]string, bool) {
	if len(prefix) > len(path) {
		return nil, false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return nil, false
		}
	}
	return path[len(prefix):], true
}

// parentDir steps one level up. The root is its own parent.
func parentDir(dir string) string {
	if dir == rootDir || dir == "" {
		return dir
	}
	return filepath.Dir(dir)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// PathResolver turns user supplied paths into absolute ones, relative to the
// shell's working directory.
type PathResolver struct {
	wd string
}

// NewPathResolver prefers $PWD, which keeps symlinked paths the way the user
// typed them, and falls back to the process working directory.
func NewPathResolver(lookupEnv func(string) (string, bool)) (*PathResolver, error) {
	if wd, ok := lookupEnv("PWD"); ok && wd != "" {
		return &PathResolver{wd: wd}, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get current working directory: %w", err)
	}
	return &PathResolver{wd: wd}, nil
}

func (r *PathResolver) WorkingDir() string { return r.wd }

func (r *PathResolver) Resolve(relativePath string) string {
	if relativePath == "" {
		return r.wd
	}
	if filepath.IsAbs(relativePath) {
		return filepath.Clean(relativePath)
	}
	return filepath.Join(r.wd, relativePath)
}
