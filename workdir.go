package promptress

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// partOverhead is the width reserved per chip for the spaces and separator
// glyph drawn around it.
const partOverhead = 3

const gitDirName = ".git"

// StatusFunc reports the repository rooted at dir, if any.
type StatusFunc func(dir string) (RepoStatus, bool)

// Segment turns displayPath into chips, deepest component first in budget
// priority. realPath is the same directory before alias substitution and is
// what status is asked about. A nil status disables repository chips.
func Segment(displayPath, realPath string, cfg *Config, status StatusFunc) []Part {
	wd := &cfg.WorkDir
	comps := splitPath(displayPath)

	// Collected deepest first, reversed at the end.
	parts := make([]Part, 0, len(comps)+1)
	total := 0
	add := func(p Part) bool {
		cost := min(partChars(p, cfg), wd.DirMaxLen) + partOverhead
		if total+cost > wd.MaxLen {
			parts = append(parts, TruncatePart())
			return false
		}
		parts = append(parts, p)
		total += cost
		return true
	}

	realDir := realPath
	realDone := realPath == ""
	for i := len(comps) - 1; i >= 0; i-- {
		c := comps[i]
		if status != nil && !realDone && c != gitDirName && filepath.Base(realDir) != gitDirName {
			if st, ok := status(realDir); ok {
				if !add(VcsPart(st)) {
					break
				}
			}
		}
		if !add(componentPart(c)) {
			break
		}
		if next := parentDir(realDir); next != realDir {
			realDir = next
		} else {
			realDone = true
		}
	}

	markStem(parts)
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return parts
}

func componentPart(c string) Part {
	if c == rootDir {
		return RootPart()
	}
	return DirPart(strings.ToValidUTF8(c, string(utf8.RuneError)))
}

// markStem tags the deepest path component. parts is still deepest first.
func markStem(parts []Part) {
	for i := range parts {
		switch parts[i].Kind {
		case PartRoot:
			parts[i].Kind = PartRootStem
			return
		case PartDir:
			parts[i].Kind = PartStem
			return
		}
	}
}

// partChars is the untruncated display width of p in characters.
func partChars(p Part, cfg *Config) int {
	switch p.Kind {
	case PartTruncate:
		return utf8.RuneCountInString(cfg.WorkDir.Trun)
	case PartRoot, PartRootStem:
		return 1
	case PartVcs:
		return runsChars(vcsRuns(*p.Status, &cfg.Git, "", cfg.WorkDir.GitFullStatus))
	default:
		return utf8.RuneCountInString(p.Text)
	}
}

// Raw is the path text of a component part; empty for markers and chips.
func (p Part) Raw() string {
	switch p.Kind {
	case PartRoot, PartRootStem:
		return rootDir
	case PartDir, PartStem:
		return p.Text
	}
	return ""
}

// PartsPath joins the path components of parts back into a path.
func PartsPath(parts []Part) string {
	var comps []string
	for _, p := range parts {
		if p.isComponent() {
			comps = append(comps, p.Raw())
		}
	}
	return joinPath(comps)
}

func (p Part) String() string {
	switch p.Kind {
	case PartDir, PartStem:
		return fmt.Sprintf("%s(%q)", p.Kind, p.Text)
	case PartVcs:
		return fmt.Sprintf("%s(%q)", p.Kind, p.Status.Branch)
	}
	return p.Kind.String()
}

func partStyle(p Part, cfg *Config) (Style, uint8) {
	wd := &cfg.WorkDir
	switch p.Kind {
	case PartTruncate:
		return wd.TrunSty, wd.TrunBG
	case PartRootStem, PartStem:
		return wd.StemSty, wd.StemBG
	case PartVcs:
		return cfg.Git.Sty, cfg.Git.BG
	default:
		return wd.Sty, wd.BG
	}
}

// RenderWorkDir paints parts as chips.
func RenderWorkDir(r *Renderer, parts []Part, cfg *Config) {
	wd := &cfg.WorkDir
	for _, p := range parts {
		sty, bg := partStyle(p, cfg)
		r.BeginSegment(bg)
		switch p.Kind {
		case PartVcs:
			writeRuns(r, vcsRuns(*p.Status, &cfg.Git, "", wd.GitFullStatus), sty, wd.DirMaxLen, wd.DirTrun)
		case PartDir, PartStem:
			r.ApplyStyle(sty)
			r.Text(truncateText(p.Text, wd.DirMaxLen, wd.DirTrun))
		case PartTruncate:
			r.ApplyStyle(sty)
			r.Text(wd.Trun)
		default:
			r.ApplyStyle(sty)
			r.Text(rootDir)
		}
	}
}

// truncateText cuts s to limit characters, the last of which are marker.
// A marker longer than limit is itself cut to limit.
func truncateText(s string, limit int, marker string) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	marker = headRunes(marker, limit)
	return headRunes(s, limit-utf8.RuneCountInString(marker)) + marker
}

func headRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
