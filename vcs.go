package promptress

import (
	"strconv"
	"unicode/utf8"
)

// run is a piece of chip text in one style.
type run struct {
	sty  Style
	text string
}

// vcsRuns lays out a repository chip: prefix and branch, then one counter per
// non-zero field. The clean glyph only means something when the counters were
// actually computed, so it needs full.
func vcsRuns(st RepoStatus, g *GitConfig, prefix string, full bool) []run {
	runs := []run{{sty: g.Sty, text: prefix + st.Branch}}
	counter := func(n uint32, glyph string, sty Style) {
		if n > 0 {
			runs = append(runs, run{sty: sty, text: " " + glyph + strconv.FormatUint(uint64(n), 10)})
		}
	}
	counter(st.Ahead, g.Ahead, g.AheadSty)
	counter(st.Behind, g.Behind, g.BehindSty)
	counter(st.Conflicts, g.Conflict, g.ConflictSty)
	counter(st.Index, g.Index, g.IndexSty)
	counter(st.Worktree, g.Worktree, g.WorktreeSty)
	counter(st.Untracked, g.Untracked, g.UntrackedSty)
	if full && st.IsClean() && g.Clean != "" {
		runs = append(runs, run{sty: g.CleanSty, text: " " + g.Clean})
	}
	return runs
}

func runsChars(runs []run) int {
	n := 0
	for _, r := range runs {
		n += utf8.RuneCountInString(r.text)
	}
	return n
}

// writeRuns paints runs, cutting them to limit characters like truncateText
// when they are too long. The marker keeps the style of the last run shown.
func writeRuns(r *Renderer, runs []run, base Style, limit int, marker string) {
	if runsChars(runs) <= limit {
		for _, rn := range runs {
			r.ApplyStyle(rn.sty)
			r.Text(rn.text)
		}
		return
	}
	marker = headRunes(marker, limit)
	keep := limit - utf8.RuneCountInString(marker)
	styled := false
	for _, rn := range runs {
		if keep <= 0 {
			break
		}
		text := headRunes(rn.text, keep)
		keep -= utf8.RuneCountInString(text)
		r.ApplyStyle(rn.sty)
		r.Text(text)
		styled = true
	}
	if !styled {
		r.ApplyStyle(base)
	}
	r.Text(marker)
}

// RenderGit paints the standalone repository chip for the repository
// enclosing dir. Outside a repository nothing is drawn.
func RenderGit(r *Renderer, cfg *Config, status *StatusReader, dir string) {
	if !cfg.Git.Enabled {
		return
	}
	st, ok := status.DiscoverStatus(dir, cfg.Git.FullStatus)
	if !ok {
		return
	}
	r.BeginSegment(cfg.Git.BG)
	for _, rn := range vcsRuns(st, &cfg.Git, cfg.Git.Prefix, cfg.Git.FullStatus) {
		r.ApplyStyle(rn.sty)
		r.Text(rn.text)
	}
}
