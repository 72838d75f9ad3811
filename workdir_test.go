package promptress

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(path string, cfg *Config) []Part {
	return Segment(path, path, cfg, nil)
}

func statusAt(repos map[string]RepoStatus) StatusFunc {
	return func(dir string) (RepoStatus, bool) {
		st, ok := repos[dir]
		return st, ok
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []Part
	}{
		{
			name: "relative",
			path: "foo/bar",
			want: []Part{DirPart("foo"), StemPart("bar")},
		},
		{
			name: "absolute",
			path: "/usr/bin",
			want: []Part{RootPart(), DirPart("usr"), StemPart("bin")},
		},
		{
			name: "dot components are literal",
			path: "./foo/../bar",
			want: []Part{DirPart("."), DirPart("foo"), DirPart(".."), StemPart("bar")},
		},
		{
			name: "root",
			path: "/",
			want: []Part{RootStemPart()},
		},
		{
			name: "repeated separators",
			path: "/usr//lib/",
			want: []Part{RootPart(), DirPart("usr"), StemPart("lib")},
		},
		{
			name: "empty",
			path: "",
			want: []Part{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segment(tt.path, DefaultConfig())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segment(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestSegment_WholePathTruncation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.MaxLen = 10

	got := segment("/one/two/three/four/five/six/seven", cfg)
	want := []Part{TruncatePart(), StemPart("seven")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_BudgetChargesTruncatedWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.DirMaxLen = 5
	cfg.WorkDir.MaxLen = 16

	// Each long component costs 5+3; the root would need 4 more.
	got := segment("/aaaaaaaaaa/bbbbbbbbbb", cfg)
	want := []Part{TruncatePart(), DirPart("aaaaaaaaaa"), StemPart("bbbbbbbbbb")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_ExactBudgetFits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.MaxLen = 12

	got := segment("/a/b", cfg)
	want := []Part{RootPart(), DirPart("a"), StemPart("b")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_StemTruncatedAway(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.MaxLen = 2

	got := segment("/tmp", cfg)
	assert.Equal(t, []Part{TruncatePart()}, got)
}

func TestSegment_ExactlyOneStem(t *testing.T) {
	paths := []string{
		"/", "/a", "a", "/a/b/c", "./x", "/one/two/three/four/five/six/seven",
		"/" + strings.Repeat("long-component/", 10) + "end",
	}
	for _, maxLen := range []int{8, 20, 64} {
		cfg := DefaultConfig()
		cfg.WorkDir.MaxLen = maxLen
		for _, p := range paths {
			parts := segment(p, cfg)
			stems := 0
			for _, part := range parts {
				if part.IsStem() {
					stems++
				}
			}
			require.Equal(t, 1, stems, "path %q max_len %d: %v", p, maxLen, parts)
			last := parts[len(parts)-1]
			assert.True(t, last.IsStem(), "deepest part of %q should be the stem", p)
		}
	}
}

func TestSegment_RoundTrip(t *testing.T) {
	for _, p := range []string{"/", "/usr/local/bin", "foo/bar", "./foo/../bar", "/tmp/ünïcödé"} {
		parts := segment(p, DefaultConfig())
		assert.Equal(t, joinPath(splitPath(p)), PartsPath(parts), "path %q", p)
	}
}

func TestSegment_InvalidUTF8(t *testing.T) {
	got := segment("/tmp/bad\xffname", DefaultConfig())
	want := []Part{RootPart(), DirPart("tmp"), StemPart("bad�name")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_RepositoryChips(t *testing.T) {
	main := RepoStatus{Branch: "main"}
	sub := RepoStatus{Branch: "dev", Worktree: 1}
	status := statusAt(map[string]RepoStatus{
		"/home/u/proj":     main,
		"/home/u/proj/vnd": sub,
	})

	got := Segment("/home/u/proj/vnd/src", "/home/u/proj/vnd/src", DefaultConfig(), status)
	want := []Part{
		RootPart(), DirPart("home"), DirPart("u"),
		DirPart("proj"), VcsPart(main),
		DirPart("vnd"), VcsPart(sub),
		StemPart("src"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_RepositoryRootIsStem(t *testing.T) {
	st := RepoStatus{Branch: "main"}
	got := Segment("/proj", "/proj", DefaultConfig(), statusAt(map[string]RepoStatus{"/proj": st}))
	want := []Part{RootPart(), StemPart("proj"), VcsPart(st)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_QueriesRealAncestors(t *testing.T) {
	var queried []string
	status := func(dir string) (RepoStatus, bool) {
		queried = append(queried, dir)
		return RepoStatus{}, false
	}
	Segment("~/proj/src", "/home/u/proj/src", DefaultConfig(), status)
	assert.Equal(t, []string{"/home/u/proj/src", "/home/u/proj", "/home/u"}, queried)
}

func TestSegment_AliasLongerThanRealPath(t *testing.T) {
	var queried []string
	status := func(dir string) (RepoStatus, bool) {
		queried = append(queried, dir)
		return RepoStatus{}, false
	}
	got := Segment("/x/y/z/tmp", "/tmp", DefaultConfig(), status)
	assert.Equal(t, []string{"/tmp", "/"}, queried)
	assert.Len(t, got, 5)
}

func TestSegment_SkipsGitDir(t *testing.T) {
	var queried []string
	status := func(dir string) (RepoStatus, bool) {
		queried = append(queried, dir)
		return RepoStatus{Branch: "main"}, dir == "/r"
	}
	got := Segment("/r/.git/hooks", "/r/.git/hooks", DefaultConfig(), status)

	assert.NotContains(t, queried, "/r/.git")
	want := []Part{RootPart(), DirPart("r"), VcsPart(RepoStatus{Branch: "main"}), DirPart(".git"), StemPart("hooks")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_SkipsAliasedGitDir(t *testing.T) {
	var queried []string
	status := func(dir string) (RepoStatus, bool) {
		queried = append(queried, dir)
		return RepoStatus{}, false
	}
	Segment("Meta", "/r/.git", DefaultConfig(), status)
	assert.Empty(t, queried)
}

func TestSegment_RepositoryChipOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.MaxLen = 10
	status := statusAt(map[string]RepoStatus{"/r": {Branch: "main"}})

	got := Segment("/r/src", "/r/src", cfg, status)
	want := []Part{TruncatePart(), StemPart("src")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPartString(t *testing.T) {
	assert.Equal(t, `stem("src")`, StemPart("src").String())
	assert.Equal(t, "truncate", TruncatePart().String())
	assert.Equal(t, "root-stem", RootStemPart().String())
	assert.Equal(t, `vcs("main")`, VcsPart(RepoStatus{Branch: "main"}).String())
}

// plain drops every escape sequence, leaving the visible text.
func plain(s string) string {
	return ansi.Strip(strings.NewReplacer(nonPrintBegin, "", nonPrintEnd, "").Replace(s))
}

func renderParts(parts []Part, cfg *Config) string {
	var buf bytes.Buffer
	RenderWorkDir(NewRenderer(&buf), parts, cfg)
	return buf.String()
}

func TestRenderWorkDir_ComponentTruncation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.DirMaxLen = 12

	out := plain(renderParts([]Part{StemPart("0123456789abcdef")}, cfg))
	assert.Equal(t, " 012345678...", out)
	assert.Equal(t, 12, utf8.RuneCountInString(strings.TrimPrefix(out, " ")))
}

func TestRenderWorkDir_ComponentFitsExactly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.DirMaxLen = 4

	assert.Equal(t, " abcd", plain(renderParts([]Part{StemPart("abcd")}, cfg)))
	assert.Equal(t, " ab..", plain(renderParts([]Part{StemPart("abcde")}, withDirTrun(cfg, ".."))))
}

func withDirTrun(cfg *Config, marker string) *Config {
	cfg.WorkDir.DirTrun = marker
	return cfg
}

func TestRenderWorkDir_Styles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.BG = 4
	cfg.WorkDir.Sty = Color(7)
	cfg.WorkDir.StemBG = 2
	cfg.WorkDir.StemSty = Bold(0)
	cfg.WorkDir.TrunBG = 1
	cfg.WorkDir.TrunSty = Color(3)

	got := renderParts([]Part{TruncatePart(), DirPart("a"), StemPart("b")}, cfg)
	want := sgr(";41") + " " + sgr(";41;33") + "..." +
		" " + sgr(";31;44") + GlyphArrow + sgr(";44") + " " + sgr(";44;37") + "a" +
		" " + sgr(";34;42") + GlyphArrow + sgr(";42") + " " + sgr(";42;30;1") + "b"
	assert.Equal(t, want, got)
}

func TestRenderWorkDir_RepositoryChip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.GitFullStatus = true
	st := RepoStatus{Branch: "main", Ahead: 2, Index: 1, Untracked: 3}

	out := plain(renderParts([]Part{VcsPart(st)}, cfg))
	assert.Equal(t, " main ↑2 ●1 ?3", out)
}

func TestRenderWorkDir_RepositoryChipTruncation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.DirMaxLen = 10

	out := plain(renderParts([]Part{VcsPart(RepoStatus{Branch: "feature/very-long"})}, cfg))
	assert.Equal(t, " feature...", out)
}

func TestRenderWorkDir_TruncationAcrossRuns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.DirMaxLen = 8
	cfg.WorkDir.GitFullStatus = true
	st := RepoStatus{Branch: "main", Ahead: 3, Index: 2}

	var buf bytes.Buffer
	RenderWorkDir(NewRenderer(&buf), []Part{VcsPart(st)}, cfg)
	assert.Equal(t, " main ...", plain(buf.String()))
	// The marker is drawn in the style of the ahead counter it cut.
	assert.True(t, strings.HasSuffix(buf.String(), sgr(";47;30")+" ..."), buf.String())
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10, "..."))
	assert.Equal(t, "ünï...", truncateText("ünïcödé-long", 6, "..."))
	assert.Equal(t, "...", truncateText("abcdef", 3, "..."))
}

func TestTruncateText_MarkerLongerThanLimit(t *testing.T) {
	assert.Equal(t, "..", truncateText("abcdef", 2, "..."))
	assert.Equal(t, "", truncateText("abcdef", 0, "..."))
	assert.Equal(t, "ab", truncateText("ab", 2, "..."))
}

func TestRenderWorkDir_NarrowBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir.DirMaxLen = 2

	assert.Equal(t, " ..", plain(renderParts([]Part{StemPart("abcdef")}, cfg)))
	assert.Equal(t, " ..", plain(renderParts([]Part{VcsPart(RepoStatus{Branch: "main"})}, cfg)))
}
