package promptress

// Style is a foreground color plus text attributes. Backgrounds are tracked
// by the Renderer, not by the style.
type Style struct {
	Color     uint8 `json:"color" toml:"color" yaml:"color"`
	Bold      bool  `json:"bold" toml:"bold" yaml:"bold"`
	Italic    bool  `json:"italic" toml:"italic" yaml:"italic"`
	Underline bool  `json:"underline" toml:"underline" yaml:"underline"`
	Blink     bool  `json:"blink" toml:"blink" yaml:"blink"`
	Strike    bool  `json:"strike" toml:"strike" yaml:"strike"`
}

func Color(c uint8) Style { return Style{Color: c} }
func Bold(c uint8) Style { return Style{Color: c, Bold: true} }

type PartKind int

const (
	PartTruncate PartKind = iota
	PartRoot
	PartRootStem
	PartDir
	PartStem
	PartVcs
)

func (k PartKind) String() string {
	switch k {
	case PartTruncate:
		return "truncate"
	case PartRoot:
		return "root"
	case PartRootStem:
		return "root-stem"
	case PartDir:
		return "dir"
	case PartStem:
		return "stem"
	case PartVcs:
		return "vcs"
	}
	return "unknown"
}

// Part is one displayable unit of the working directory chip.
type Part struct {
	Kind   PartKind
	Text   string      // Dir and Stem only
	Status *RepoStatus // Vcs only
}

func TruncatePart() Part { return Part{Kind: PartTruncate} }
func RootPart() Part { return Part{Kind: PartRoot} }
func RootStemPart() Part { return Part{Kind: PartRootStem} }
func DirPart(s string) Part { return Part{Kind: PartDir, Text: s} }
func StemPart(s string) Part { return Part{Kind: PartStem, Text: s} }
func VcsPart(s RepoStatus) Part { return Part{Kind: PartVcs, Status: &s} }
func (p Part) IsStem() bool { return p.Kind == PartStem || p.Kind == PartRootStem }
func (p Part) isComponent() bool { return p.Kind != PartTruncate && p.Kind != PartVcs }

// RepoStatus summarizes one repository. It is recomputed on every render.
type RepoStatus struct {
	Branch    string `json:"branch"`
	Ahead     uint32 `json:"ahead"`
	Behind    uint32 `json:"behind"`
	Index     uint32 `json:"index"`
	Worktree  uint32 `json:"worktree"`
	Untracked uint32 `json:"untracked"`
	Conflicts uint32 `json:"conflicts"`
}

func (s RepoStatus) IsClean() bool {
	return s.Ahead == 0 &&
		s.Behind == 0 &&
		s.Index == 0 &&
		s.Worktree == 0 &&
		s.Untracked == 0 &&
		s.Conflicts == 0
}

// Branch is the answer to a HEAD lookup.
type Branch struct {
	Name   string
	Unborn bool // HEAD names a branch with no commits yet
}

// Change is one entry of a working tree status listing.
type Change struct {
	Path       string
	Staged     bool // index differs from HEAD
	Unstaged   bool // worktree differs from index
	Untracked  bool
	Conflicted bool
}
