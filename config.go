package promptress

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig   = "PROMPTRESS_CONFIG"
	EnvExitCode = "PROMPTRESS_EXIT_CODE"
	EnvDebug    = "PROMPTRESS_DEBUG"

	configDirName  = "promptress"
	configFileName = "config.toml"
)

var (
	ErrNoConfig          = errors.New(EnvConfig + " not set or empty")
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrInvalidConfig     = errors.New("invalid config")
)

type Config struct {
	Dollar   DollarConfig   `json:"dollar" toml:"dollar" yaml:"dollar"`
	ExitCode ExitCodeConfig `json:"exit_code" toml:"exit_code" yaml:"exit_code"`
	Git      GitConfig      `json:"git" toml:"git" yaml:"git"`
	WorkDir  WorkDirConfig  `json:"work_dir" toml:"work_dir" yaml:"work_dir"`
}

type DollarConfig struct {
	BG      uint8 `json:"bg" toml:"bg" yaml:"bg"`
	UserSty Style `json:"user_sty" toml:"user_sty" yaml:"user_sty"`
	RootSty Style `json:"root_sty" toml:"root_sty" yaml:"root_sty"`
}

type ExitCodeConfig struct {
	SuccessBG  uint8 `json:"success_bg" toml:"success_bg" yaml:"success_bg"`
	SuccessSty Style `json:"success_sty" toml:"success_sty" yaml:"success_sty"`
	FailureBG  uint8 `json:"failure_bg" toml:"failure_bg" yaml:"failure_bg"`
	FailureSty Style `json:"failure_sty" toml:"failure_sty" yaml:"failure_sty"`
}

// GitConfig styles the standalone repository chip and every repository chip
// inlined into the working directory.
type GitConfig struct {
	Enabled    bool   `json:"enabled" toml:"enabled" yaml:"enabled"`
	FullStatus bool   `json:"full_status" toml:"full_status" yaml:"full_status"`
	BG         uint8  `json:"bg" toml:"bg" yaml:"bg"`
	Sty        Style  `json:"sty" toml:"sty" yaml:"sty"`
	Prefix     string `json:"prefix" toml:"prefix" yaml:"prefix"`

	Ahead     string `json:"ahead" toml:"ahead" yaml:"ahead"`
	Behind    string `json:"behind" toml:"behind" yaml:"behind"`
	Index     string `json:"index" toml:"index" yaml:"index"`
	Worktree  string `json:"worktree" toml:"worktree" yaml:"worktree"`
	Untracked string `json:"untracked" toml:"untracked" yaml:"untracked"`
	Conflict  string `json:"conflict" toml:"conflict" yaml:"conflict"`
	Clean     string `json:"clean" toml:"clean" yaml:"clean"`

	AheadSty     Style `json:"ahead_sty" toml:"ahead_sty" yaml:"ahead_sty"`
	BehindSty    Style `json:"behind_sty" toml:"behind_sty" yaml:"behind_sty"`
	IndexSty     Style `json:"index_sty" toml:"index_sty" yaml:"index_sty"`
	WorktreeSty  Style `json:"worktree_sty" toml:"worktree_sty" yaml:"worktree_sty"`
	UntrackedSty Style `json:"untracked_sty" toml:"untracked_sty" yaml:"untracked_sty"`
	ConflictSty  Style `json:"conflict_sty" toml:"conflict_sty" yaml:"conflict_sty"`
	CleanSty     Style `json:"clean_sty" toml:"clean_sty" yaml:"clean_sty"`
}

type WorkDirConfig struct {
	BG        uint8             `json:"bg" toml:"bg" yaml:"bg"`
	Sty       Style             `json:"sty" toml:"sty" yaml:"sty"`
	TrunBG    uint8             `json:"trun_bg" toml:"trun_bg" yaml:"trun_bg"`
	TrunSty   Style             `json:"trun_sty" toml:"trun_sty" yaml:"trun_sty"`
	StemBG    uint8             `json:"stem_bg" toml:"stem_bg" yaml:"stem_bg"`
	StemSty   Style             `json:"stem_sty" toml:"stem_sty" yaml:"stem_sty"`
	Trun      string            `json:"trun" toml:"trun" yaml:"trun"`
	DirTrun   string            `json:"dir_trun" toml:"dir_trun" yaml:"dir_trun"`
	MaxLen    int               `json:"max_len" toml:"max_len" yaml:"max_len"`
	DirMaxLen int               `json:"dir_max_len" toml:"dir_max_len" yaml:"dir_max_len"`
	Aliases   map[string]string `json:"aliases" toml:"aliases" yaml:"aliases"`

	// Inline a repository chip after every repository root on the path.
	Git           bool `json:"git" toml:"git" yaml:"git"`
	GitFullStatus bool `json:"git_full_status" toml:"git_full_status" yaml:"git_full_status"`
}

func DefaultConfig() *Config {
	return &Config{
		Dollar: DollarConfig{
			BG:      0,
			UserSty: Color(15),
			RootSty: Bold(9),
		},
		ExitCode: ExitCodeConfig{
			SuccessBG:  0,
			SuccessSty: Bold(10),
			FailureBG:  0,
			FailureSty: Bold(9),
		},
		Git: GitConfig{
			Enabled:      true,
			BG:           7,
			Sty:          Color(0),
			Prefix:       "Git:",
			Ahead:        "↑",
			Behind:       "↓",
			Index:        "●",
			Worktree:     "+",
			Untracked:    "?",
			Conflict:     "✖",
			AheadSty:     Color(0),
			BehindSty:    Color(0),
			IndexSty:     Color(2),
			WorktreeSty:  Color(1),
			UntrackedSty: Color(0),
			ConflictSty:  Bold(1),
			CleanSty:     Color(2),
		},
		WorkDir: WorkDirConfig{
			BG:        15,
			Sty:       Color(0),
			TrunBG:    15,
			TrunSty:   Color(0),
			StemBG:    15,
			StemSty:   Color(0),
			Trun:      "...",
			DirTrun:   "...",
			MaxLen:    64,
			DirMaxLen: 16,
			Aliases:   map[string]string{},
		},
	}
}

// UnmarshalJSON starts from the zero style, so a style table in a config
// replaces the default style instead of being merged into it.
func (s *Style) UnmarshalJSON(data []byte) error {
	type plain Style
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Style(v)
	return nil
}

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the decoder by extension. Anything unrecognized is
// read as TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// ParseConfig decodes data over DefaultConfig. TOML and YAML documents are
// normalized to JSON first so that every format shares one decoding path.
func ParseConfig(data []byte, format Format) (*Config, error) {
	var doc map[string]any
	switch format {
	case FormatJSON:
		return decodeConfig(data)
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", format, err)
	}
	return decodeConfig(normalized)
}

func decodeConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.WorkDir.MaxLen < 0 {
		return fmt.Errorf("%w: work_dir.max_len must not be negative, got %d", ErrInvalidConfig, c.WorkDir.MaxLen)
	}
	if c.WorkDir.DirMaxLen < 0 {
		return fmt.Errorf("%w: work_dir.dir_max_len must not be negative, got %d", ErrInvalidConfig, c.WorkDir.DirMaxLen)
	}
	return nil
}

func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv reads the compiled JSON configuration the shell hook exports.
func ConfigFromEnv(lookupEnv func(string) (string, bool)) (*Config, error) {
	raw, ok := lookupEnv(EnvConfig)
	if !ok || raw == "" {
		return nil, ErrNoConfig
	}
	cfg, err := ParseConfig([]byte(raw), FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", EnvConfig, err)
	}
	return cfg, nil
}

// Compile renders cfg as the JSON value expected in PROMPTRESS_CONFIG.
func (c *Config) Compile() ([]byte, error) {
	return json.Marshal(c)
}

func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}
