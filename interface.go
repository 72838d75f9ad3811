package promptress

import (
	"fmt"
	"io"
)

// Render draws the prompt described by cfg for the current working directory.
func Render(w io.Writer, cfg Config) error {
	return NewApp(&cfg).Render(w)
}

// Compile turns a TOML, YAML or JSON configuration into the JSON value of
// PROMPTRESS_CONFIG.
func Compile(content []byte, format Format) ([]byte, error) {
	cfg, err := ParseConfig(content, format)
	if err != nil {
		return nil, err
	}
	out, err := cfg.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}
