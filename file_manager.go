package promptress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

var ErrConfigExists = errors.New("config file already exists")

// FileManager writes configuration files for the user to edit.
type FileManager struct{}

func NewFileManager() *FileManager {
	return &FileManager{}
}

// EncodeTOML renders cfg in the format `promptress compile` reads by default.
func (m *FileManager) EncodeTOML(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return data, nil
}

// WriteConfig stores cfg as TOML at path, creating missing directories. An
// existing file is only replaced when force is set.
func (m *FileManager) WriteConfig(path string, cfg *Config, force bool) error {
	if !force && exists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	data, err := m.EncodeTOML(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
