package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SettingsFile is the settings document name inside the loader's filesystem
const SettingsFile = "settings.yml"

// ErrInvalidSettings is returned when settings parse but fail validation
var ErrInvalidSettings = errors.New("invalid settings")

// Loader loads settings from YAML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
	validate *validator.Validate
}

// NewLoader creates a new settings loader from filesystem path
func NewLoader(basePath string) *Loader {
	return NewFSLoader(os.DirFS(basePath), basePath)
}

// NewFSLoader creates a new settings loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
		validate: validator.New(),
	}
}

// BasePath returns the directory the loader reads from
func (l *Loader) BasePath() string {
	return l.basePath
}

// LoadSettings loads and validates settings.yml. Fields missing from the
// document keep their DefaultSettings value.
func (l *Loader) LoadSettings() (*Settings, error) {
	data, err := fs.ReadFile(l.fsys, SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}
	return l.ParseSettings(data)
}

// ParseSettings decodes and validates a settings document
func (l *Loader) ParseSettings(data []byte) (*Settings, error) {
	cfg := DefaultSettings()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SettingsFile, err)
	}
	if err := l.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and that the window size lies within
// the configured limits
func (l *Loader) Validate(cfg *Settings) error {
	if err := l.validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	w := cfg.Window
	if w.MinSize != nil && w.MaxSize != nil {
		if w.MinSize.Width > w.MaxSize.Width || w.MinSize.Height > w.MaxSize.Height {
			return fmt.Errorf("%w: window min_size %s exceeds max_size %s", ErrInvalidSettings, w.MinSize, w.MaxSize)
		}
	}
	if w.Size != nil && w.MinSize != nil {
		if w.Size.Width < w.MinSize.Width || w.Size.Height < w.MinSize.Height {
			return fmt.Errorf("%w: window size %s is below min_size %s", ErrInvalidSettings, w.Size, w.MinSize)
		}
	}
	if w.Size != nil && w.MaxSize != nil {
		if w.Size.Width > w.MaxSize.Width || w.Size.Height > w.MaxSize.Height {
			return fmt.Errorf("%w: window size %s exceeds max_size %s", ErrInvalidSettings, w.Size, w.MaxSize)
		}
	}
	return nil
}

// Marshal renders settings back to YAML
func Marshal(cfg *Settings) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}
