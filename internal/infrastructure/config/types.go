package config

import "fmt"

// Settings is the startup configuration read from settings.yml
type Settings struct {
	Application ApplicationSettings `yaml:"application"`
	Window      WindowSettings      `yaml:"window"`
	Graphics    GraphicsSettings    `yaml:"graphics"`
}

// ApplicationSettings identifies the application
type ApplicationSettings struct {
	Name       string  `yaml:"name" validate:"required"`
	Version    Version `yaml:"version"`
	AssetsPath string  `yaml:"assets_path"`
}

// Version is a semantic version triple
type Version struct {
	Major uint32 `yaml:"major"`
	Minor uint32 `yaml:"minor"`
	Patch uint32 `yaml:"patch"`
}

// String returns "major.minor.patch"
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// WindowSettings describes the platform window.
// Nil sizes leave the choice to the platform.
type WindowSettings struct {
	Title       string `yaml:"title"`
	Size        *Size  `yaml:"size"`
	MinSize     *Size  `yaml:"min_size"`
	MaxSize     *Size  `yaml:"max_size"`
	Resizable   bool   `yaml:"resizable"`
	Maximized   bool   `yaml:"maximized"`
	Visible     bool   `yaml:"visible"`
	Transparent bool   `yaml:"transparent"`
	Decorations bool   `yaml:"decorations"`
	AlwaysOnTop bool   `yaml:"always_on_top"`
}

// Size is a logical window size in device-independent pixels
type Size struct {
	Width  int `yaml:"width" validate:"gt=0"`
	Height int `yaml:"height" validate:"gt=0"`
}

// String returns "WxH"
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// GraphicsSettings lists optional graphics extensions and layers to enable
type GraphicsSettings struct {
	Extensions []string `yaml:"extensions" validate:"dive,required"`
	Layers     []string `yaml:"layers" validate:"dive,required"`
}

// DefaultSettings returns the settings used when a field is omitted
func DefaultSettings() Settings {
	return Settings{
		Application: ApplicationSettings{
			Name:    "crius",
			Version: Version{Major: 0, Minor: 1, Patch: 0},
		},
		Window: WindowSettings{
			Title:       "crius",
			Size:        &Size{Width: 800, Height: 600},
			Resizable:   true,
			Visible:     true,
			Decorations: true,
		},
	}
}
