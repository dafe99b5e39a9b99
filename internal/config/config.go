// Package config handles engine and demo configuration.
package config

// Config holds all settings.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Assets  AssetsConfig  `yaml:"assets" toml:"assets"`
	Demo    DemoConfig    `yaml:"demo" toml:"demo"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
}

// RenderConfig holds render pass settings.
type RenderConfig struct {
	ClearColor [4]float32 `yaml:"clear_color" toml:"clear_color"`
	DebugLines bool       `yaml:"debug_lines" toml:"debug_lines"` // draw collider wireframes and rays
	FovYDeg    float32    `yaml:"fov_y_deg" toml:"fov_y_deg"`
	Near       float32    `yaml:"near" toml:"near"`
	Far        float32    `yaml:"far" toml:"far"`
}

// AssetsConfig holds asset lookup settings.
type AssetsConfig struct {
	BuildPath     string `yaml:"build_path" toml:"build_path"`         // root for material and model paths
	DefaultFilter string `yaml:"default_filter" toml:"default_filter"` // "linear" or "nearest"
}

// DemoConfig selects and sizes the demo scene.
type DemoConfig struct {
	Scene   string  `yaml:"scene" toml:"scene"`
	GridRow int     `yaml:"grid_row" toml:"grid_row"`
	Spacing float32 `yaml:"spacing" toml:"spacing"`
	Texture string  `yaml:"texture" toml:"texture"`
	Model   string  `yaml:"model" toml:"model"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with working defaults.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "batchforge",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0.1, 0.2, 0.3, 1.0},
			FovYDeg:    45,
			Near:       0.1,
			Far:        100,
		},
		Assets: AssetsConfig{
			BuildPath:     "assets",
			DefaultFilter: "linear",
		},
		Demo: DemoConfig{
			Scene:   "cubes",
			GridRow: 10,
			Spacing: 3,
			Texture: "builtin:checker",
			Model:   "cube.yaml",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
