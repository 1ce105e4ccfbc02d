package mtty

import (
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = ".mtty.yaml"

const (
	minCols = 10
	maxCols = 1000
	minRows = 4
	maxRows = 500
)

// HexColor is an "#rrggbb" string that converts to a color.RGBA via its
// RGBA method; it exists so Config's YAML surface stays plain
// strings instead of requiring a custom scalar in users' config files.
type HexColor string

// RGBA resolves the hex string, falling back to fallback on a malformed
// value.
func (h HexColor) RGBA(fallback color.RGBA) color.RGBA {
	if c := hexToColor(string(h)); c != nil {
		if rgba, ok := c.(color.RGBA); ok {
			return rgba
		}
	}
	return fallback
}

// PaletteEntry overrides a single palette index.
type PaletteEntry struct {
	Index int      `yaml:"index"`
	Color HexColor `yaml:"color"`
}

// Config is the enumerated set of options the core consumes at session
// start: initial grid dimensions, default colors, and palette
// overrides. font_size is carried through only because a renderer
// reads it from the same file; the core never uses it.
type Config struct {
	Cols       int            `yaml:"cols"`
	Rows       int            `yaml:"rows"`
	FontSize   int            `yaml:"font_size"`
	DefaultFg  HexColor       `yaml:"default_fg"`
	DefaultBg  HexColor       `yaml:"default_bg"`
	Palette    []PaletteEntry `yaml:"palette"`
}

// DefaultConfig returns the configuration a Session starts with when no
// config file is present or it fails to parse.
func DefaultConfig() Config {
	return Config{
		Cols:      80,
		Rows:      24,
		FontSize:  14,
		DefaultFg: rgbaToHex(DefaultForeground),
		DefaultBg: rgbaToHex(DefaultBackground),
	}
}

func rgbaToHex(c color.RGBA) HexColor {
	return HexColor(colorToHex(&Styles{}, c, true))
}

// configPath returns ~/.mtty.yaml.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// LoadConfig reads and validates the user's config file, clamping
// out-of-range dimensions and falling back to DefaultConfig entirely on
// a missing file or parse failure (the ConfigInvalid error kind: logged,
// never surfaced).
func LoadConfig() Config {
	path, err := configPath()
	if err != nil {
		log.Printf("mtty: could not resolve config path: %v", err)
		return DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("mtty: could not read config %s: %v", path, err)
		}
		return DefaultConfig()
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("mtty: could not parse config %s: %v, using defaults", path, err)
		return DefaultConfig()
	}

	cfg.clamp()
	return cfg
}

func (c *Config) clamp() {
	if c.Cols < minCols || c.Cols > maxCols {
		log.Printf("mtty: config cols %d out of range, clamping", c.Cols)
		c.Cols = clampInt(c.Cols, minCols, maxCols)
	}
	if c.Rows < minRows || c.Rows > maxRows {
		log.Printf("mtty: config rows %d out of range, clamping", c.Rows)
		c.Rows = clampInt(c.Rows, minRows, maxRows)
	}
	if c.FontSize <= 0 {
		c.FontSize = DefaultConfig().FontSize
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NewSessionFromConfig builds a Session sized and colored per cfg.
func NewSessionFromConfig(cfg Config, source ByteSource, sink ByteSink) *Session {
	s := NewSession(source, sink, cfg.Cols, cfg.Rows)
	s.grid.Styles.DefaultFg = cfg.DefaultFg.RGBA(DefaultForeground)
	s.grid.Styles.DefaultBg = cfg.DefaultBg.RGBA(DefaultBackground)
	s.grid.Styles.ActiveFg = nil
	s.grid.Styles.ActiveBg = nil
	for _, entry := range cfg.Palette {
		s.grid.Styles.SetColor(entry.Index, entry.Color.RGBA(DefaultPalette[clampInt(entry.Index, 0, 255)]))
	}
	return s
}
