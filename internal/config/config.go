package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/vanillatweaks/mobheads/internal/loot"
)

type Config struct {
	Extract   ExtractConfig   `toml:"extract"`
	Output    OutputConfig    `toml:"output"`
	Overrides loot.Overrides  `toml:"overrides"`
	Database  DatabaseConfig  `toml:"database"`
	Scripting ScriptingConfig `toml:"scripting"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ExtractConfig struct {
	GroupMarker   string   `toml:"group_marker"`   // path fragment that switches to <parent>/<file> naming
	ExpectedEmpty []string `toml:"expected_empty"` // file suffixes allowed to have no head
	Workers       int      `toml:"workers"`        // 1 = sequential
	FileExtension string   `toml:"file_extension"`
	SkipHidden    bool     `toml:"skip_hidden"`
}

type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"` // "json" or "yaml"
}

type DatabaseConfig struct {
	DSN     string `toml:"dsn"` // empty disables the sink
	MaxConn int    `toml:"max_conns"`
}

type ScriptingConfig struct {
	Path string `toml:"path"` // .lua file or directory; empty disables the hook
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads a TOML file over the defaults. A missing file is not an error
// when optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got %q", c.Output.Format)
	}
	if c.Extract.Workers < 1 {
		return fmt.Errorf("extract.workers must be at least 1, got %d", c.Extract.Workers)
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Extract: ExtractConfig{
			GroupMarker:   "sheep",
			ExpectedEmpty: []string{"shulker.json", "ender_dragon.json"},
			Workers:       1,
			FileExtension: ".json",
			SkipHidden:    true,
		},
		Output: OutputConfig{
			Path:   "../vanilla-tweaks-bukkit/src/main/resources/data/more_mob_heads.json",
			Format: "json",
		},
		Overrides: loot.DefaultOverrides(),
		Database: DatabaseConfig{
			MaxConn: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
