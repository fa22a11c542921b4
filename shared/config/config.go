package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration accepts "30s" style values in yaml, which yaml.v2 cannot decode
// into time.Duration directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Listen          string        `yaml:"listen"`
	BackendURL      string        `yaml:"backend_url"`
	MediaBaseURL    string        `yaml:"media_base_url"` // avatar paths resolve against this
	LogLevel        string        `yaml:"log_level"`
	LogJSON         bool          `yaml:"log_json"`
	StateFile       string   `yaml:"state_file"` // bolt file for persisted UI state
	DefaultPageSize int      `yaml:"default_page_size"`
	MaxPageSize     int      `yaml:"max_page_size"`
	StaleAfter      Duration `yaml:"stale_after"`      // cache entries older than this refresh in background
	RefreshInterval Duration `yaml:"refresh_interval"` // visibility-gated background refresh tick
	EditWindow      Duration `yaml:"edit_window"`      // replies editable this long after creation
	SearchDebounce  Duration `yaml:"search_debounce"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
}

func (c *Config) JwtKey() string {
	return c.private.JwtKey
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	p := &c.Public
	if p.Listen == "" {
		p.Listen = ":8081"
	}
	if p.DefaultPageSize <= 0 {
		p.DefaultPageSize = 20
	}
	if p.MaxPageSize <= 0 {
		p.MaxPageSize = 100
	}
	if p.StaleAfter <= 0 {
		p.StaleAfter = Duration(30 * time.Second)
	}
	if p.RefreshInterval <= 0 {
		p.RefreshInterval = Duration(time.Minute)
	}
	if p.EditWindow <= 0 {
		p.EditWindow = Duration(15 * time.Minute)
	}
	if p.SearchDebounce <= 0 {
		p.SearchDebounce = Duration(300 * time.Millisecond)
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	if p.StateFile == "" {
		p.StateFile = "parley_state.db"
	}
}
