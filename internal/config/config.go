// Package config loads studio settings from the global config file, the
// project .studioconfig and STUDIO_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configurable studio settings.
type Config struct {
	Model        string        `mapstructure:"model"`
	APIKey       string        `mapstructure:"api_key"`
	Temperature  float32       `mapstructure:"temperature"`
	CommandDelay time.Duration `mapstructure:"command_delay"` // pause before each agent command
	PreviewOut   string        `mapstructure:"preview_out"`
	LogLevel     string        `mapstructure:"log_level"`
	LogJournal   bool          `mapstructure:"log_journal"`
	Template     string        `mapstructure:"template"` // used by `studio new` without an argument
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Model:        "gemini-2.5-flash",
		Temperature:  0.7,
		CommandDelay: 500 * time.Millisecond,
		PreviewOut:   "preview.html",
		LogLevel:     "info",
		Template:     "js-pong",
	}
}

// ProjectFile is the per-project config file name, looked up in the cwd.
const ProjectFile = ".studioconfig"

// LoadGlobal reads ~/.config/studio/config.json, or config.yaml when no JSON
// file exists. Returns defaults if neither is present.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".config", "studio")
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		cfg, err := loadFile(filepath.Join(dir, name))
		if err != nil || cfg != nil {
			return cfg, err
		}
	}
	d := Defaults()
	return &d, nil
}

// LoadProject reads .studioconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(ProjectFile)
}

// loadFile reads a JSON or YAML config file at path. It returns nil when the
// file does not exist.
func loadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType(path))
	if err := v.ReadInConfig(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

func fileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults. Zero values count as
// missing, so a file cannot set temperature or command_delay to zero; the
// environment can.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		if c.Model != "" {
			result.Model = c.Model
		}
		if c.APIKey != "" {
			result.APIKey = c.APIKey
		}
		if c.Temperature != 0 {
			result.Temperature = c.Temperature
		}
		if c.CommandDelay != 0 {
			result.CommandDelay = c.CommandDelay
		}
		if c.PreviewOut != "" {
			result.PreviewOut = c.PreviewOut
		}
		if c.LogLevel != "" {
			result.LogLevel = c.LogLevel
		}
		if c.LogJournal {
			result.LogJournal = true
		}
		if c.Template != "" {
			result.Template = c.Template
		}
	}
	return result
}

// ApplyEnv overlays STUDIO_* environment variables on cfg. The API key also
// falls back to GEMINI_API_KEY.
func ApplyEnv(cfg Config) Config {
	v := viper.New()
	v.SetEnvPrefix("studio")
	for _, key := range []string{"model", "temperature", "command_delay", "preview_out", "log_level", "log_journal", "template"} {
		_ = v.BindEnv(key)
	}
	_ = v.BindEnv("api_key", "STUDIO_API_KEY", "GEMINI_API_KEY")

	if v.IsSet("model") {
		cfg.Model = v.GetString("model")
	}
	if v.IsSet("api_key") {
		cfg.APIKey = v.GetString("api_key")
	}
	if v.IsSet("temperature") {
		cfg.Temperature = float32(v.GetFloat64("temperature"))
	}
	if v.IsSet("command_delay") {
		cfg.CommandDelay = v.GetDuration("command_delay")
	}
	if v.IsSet("preview_out") {
		cfg.PreviewOut = v.GetString("preview_out")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("log_journal") {
		cfg.LogJournal = v.GetBool("log_journal")
	}
	if v.IsSet("template") {
		cfg.Template = v.GetString("template")
	}
	return cfg
}

// Load resolves the effective configuration: defaults, global file, project
// file, then environment.
func Load() (Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return Config{}, err
	}
	project, err := LoadProject()
	if err != nil {
		return Config{}, err
	}
	return ApplyEnv(Merge(global, project)), nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
