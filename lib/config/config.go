// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file when no --config
// flag is given.
const EnvironmentVariable = "BUREAU_TRAY_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for working on the tray or the schema.
	Development Environment = "development"
	// Production is for installed trays.
	Production Environment = "production"
)

// Config is the complete tray configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	// EnvFile names a dotenv file whose variables are available to
	// ${VAR} expansion. The file never changes the process
	// environment. Relative paths resolve against the config file.
	EnvFile string `yaml:"env_file"`

	Menu  MenuConfig  `yaml:"menu"`
	Host  HostConfig  `yaml:"host"`
	State StateConfig `yaml:"state"`
	UI    UIConfig    `yaml:"ui"`
	Log   LogConfig   `yaml:"log"`

	// Per-environment overrides, applied after the base config.
	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`

	// path is the file the config was loaded from. Empty for Default.
	path string
}

// Overrides holds the fields an environment section may change.
// Unset fields leave the base value alone.
type Overrides struct {
	Menu *MenuOverrides `yaml:"menu,omitempty"`
	Host *HostConfig    `yaml:"host,omitempty"`
	Log  *LogConfig     `yaml:"log,omitempty"`
}

// MenuOverrides is MenuConfig with optional booleans.
type MenuOverrides struct {
	SchemaFile string `yaml:"schema_file"`
	CatalogDir string `yaml:"catalog_dir"`
	Strict     *bool  `yaml:"strict"`
	Language   string `yaml:"language"`
}

// MenuConfig selects the item table and language.
type MenuConfig struct {
	// SchemaFile replaces the built-in item table. Empty uses the
	// built-in table.
	SchemaFile string `yaml:"schema_file"`

	// CatalogDir holds extra label catalogs layered over the built-in
	// ones.
	CatalogDir string `yaml:"catalog_dir"`

	// Strict makes any schema problem fatal at startup. When false,
	// offending items are dropped and logged.
	// Default: true (development), false (production)
	Strict bool `yaml:"strict"`

	// Language is used when no language has been saved. Empty means
	// the LANG environment variable.
	Language string `yaml:"language"`
}

// HostConfig names the sockets shared with the host application.
type HostConfig struct {
	// NotifySocket is the host's socket for menu-activated requests.
	NotifySocket string `yaml:"notify_socket"`

	// ControlSocket is where the tray serves host control requests.
	ControlSocket string `yaml:"control_socket"`

	// QueueSize bounds activations awaiting delivery. Zero uses the
	// notifier default.
	QueueSize int `yaml:"queue_size"`
}

// StateConfig locates persistent tray state.
type StateConfig struct {
	// Preferences is the bbolt file holding the saved language and
	// item states.
	Preferences string `yaml:"preferences"`
}

// UIConfig configures the terminal menu.
type UIConfig struct {
	Title     string `yaml:"title"`
	AltScreen bool   `yaml:"alt_screen"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// File receives a copy of every log record. The terminal menu only
	// shows the latest record, so set this to keep history.
	File string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
// Paths contain ${VAR} references that Resolve and LoadFile expand.
func Default() *Config {
	return &Config{
		Environment: Development,
		Menu: MenuConfig{
			Strict: true,
		},
		Host: HostConfig{
			NotifySocket:  "${XDG_RUNTIME_DIR:-/tmp}/bureau-tray/host.sock",
			ControlSocket: "${XDG_RUNTIME_DIR:-/tmp}/bureau-tray/control.sock",
		},
		State: StateConfig{
			Preferences: "${XDG_STATE_HOME:-${HOME}/.local/state}/bureau-tray/preferences.db",
		},
		UI: UIConfig{
			Title:     "Sunshine",
			AltScreen: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the file named by BUREAU_TRAY_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your tray.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(path)
}

// Resolve picks the configuration for a command: the file at path when
// non-empty, else the file named by BUREAU_TRAY_CONFIG, else Default.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	config := Default()
	config.applyEnvironmentOverrides()
	if err := config.expandVariables(nil); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFile loads configuration from path over the defaults, applies
// the matching environment section, and expands variables.
func LoadFile(path string) (*Config, error) {
	config := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	config.path = path

	config.applyEnvironmentOverrides()

	var dotenv map[string]string
	if config.EnvFile != "" {
		envPath := config.EnvFile
		if !filepath.IsAbs(envPath) {
			envPath = filepath.Join(filepath.Dir(path), envPath)
		}
		dotenv, err = godotenv.Read(envPath)
		if err != nil {
			return nil, fmt.Errorf("reading env_file %s: %w", envPath, err)
		}
	}
	if err := config.expandVariables(dotenv); err != nil {
		return nil, err
	}
	return config, nil
}

// Path returns the file the configuration came from, or "" for
// defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		// Production defaults: keep running with whatever items are
		// valid.
		if overrides == nil {
			strict := false
			overrides = &Overrides{Menu: &MenuOverrides{Strict: &strict}}
		}
	}
	if overrides == nil {
		return
	}

	if menu := overrides.Menu; menu != nil {
		if menu.SchemaFile != "" {
			c.Menu.SchemaFile = menu.SchemaFile
		}
		if menu.CatalogDir != "" {
			c.Menu.CatalogDir = menu.CatalogDir
		}
		if menu.Strict != nil {
			c.Menu.Strict = *menu.Strict
		}
		if menu.Language != "" {
			c.Menu.Language = menu.Language
		}
	}
	if host := overrides.Host; host != nil {
		if host.NotifySocket != "" {
			c.Host.NotifySocket = host.NotifySocket
		}
		if host.ControlSocket != "" {
			c.Host.ControlSocket = host.ControlSocket
		}
		if host.QueueSize != 0 {
			c.Host.QueueSize = host.QueueSize
		}
	}
	if log := overrides.Log; log != nil {
		if log.Level != "" {
			c.Log.Level = log.Level
		}
		if log.File != "" {
			c.Log.File = log.File
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
// Variables come from dotenv first, then the process environment.
func (c *Config) expandVariables(dotenv map[string]string) error {
	var unresolved []string
	expand := func(value string) string {
		expanded, missing := expandVars(value, dotenv)
		unresolved = append(unresolved, missing...)
		return expanded
	}

	c.Menu.SchemaFile = expand(c.Menu.SchemaFile)
	c.Menu.CatalogDir = expand(c.Menu.CatalogDir)
	c.Host.NotifySocket = expand(c.Host.NotifySocket)
	c.Host.ControlSocket = expand(c.Host.ControlSocket)
	c.State.Preferences = expand(c.State.Preferences)
	c.Log.File = expand(c.Log.File)

	if len(unresolved) > 0 {
		return fmt.Errorf("unset variables in config: %s", strings.Join(unresolved, ", "))
	}
	return nil
}

var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^{}]|\{[^{}]*\})*))?\}`)

// expandVars expands variables in s, innermost defaults included. It
// returns the names of variables that had neither a value nor a
// default.
func expandVars(s string, vars map[string]string) (string, []string) {
	var missing []string
	result := varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		if strings.Contains(match, ":-") {
			expanded, nested := expandVars(parts[2], vars)
			missing = append(missing, nested...)
			return expanded
		}
		missing = append(missing, name)
		return ""
	})
	return result, missing
}

// SlogLevel returns Log.Level as a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Host.NotifySocket == "" {
		errs = append(errs, errors.New("host.notify_socket is required"))
	}
	if c.Host.ControlSocket == "" {
		errs = append(errs, errors.New("host.control_socket is required"))
	}
	if c.Host.NotifySocket != "" && c.Host.NotifySocket == c.Host.ControlSocket {
		errs = append(errs, errors.New("host.notify_socket and host.control_socket must differ"))
	}
	if c.Host.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("host.queue_size must not be negative, got %d", c.Host.QueueSize))
	}
	if c.State.Preferences == "" {
		errs = append(errs, errors.New("state.preferences is required"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// EnsurePaths creates the directories holding the sockets, the
// preference file, and the log file.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Host.NotifySocket, c.Host.ControlSocket, c.State.Preferences, c.Log.File} {
		if path == "" {
			continue
		}
		directory := filepath.Dir(path)
		if err := os.MkdirAll(directory, 0o700); err != nil {
			return fmt.Errorf("creating %s: %w", directory, err)
		}
	}
	return nil
}
