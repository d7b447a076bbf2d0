// Package config loads roost settings from roost.yml and ROOST_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/simonhull/roost/internal/tasks"
)

const (
	// FileName is the config file name without extension.
	FileName = "roost"
	// EnvPrefix prefixes environment overrides, e.g. ROOST_API_URL.
	EnvPrefix = "ROOST"
)

// Config holds project-level settings. Command-line flags override them.
type Config struct {
	Project        string   `mapstructure:"project"`
	APIURL         string   `mapstructure:"api_url"`
	PackageManager string   `mapstructure:"package_manager"`
	SkipInstall    bool     `mapstructure:"skip_install"`
	Defaults       Defaults `mapstructure:"defaults"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// Defaults are the auth-features flags used when not given on the command line.
type Defaults struct {
	AddAuth         bool `mapstructure:"add_auth"`
	AddGuards       bool `mapstructure:"add_guards"`
	AddInterceptors bool `mapstructure:"add_interceptors"`
	UseNgrx         bool `mapstructure:"use_ngrx"`
	InstallNgrx     bool `mapstructure:"install_ngrx"`
}

// defaults registers every key so that Unmarshal sees values that only
// come from the environment.
var defaults = map[string]any{
	"project":                   "",
	"api_url":                   "",
	"package_manager":           "",
	"skip_install":              false,
	"defaults.add_auth":         false,
	"defaults.add_guards":       false,
	"defaults.add_interceptors": false,
	"defaults.use_ngrx":         false,
	"defaults.install_ngrx":     false,
}

// Load reads roost.yml (or roost.yaml) from dir, if present, and applies
// environment overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s.yml: %w", FileName, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s.yml: %w", FileName, err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.PackageManager {
	case "", tasks.NPM, tasks.Yarn, tasks.PNPM, tasks.Bun:
		return nil
	}
	return fmt.Errorf("package_manager %q is not one of npm, yarn, pnpm, bun", c.PackageManager)
}

// Options returns the configured option values for a schematic, keyed by
// the schematic's option names. Unset values are omitted.
func (c *Config) Options(schematic string) map[string]any {
	opts := map[string]any{}
	if c.Project != "" {
		opts["project"] = c.Project
	}
	switch schematic {
	case "env-config":
		if c.APIURL != "" {
			opts["apiUrl"] = c.APIURL
		}
	case "auth-features":
		opts["addAuth"] = c.Defaults.AddAuth
		opts["addGuards"] = c.Defaults.AddGuards
		opts["addInterceptors"] = c.Defaults.AddInterceptors
		opts["useNgrx"] = c.Defaults.UseNgrx
		opts["installNgrx"] = c.Defaults.InstallNgrx
		if c.PackageManager != "" {
			opts["packageManager"] = c.PackageManager
		}
	}
	return opts
}
