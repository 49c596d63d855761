package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/bindgen/errors"
)

// Load reads the configuration for the current working directory.
// Precedence (lowest to highest): defaults < user < project < env vars.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine working directory")
	}
	return LoadFrom(wd)
}

// LoadFrom reads the configuration as seen from dir.
func LoadFrom(dir string) (*Config, error) {
	v := newViper()
	project := FindProjectConfig(dir)
	if err := mergeConfigFiles(v, userConfigPath(), project); err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if project != "" {
		cfg.Dir = filepath.Dir(project)
	}
	return cfg, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path, without env
// overrides or other config files
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}
	cfg.Dir = filepath.Dir(configPath)
	return cfg, nil
}

// TypemapPaths returns the configured typemap files, relative ones resolved
// against the config directory.
func (c *Config) TypemapPaths() []string {
	out := make([]string, 0, len(c.Typemap.Paths))
	for _, p := range c.Typemap.Paths {
		out = append(out, c.resolvePath(p))
	}
	return out
}

// DiscoverDir returns the directory packages are loaded from.
func (c *Config) DiscoverDir() string {
	if c.Discover.Dir == "" {
		return c.Dir
	}
	return c.resolvePath(c.Discover.Dir)
}

func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// FindProjectConfig searches for bindgen.toml by walking up from dir.
// Returns the path of the first file found, or "" if none.
func FindProjectConfig(dir string) string {
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// reached filesystem root
			return ""
		}
		dir = parent
	}
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bindgen", FileName)
}

// mergeConfigFiles merges the files that exist, later ones winning. Missing
// files are skipped; a file that exists but cannot be read is an error.
func mergeConfigFiles(v *viper.Viper, paths ...string) error {
	for _, configPath := range paths {
		if configPath == "" {
			continue
		}
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(configPath)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", configPath)
		}
		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", configPath)
		}
	}
	return nil
}
