// Package config loads bindgen settings from bindgen.toml files, environment
// variables and defaults.
package config

// Config is the bindgen configuration
type Config struct {
	Typemap  TypemapConfig  `mapstructure:"typemap" toml:"typemap" yaml:"typemap" json:"typemap"`
	Discover DiscoverConfig `mapstructure:"discover" toml:"discover" yaml:"discover" json:"discover"`
	Resolve  ResolveConfig  `mapstructure:"resolve" toml:"resolve" yaml:"resolve" json:"resolve"`
	Output   OutputConfig   `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log" json:"log"`

	// Dir is the directory of the project config file; relative typemap
	// paths are resolved against it. Empty when no file was found.
	Dir string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// TypemapConfig lists the typemap files to load, in order
type TypemapConfig struct {
	Paths []string `mapstructure:"paths" toml:"paths" yaml:"paths" json:"paths"`
}

// DiscoverConfig configures capability discovery from Go packages
type DiscoverConfig struct {
	Dir          string   `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`                                     // package loading directory (default: config dir)
	Packages     []string `mapstructure:"packages" toml:"packages" yaml:"packages" json:"packages"`                 // empty = discovery off
	Capabilities []string `mapstructure:"capabilities" toml:"capabilities" yaml:"capabilities" json:"capabilities"` // io.Writer, fmt.Stringer, comparable, error
	Relative     bool     `mapstructure:"relative" toml:"relative" yaml:"relative" json:"relative"`                 // unqualified type names
}

// ResolveConfig tunes conversion resolution
type ResolveConfig struct {
	CacheSize int `mapstructure:"cache_size" toml:"cache_size" yaml:"cache_size" json:"cache_size"` // 0 = no cache
}

// OutputConfig configures how results are printed
type OutputConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Theme string `mapstructure:"theme" toml:"theme" yaml:"theme" json:"theme"` // everforest, gruvbox
}

// LogConfig configures logging
type LogConfig struct {
	Verbosity int `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"` // same scale as -v count
}

// DiscoveryEnabled reports whether any packages are configured for discovery.
func (c *Config) DiscoveryEnabled() bool {
	return len(c.Discover.Packages) > 0
}
