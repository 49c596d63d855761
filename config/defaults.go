package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/bindgen/typemap"
)

const (
	// FileName is the project config file searched for from the working directory up
	FileName = "bindgen.toml"
	// EnvPrefix prefixes environment overrides (BINDGEN_RESOLVE_CACHE_SIZE)
	EnvPrefix = "BINDGEN"
	// DefaultTheme is the console log theme
	DefaultTheme = "everforest"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("typemap.paths", []string{"typemap.yaml"})

	v.SetDefault("discover.dir", "")
	v.SetDefault("discover.packages", []string{})
	v.SetDefault("discover.capabilities", []string{"fmt.Stringer", "error", "comparable"})
	v.SetDefault("discover.relative", false)

	v.SetDefault("resolve.cache_size", typemap.DefaultCacheSize)

	v.SetDefault("output.json", false)
	v.SetDefault("output.theme", DefaultTheme)

	v.SetDefault("log.verbosity", 0)
}

// Default returns the configuration with every default applied.
func Default() *Config {
	return &Config{
		Typemap: TypemapConfig{Paths: []string{"typemap.yaml"}},
		Discover: DiscoverConfig{
			Packages:     []string{},
			Capabilities: []string{"fmt.Stringer", "error", "comparable"},
		},
		Resolve: ResolveConfig{CacheSize: typemap.DefaultCacheSize},
		Output:  OutputConfig{Theme: DefaultTheme},
	}
}
