package config

import (
	"slices"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Cache size: 0 = no caching, negative = invalid
	if c.Resolve.CacheSize < 0 {
		return errors.Newf("resolve.cache_size must be >= 0, got %d", c.Resolve.CacheSize)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	if c.Output.Theme != "" && !slices.Contains(logger.Themes(), c.Output.Theme) {
		return errors.WithHintf(
			errors.Newf("output.theme %q is not a known theme", c.Output.Theme),
			"available themes: %v", logger.Themes())
	}

	for i, p := range c.Typemap.Paths {
		if p == "" {
			return errors.Newf("typemap.paths[%d] is empty", i)
		}
	}

	if len(c.Discover.Packages) > 0 && len(c.Discover.Capabilities) == 0 {
		return errors.New("discover.capabilities cannot be empty when discover.packages is set")
	}

	return nil
}
