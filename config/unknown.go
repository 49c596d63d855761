package config

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/teranos/bindgen/errors"
)

// UnknownKeys returns the keys in a config file that no setting reads,
// usually misspellings. Viper ignores them silently.
func UnknownKeys(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	var keys []string
	for _, k := range md.Undecoded() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys, nil
}
