package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads a YAML configuration file on top of the built-in
// defaults. Keys absent from the file keep their default values.
func Load(filename string) (Config, error) {
	cfg := Default()

	cfgFile, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(cfgFile, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return cfg, nil
}
