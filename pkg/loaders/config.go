package loaders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig decodes a YAML (or JSON) file over out. Fields missing from the
// file keep the values out already holds, so callers pass in their defaults.
func LoadConfig(filename string, out any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	return nil
}
