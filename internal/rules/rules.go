// Package rules runs YAML-defined pattern rules over expression files.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is one named pattern with the message reported on a match.
type Rule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// Config is the top-level rules file.
type Config struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// LoadConfig reads and validates a YAML rules file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	if len(config.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no rules", path)
	}
	for i, r := range config.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule %d in %s has no name", i, path)
		}
		if r.Pattern == "" {
			return nil, fmt.Errorf("rule %q in %s has no pattern", r.Name, path)
		}
	}
	return &config, nil
}
